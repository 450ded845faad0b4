// internal/service/space/membership.go

package space

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"unispace/internal/domain/identity"
	domain "unispace/internal/domain/space"
	"unispace/internal/replica"
)

// MembershipConfig contains configuration for the membership
// controller.
type MembershipConfig struct {
	EventsTopic string
}

// MembershipController implements create/join/leave over the replica.
// Operations are local-first: the caller dispatches the matching
// remote call separately and reconciles via Refresh afterward.
type MembershipController struct {
	store     *replica.Store
	ident     identity.Provider
	snapshots SnapshotStore
	events    *eventPublisher
	log       zerolog.Logger
}

// NewMembershipController creates a membership controller. snapshots
// and eventBus may be nil.
func NewMembershipController(
	store *replica.Store,
	ident identity.Provider,
	snapshots SnapshotStore,
	eventBus *nats.Conn,
	config MembershipConfig,
	log zerolog.Logger,
) *MembershipController {
	return &MembershipController{
		store:     store,
		ident:     ident,
		snapshots: snapshots,
		events:    newEventPublisher(eventBus, config.EventsTopic, log),
		log:       log,
	}
}

// CreateSpace constructs a new space with the caller as creator and
// sole participant and inserts it into the replica. The returned id is
// pending until ConfirmSpace rebinds it to a remote-assigned one.
func (c *MembershipController) CreateSpace(ctx context.Context, title, description string, universities, tags []string) (string, error) {
	user, ok := c.ident.CurrentUser()
	if !ok {
		return "", domain.ErrUnauthenticated
	}

	names := dedupe(universities)
	if user.University != "" && !contains(names, user.University) {
		names = append(names, user.University)
	}

	sp := domain.Space{
		ID:           uuid.New().String(),
		IDState:      domain.IDPending,
		Title:        title,
		Description:  description,
		CreatorID:    user.ID,
		Universities: names,
		Tags:         dedupe(tags),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		Members:      1,
		Participants: []string{user.ID},
		Messages:     []domain.Message{},
	}

	if err := c.store.Insert(sp); err != nil {
		return "", fmt.Errorf("inserting space: %w", err)
	}

	persistSnapshot(c.snapshots, c.store, c.log)
	c.events.publish("created", spaceEvent{SpaceID: sp.ID, Title: sp.Title, UserID: user.ID})
	c.log.Info().Str("spaceId", sp.ID).Msg("space created locally")

	return sp.ID, nil
}

// ConfirmSpace rebinds a pending local id to the canonical remote id.
func (c *MembershipController) ConfirmSpace(ctx context.Context, localID, remoteID string) error {
	if err := c.store.Rekey(localID, remoteID); err != nil {
		return fmt.Errorf("confirming space id: %w", err)
	}

	persistSnapshot(c.snapshots, c.store, c.log)
	c.log.Info().Str("localId", localID).Str("remoteId", remoteID).Msg("space id confirmed")
	return nil
}

// JoinSpace adds the caller to the space's participant set. A second
// join by the same user is a no-op; the member count moves by exactly
// one per distinct participant.
func (c *MembershipController) JoinSpace(ctx context.Context, spaceID string) error {
	user, ok := c.ident.CurrentUser()
	if !ok {
		return domain.ErrUnauthenticated
	}

	joined := false
	err := c.store.Update(spaceID, func(sp *domain.Space) error {
		if sp.AddParticipant(user.ID) {
			sp.Members++
			joined = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if joined {
		persistSnapshot(c.snapshots, c.store, c.log)
		c.events.publish("joined", spaceEvent{SpaceID: spaceID, UserID: user.ID})
	}
	return nil
}

// LeaveSpace removes the caller from the space's participant set. The
// member count is decremented only when the caller actually was a
// participant; leaving a space never joined changes nothing.
func (c *MembershipController) LeaveSpace(ctx context.Context, spaceID string) error {
	user, ok := c.ident.CurrentUser()
	if !ok {
		return domain.ErrUnauthenticated
	}

	left := false
	err := c.store.Update(spaceID, func(sp *domain.Space) error {
		if sp.RemoveParticipant(user.ID) {
			if sp.Members > 0 {
				sp.Members--
			}
			left = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if left {
		persistSnapshot(c.snapshots, c.store, c.log)
		c.events.publish("left", spaceEvent{SpaceID: spaceID, UserID: user.ID})
	}
	return nil
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
