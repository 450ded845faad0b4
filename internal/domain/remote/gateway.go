// internal/domain/remote/gateway.go

package remote

import (
	"context"
	"time"
)

// SpaceRecord is a space as the remote source shapes it. Fields may be
// partially populated; translation is best-effort.
type SpaceRecord struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CreatorID      string    `json:"creator_id"`
	UniversityIDs  []string  `json:"university_ids"`
	ParticipantIDs []string  `json:"participant_ids"`
	Tags           []string  `json:"tags"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	MemberCount    int       `json:"member_count"`
}

// SpaceDraft carries the fields sent to the remote on creation.
type SpaceDraft struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CreatorID     string   `json:"creator_id"`
	UniversityIDs []string `json:"university_ids"`
	Tags          []string `json:"tags"`
}

// Gateway is the remote authoritative source. Implementations are
// assumed unreliable and possibly slow; every call takes a context
// with a bounded deadline.
type Gateway interface {
	ListSpaces(ctx context.Context) ([]SpaceRecord, error)
	CreateSpace(ctx context.Context, draft SpaceDraft) (SpaceRecord, error)
	JoinSpace(ctx context.Context, spaceID, userID string) error
	LeaveSpace(ctx context.Context, spaceID, userID string) error
}
