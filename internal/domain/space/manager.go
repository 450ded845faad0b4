// internal/domain/space/manager.go

package space

import (
	"context"
)

// Syncer reconciles the local replica against the remote source.
type Syncer interface {
	// Refresh pulls the remote space list, replaces the replica, and
	// returns the resulting snapshot. Refresh never fails outwardly:
	// on transport errors it falls back to the existing replica or,
	// when the replica is empty, to the seed dataset.
	Refresh(ctx context.Context) Snapshot

	// Snapshot returns the current replica view without contacting
	// the remote.
	Snapshot() Snapshot
}

// Membership exposes the create/join/leave operations over the
// replica. Join and leave are idempotent per user.
type Membership interface {
	// CreateSpace inserts a new locally created space with the caller
	// as creator and sole participant, returning its (pending) id.
	CreateSpace(ctx context.Context, title, description string, universities, tags []string) (string, error)

	// ConfirmSpace rebinds a pending local id to the canonical id the
	// remote assigned on creation.
	ConfirmSpace(ctx context.Context, localID, remoteID string) error

	// JoinSpace adds the caller to a space's participant set. Joining
	// a space twice has the same effect as joining it once.
	JoinSpace(ctx context.Context, spaceID string) error

	// LeaveSpace removes the caller from a space's participant set.
	// Leaving a space never joined leaves the space unchanged.
	LeaveSpace(ctx context.Context, spaceID string) error
}

// Log is the per-space, append-only message log.
type Log interface {
	// Append adds a message authored by the caller to the space's
	// log and returns it. The caller must be a participant.
	Append(ctx context.Context, spaceID, text string) (Message, error)

	// Messages returns the space's log in append order.
	Messages(spaceID string) ([]Message, error)

	// Persisted reports whether appended messages survive the
	// process. Messages are never persisted remotely; two devices do
	// not see each other's log.
	Persisted() bool
}
