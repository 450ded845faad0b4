package replica

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unispace/internal/domain/space"
)

func mkSpace(id string, participants ...string) space.Space {
	return space.Space{
		ID:           id,
		IDState:      space.IDConfirmed,
		Title:        "space " + id,
		IsActive:     true,
		Members:      len(participants),
		Participants: participants,
	}
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	s := New()

	require.NoError(t, s.Insert(mkSpace("s1")))
	err := s.Insert(mkSpace("s1"))
	require.ErrorIs(t, err, space.ErrSpaceExists)
	assert.Equal(t, 1, s.Len())
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(mkSpace("s1", "a")))

	got, ok := s.Get("s1")
	require.True(t, ok)
	got.Participants[0] = "mutated"

	again, _ := s.Get("s1")
	assert.Equal(t, "a", again.Participants[0])
}

func TestUpdateLeavesSpaceUnchangedOnError(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(mkSpace("s1", "a")))

	err := s.Update("s1", func(sp *space.Space) error {
		sp.Participants = nil
		sp.Members = 99
		return space.ErrNotParticipant
	})
	require.ErrorIs(t, err, space.ErrNotParticipant)

	got, _ := s.Get("s1")
	assert.Equal(t, []string{"a"}, got.Participants)
	assert.Equal(t, 1, got.Members)
}

func TestUpdateUnknownSpace(t *testing.T) {
	s := New()
	err := s.Update("missing", func(*space.Space) error { return nil })
	require.ErrorIs(t, err, space.ErrSpaceNotFound)
}

func TestReplaceIfNewerFullReplace(t *testing.T) {
	s := New()
	require.True(t, s.ReplaceIfNewer(1, []space.Space{mkSpace("s1"), mkSpace("s2")}))
	require.True(t, s.ReplaceIfNewer(2, []space.Space{mkSpace("s3")}))

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("s1")
	assert.False(t, ok, "stale entry leaked through full replace")
	_, ok = s.Get("s3")
	assert.True(t, ok)
}

func TestReplaceIfNewerDiscardsSupersededResult(t *testing.T) {
	s := New()

	// The newer refresh (gen 2) lands first; the slower older one
	// (gen 1) must be discarded whole.
	require.True(t, s.ReplaceIfNewer(2, []space.Space{mkSpace("new")}))
	require.False(t, s.ReplaceIfNewer(1, []space.Space{mkSpace("old")}))

	_, ok := s.Get("new")
	assert.True(t, ok)
	_, ok = s.Get("old")
	assert.False(t, ok)
}

func TestSeedIfEmpty(t *testing.T) {
	s := New()

	require.True(t, s.SeedIfEmpty([]space.Space{mkSpace("seed-1")}))
	assert.Equal(t, 1, s.Len())

	// Idempotent: seeding a non-empty replica is a no-op.
	require.False(t, s.SeedIfEmpty([]space.Space{mkSpace("seed-2")}))
	assert.Equal(t, 1, s.Len())
}

func TestRekey(t *testing.T) {
	s := New()
	pending := mkSpace("local-1")
	pending.IDState = space.IDPending
	require.NoError(t, s.Insert(pending))
	require.NoError(t, s.Insert(mkSpace("other")))

	require.NoError(t, s.Rekey("local-1", "remote-9"))

	_, ok := s.Get("local-1")
	assert.False(t, ok)
	got, ok := s.Get("remote-9")
	require.True(t, ok)
	assert.Equal(t, space.IDConfirmed, got.IDState)

	// Listing order is preserved across the rekey.
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "remote-9", list[0].ID)

	require.ErrorIs(t, s.Rekey("missing", "x"), space.ErrSpaceNotFound)
	require.ErrorIs(t, s.Rekey("remote-9", "other"), space.ErrSpaceExists)
}

func TestJoinedIDsDerivedFromParticipants(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(mkSpace("s1", "u1", "u2")))
	require.NoError(t, s.Insert(mkSpace("s2", "u2")))
	require.NoError(t, s.Insert(mkSpace("s3")))

	assert.Equal(t, []string{"s1"}, s.JoinedIDs("u1"))
	assert.Equal(t, []string{"s1", "s2"}, s.JoinedIDs("u2"))
	assert.Empty(t, s.JoinedIDs("u3"))
	assert.Empty(t, s.JoinedIDs(""))
}

func TestListInsertionOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(mkSpace("b")))
	require.NoError(t, s.Insert(mkSpace("a")))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}
