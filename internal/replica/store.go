// internal/replica/store.go

// Package replica holds the local, per-device copy of collaboration
// space state. All mutation entry points are serialized on a single
// lock; there is no cross-device coordination.
package replica

import (
	"sort"
	"sync"

	"unispace/internal/domain/space"
)

// Store is the in-process cache of spaces. The joined-id set
// is not stored: it is derived from participant membership on read,
// which makes a joined-set/participant-set divergence unrepresentable.
type Store struct {
	mu         sync.RWMutex
	spaces     map[string]*space.Space
	order      []string // insertion order, for stable listing
	appliedGen uint64   // generation of the last applied full replace
}

// New creates an empty store.
func New() *Store {
	return &Store{
		spaces: make(map[string]*space.Space),
	}
}

// Len returns the number of spaces in the replica.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spaces)
}

// Empty reports whether the replica holds no spaces.
func (s *Store) Empty() bool {
	return s.Len() == 0
}

// Get returns a copy of the space with the given id.
func (s *Store) Get(id string) (space.Space, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.spaces[id]
	if !ok {
		return space.Space{}, false
	}
	return sp.Clone(), true
}

// List returns copies of all spaces in insertion order.
func (s *Store) List() []space.Space {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]space.Space, 0, len(s.order))
	for _, id := range s.order {
		if sp, ok := s.spaces[id]; ok {
			out = append(out, sp.Clone())
		}
	}
	return out
}

// Insert adds a new space. The id must be unique within the replica.
func (s *Store) Insert(sp space.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.spaces[sp.ID]; exists {
		return space.ErrSpaceExists
	}
	c := sp.Clone()
	s.spaces[sp.ID] = &c
	s.order = append(s.order, sp.ID)
	return nil
}

// Update applies fn to the space with the given id under the store
// lock. If fn returns an error the space is left unchanged.
func (s *Store) Update(id string, fn func(*space.Space) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.spaces[id]
	if !ok {
		return space.ErrSpaceNotFound
	}
	scratch := sp.Clone()
	if err := fn(&scratch); err != nil {
		return err
	}
	s.spaces[id] = &scratch
	return nil
}

// Rekey moves a space from a pending local id to its confirmed remote
// id, preserving its position in the listing order.
func (s *Store) Rekey(oldID, newID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.spaces[oldID]
	if !ok {
		return space.ErrSpaceNotFound
	}
	if oldID == newID {
		return nil
	}
	if _, exists := s.spaces[newID]; exists {
		return space.ErrSpaceExists
	}

	delete(s.spaces, oldID)
	sp.ID = newID
	sp.IDState = space.IDConfirmed
	s.spaces[newID] = sp
	for i, id := range s.order {
		if id == oldID {
			s.order[i] = newID
			break
		}
	}
	return nil
}

// ReplaceIfNewer swaps the entire space collection for the given set,
// but only when gen is newer than the last applied replace. A refresh
// superseded by a later one is discarded whole, never partially
// applied. It reports whether the replace was applied.
func (s *Store) ReplaceIfNewer(gen uint64, spaces []space.Space) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.appliedGen {
		return false
	}
	s.appliedGen = gen

	s.spaces = make(map[string]*space.Space, len(spaces))
	s.order = s.order[:0]
	for i := range spaces {
		sp := spaces[i].Clone()
		if _, dup := s.spaces[sp.ID]; dup {
			continue
		}
		s.spaces[sp.ID] = &sp
		s.order = append(s.order, sp.ID)
	}
	return true
}

// SeedIfEmpty populates an empty replica from the given seed set.
// Calling it on a non-empty replica is a no-op. It reports whether
// seeding happened.
func (s *Store) SeedIfEmpty(seed []space.Space) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.spaces) > 0 {
		return false
	}
	for i := range seed {
		sp := seed[i].Clone()
		if _, dup := s.spaces[sp.ID]; dup {
			continue
		}
		s.spaces[sp.ID] = &sp
		s.order = append(s.order, sp.ID)
	}
	return true
}

// JoinedIDs derives the joined-id set for a user: the ids of all
// spaces whose participant set contains the user. An empty userID
// yields an empty set.
func (s *Store) JoinedIDs(userID string) []string {
	if userID == "" {
		return []string{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for _, id := range s.order {
		if sp, ok := s.spaces[id]; ok && sp.HasParticipant(userID) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
