package space

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"unispace/internal/domain/directory"
	"unispace/internal/domain/identity"
	"unispace/internal/domain/remote"
	domain "unispace/internal/domain/space"
	"unispace/internal/replica"
)

type fakeIdent struct {
	user identity.User
	ok   bool
}

func (f fakeIdent) CurrentUser() (identity.User, bool) {
	return f.user, f.ok
}

func userU() fakeIdent {
	return fakeIdent{
		user: identity.User{ID: "u1", Name: "Ada", University: "Technical University of Munich"},
		ok:   true,
	}
}

func noUser() fakeIdent {
	return fakeIdent{}
}

// fakeGateway fails every call unless a func field is set.
type fakeGateway struct {
	list func(ctx context.Context) ([]remote.SpaceRecord, error)
}

func (g *fakeGateway) ListSpaces(ctx context.Context) ([]remote.SpaceRecord, error) {
	if g.list == nil {
		return nil, context.DeadlineExceeded
	}
	return g.list(ctx)
}

func (g *fakeGateway) CreateSpace(ctx context.Context, draft remote.SpaceDraft) (remote.SpaceRecord, error) {
	return remote.SpaceRecord{}, context.DeadlineExceeded
}

func (g *fakeGateway) JoinSpace(ctx context.Context, spaceID, userID string) error {
	return context.DeadlineExceeded
}

func (g *fakeGateway) LeaveSpace(ctx context.Context, spaceID, userID string) error {
	return context.DeadlineExceeded
}

// memSnapshots is an in-memory SnapshotStore.
type memSnapshots struct {
	mu     sync.Mutex
	spaces []domain.Space
	saves  int
}

func (m *memSnapshots) Save(ctx context.Context, spaces []domain.Space) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spaces = spaces
	m.saves++
	return nil
}

func (m *memSnapshots) Load(ctx context.Context) ([]domain.Space, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spaces, nil
}

func testDirectory() directory.Directory {
	return directory.NewStatic(map[string]string{
		"tum": "Technical University of Munich",
		"uva": "University of Amsterdam",
	})
}

func newTestEngine(store *replica.Store, gw remote.Gateway, ident identity.Provider) *SyncEngine {
	return NewSyncEngine(store, gw, testDirectory(), ident, nil, nil, SyncConfig{
		EventsTopic:   "space",
		RemoteTimeout: 500 * time.Millisecond,
	}, zerolog.Nop())
}

func newTestMembership(store *replica.Store, ident identity.Provider) *MembershipController {
	return NewMembershipController(store, ident, nil, nil, MembershipConfig{EventsTopic: "space"}, zerolog.Nop())
}
