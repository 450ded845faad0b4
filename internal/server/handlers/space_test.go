// internal/server/handlers/space_test.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unispace/internal/adapter/identityenv"
	"unispace/internal/domain/directory"
	"unispace/internal/domain/identity"
	"unispace/internal/domain/remote"
	domain "unispace/internal/domain/space"
	"unispace/internal/replica"
	spacesvc "unispace/internal/service/space"
)

// stubGateway records remote dispatches so tests can assert the
// fire-and-forget calls without a real backend.
type stubGateway struct {
	mu     sync.Mutex
	joins  []string
	leaves []string
	list   func() ([]remote.SpaceRecord, error)
}

func (g *stubGateway) ListSpaces(ctx context.Context) ([]remote.SpaceRecord, error) {
	if g.list != nil {
		return g.list()
	}
	return nil, errors.New("remote unavailable")
}

func (g *stubGateway) CreateSpace(ctx context.Context, draft remote.SpaceDraft) (remote.SpaceRecord, error) {
	return remote.SpaceRecord{}, errors.New("remote unavailable")
}

func (g *stubGateway) JoinSpace(ctx context.Context, spaceID, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.joins = append(g.joins, spaceID)
	return nil
}

func (g *stubGateway) LeaveSpace(ctx context.Context, spaceID, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaves = append(g.leaves, spaceID)
	return nil
}

type testEnv struct {
	router  chi.Router
	store   *replica.Store
	gateway *stubGateway
}

// newTestEnv wires real services over an in-memory replica, with the
// stub gateway and a fixed device identity.
func newTestEnv(t *testing.T, ident identity.Provider, seed ...domain.Space) *testEnv {
	t.Helper()

	store := replica.New()
	for _, sp := range seed {
		require.NoError(t, store.Insert(sp))
	}

	gateway := &stubGateway{}
	log := zerolog.Nop()
	dir := directory.NewStatic(map[string]string{"tum": "Technical University of Munich"})

	engine := spacesvc.NewSyncEngine(store, gateway, dir, ident, nil, nil, spacesvc.SyncConfig{
		RemoteTimeout: 500 * time.Millisecond,
	}, log)
	members := spacesvc.NewMembershipController(store, ident, nil, nil, spacesvc.MembershipConfig{}, log)
	msgs := spacesvc.NewMessageLog(store, ident, nil, log)

	handler := NewSpaceHandler(engine, members, msgs, store, gateway, ident, log)

	r := chi.NewRouter()
	r.Route("/api/v1/spaces", func(r chi.Router) {
		r.Get("/", handler.ListSpaces)
		r.Post("/", handler.CreateSpace)
		r.Post("/refresh", handler.Refresh)
		r.Get("/joined", handler.JoinedSpaces)
		r.Get("/{id}", handler.GetSpace)
		r.Post("/{id}/join", handler.JoinSpace)
		r.Post("/{id}/leave", handler.LeaveSpace)
		r.Get("/{id}/messages", handler.GetMessages)
		r.Post("/{id}/messages", handler.SendMessage)
	})

	return &testEnv{router: r, store: store, gateway: gateway}
}

func deviceUser() identity.Provider {
	return identityenv.New(identity.User{
		ID:         "u1",
		Name:       "Ada",
		University: "Technical University of Munich",
	})
}

func seedSpace(id string, participants ...string) domain.Space {
	return domain.Space{
		ID:           id,
		IDState:      domain.IDConfirmed,
		Title:        "Space " + id,
		CreatorID:    "creator",
		IsActive:     true,
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Members:      len(participants),
		Participants: append([]string{}, participants...),
		Messages:     []domain.Message{},
	}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestListSpacesReturnsSnapshot(t *testing.T) {
	env := newTestEnv(t, deviceUser(), seedSpace("s1", "u1"), seedSpace("s2"))

	rec := env.do(t, http.MethodGet, "/api/v1/spaces", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Spaces, 2)
	assert.Equal(t, []string{"s1"}, snap.JoinedIDs)
}

func TestGetSpaceNotFound(t *testing.T) {
	env := newTestEnv(t, deviceUser())

	rec := env.do(t, http.MethodGet, "/api/v1/spaces/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinSpaceMutatesReplicaAndDispatchesRemote(t *testing.T) {
	env := newTestEnv(t, deviceUser(), seedSpace("s1", "a"))

	rec := env.do(t, http.MethodPost, "/api/v1/spaces/s1/join", "")
	require.Equal(t, http.StatusOK, rec.Code)

	sp, ok := env.store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 2, sp.Members)
	assert.True(t, sp.HasParticipant("u1"))

	// remote dispatch is fire and forget
	assert.Eventually(t, func() bool {
		env.gateway.mu.Lock()
		defer env.gateway.mu.Unlock()
		return len(env.gateway.joins) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestJoinSpaceUnauthenticated(t *testing.T) {
	env := newTestEnv(t, identityenv.Anonymous(), seedSpace("s1"))

	rec := env.do(t, http.MethodPost, "/api/v1/spaces/s1/join", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJoinUnknownSpace(t *testing.T) {
	env := newTestEnv(t, deviceUser())

	rec := env.do(t, http.MethodPost, "/api/v1/spaces/nope/join", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaveSpaceDecrements(t *testing.T) {
	env := newTestEnv(t, deviceUser(), seedSpace("s1", "u1", "b"))

	rec := env.do(t, http.MethodPost, "/api/v1/spaces/s1/leave", "")
	require.Equal(t, http.StatusOK, rec.Code)

	sp, _ := env.store.Get("s1")
	assert.Equal(t, 1, sp.Members)
	assert.False(t, sp.HasParticipant("u1"))
}

func TestCreateSpaceRequiresTitle(t *testing.T) {
	env := newTestEnv(t, deviceUser())

	rec := env.do(t, http.MethodPost, "/api/v1/spaces", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSpaceInsertsLocally(t *testing.T) {
	env := newTestEnv(t, deviceUser())

	rec := env.do(t, http.MethodPost, "/api/v1/spaces", `{"title":"Reading Group","tags":["books"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])

	sp, ok := env.store.Get(resp["id"])
	require.True(t, ok)
	assert.Equal(t, "Reading Group", sp.Title)
	assert.Equal(t, 1, sp.Members)
	assert.True(t, sp.HasParticipant("u1"))
	assert.Equal(t, domain.IDPending, sp.IDState)
}

func TestSendAndGetMessages(t *testing.T) {
	env := newTestEnv(t, deviceUser(), seedSpace("s1", "u1"))

	rec := env.do(t, http.MethodPost, "/api/v1/spaces/s1/messages", `{"text":"hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var msg domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "u1", msg.AuthorID)
	assert.Equal(t, "Ada", msg.AuthorName)

	rec = env.do(t, http.MethodGet, "/api/v1/spaces/s1/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []domain.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Text)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	env := newTestEnv(t, deviceUser(), seedSpace("s1", "someone-else"))

	rec := env.do(t, http.MethodPost, "/api/v1/spaces/s1/messages", `{"text":"hello"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshFallsBackToSeed(t *testing.T) {
	env := newTestEnv(t, deviceUser())

	rec := env.do(t, http.MethodPost, "/api/v1/spaces/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.NotEmpty(t, snap.Spaces, "failed refresh on an empty replica seeds the fallback dataset")
}

func TestJoinedSpacesEndpoint(t *testing.T) {
	env := newTestEnv(t, deviceUser(), seedSpace("s1", "u1"), seedSpace("s2", "u1"), seedSpace("s3"))

	rec := env.do(t, http.MethodGet, "/api/v1/spaces/joined", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"s1", "s2"}, resp["joinedIds"])
}
