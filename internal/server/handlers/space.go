// internal/server/handlers/space.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"unispace/internal/domain/identity"
	"unispace/internal/domain/remote"
	"unispace/internal/domain/space"
	"unispace/internal/replica"
)

// remoteDispatchTimeout bounds the fire-and-forget remote calls issued
// around local optimistic mutations.
const remoteDispatchTimeout = 10 * time.Second

// SpaceHandler handles space-related HTTP requests. Mutations apply to
// the local replica first; the matching remote call is dispatched fire
// and forget, and a later refresh reconciles.
type SpaceHandler struct {
	syncer  space.Syncer
	members space.Membership
	msgs    space.Log
	store   *replica.Store
	gateway remote.Gateway
	ident   identity.Provider
	log     zerolog.Logger
}

// NewSpaceHandler creates a new space handler.
func NewSpaceHandler(
	syncer space.Syncer,
	members space.Membership,
	msgs space.Log,
	store *replica.Store,
	gateway remote.Gateway,
	ident identity.Provider,
	log zerolog.Logger,
) *SpaceHandler {
	return &SpaceHandler{
		syncer:  syncer,
		members: members,
		msgs:    msgs,
		store:   store,
		gateway: gateway,
		ident:   ident,
		log:     log,
	}
}

// ListSpaces returns the current replica snapshot without contacting
// the remote.
func (h *SpaceHandler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.syncer.Snapshot())
}

// Refresh reconciles the replica against the remote and returns the
// resulting snapshot. It always succeeds; a remote failure yields the
// stale or seeded replica.
func (h *SpaceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.syncer.Refresh(r.Context()))
}

// GetSpace returns a specific space by ID.
func (h *SpaceHandler) GetSpace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing space ID", nil)
		return
	}

	sp, ok := h.store.Get(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Space not found", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, sp)
}

// JoinedSpaces returns the joined-id set for the device user.
func (h *SpaceHandler) JoinedSpaces(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string][]string{
		"joinedIds": h.syncer.Snapshot().JoinedIDs,
	})
}

// CreateSpace creates a new space in the local replica and dispatches
// the remote create in the background. On remote success the pending
// local id is rebound to the remote-assigned one.
func (h *SpaceHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	type createSpaceRequest struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Universities []string `json:"universities"`
		Tags         []string `json:"tags"`
	}

	var req createSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required", nil)
		return
	}

	id, err := h.members.CreateSpace(r.Context(), req.Title, req.Description, req.Universities, req.Tags)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	h.dispatchRemoteCreate(id, req.Title, req.Description, req.Universities, req.Tags)

	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// JoinSpace joins the device user into a space.
func (h *SpaceHandler) JoinSpace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.members.JoinSpace(r.Context(), id); err != nil {
		respondWithDomainError(w, err)
		return
	}

	if user, ok := h.ident.CurrentUser(); ok {
		h.dispatchRemote("join", id, func(ctx context.Context) error {
			return h.gateway.JoinSpace(ctx, id, user.ID)
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// LeaveSpace removes the device user from a space.
func (h *SpaceHandler) LeaveSpace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.members.LeaveSpace(r.Context(), id); err != nil {
		respondWithDomainError(w, err)
		return
	}

	if user, ok := h.ident.CurrentUser(); ok {
		h.dispatchRemote("leave", id, func(ctx context.Context) error {
			return h.gateway.LeaveSpace(ctx, id, user.ID)
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// GetMessages returns a space's message log in append order.
func (h *SpaceHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	messages, err := h.msgs.Messages(id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, messages)
}

// SendMessage appends a message to a space's replica-local log.
func (h *SpaceHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	type sendMessageRequest struct {
		Text string `json:"text"`
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.msgs.Append(r.Context(), id, req.Text)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, msg)
}

// dispatchRemoteCreate sends the create to the remote in the
// background and rebinds the local pending id on success.
func (h *SpaceHandler) dispatchRemoteCreate(localID, title, description string, universities, tags []string) {
	user, ok := h.ident.CurrentUser()
	if !ok {
		return
	}

	draft := remote.SpaceDraft{
		Title:         title,
		Description:   description,
		CreatorID:     user.ID,
		UniversityIDs: universities,
		Tags:          tags,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteDispatchTimeout)
		defer cancel()

		rec, err := h.gateway.CreateSpace(ctx, draft)
		if err != nil {
			h.log.Warn().Err(err).Str("spaceId", localID).Msg("remote create failed, space stays pending")
			return
		}
		if err := h.members.ConfirmSpace(ctx, localID, rec.ID); err != nil {
			h.log.Error().Err(err).Str("spaceId", localID).Str("remoteId", rec.ID).Msg("confirm space id")
		}
	}()
}

// dispatchRemote runs a fire-and-forget remote call. A failure does
// not roll back the local mutation; the next refresh reconciles.
func (h *SpaceHandler) dispatchRemote(op, spaceID string, call func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteDispatchTimeout)
		defer cancel()

		if err := call(ctx); err != nil {
			h.log.Warn().Err(err).Str("op", op).Str("spaceId", spaceID).Msg("remote dispatch failed")
		}
	}()
}
