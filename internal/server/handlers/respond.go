// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"unispace/internal/domain/space"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to encode response", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// respondWithDomainError maps the error taxonomy onto HTTP statuses.
// Anything unrecognized is a 500 the UI may retry.
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, space.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "Not authenticated", err)
	case errors.Is(err, space.ErrSpaceNotFound):
		respondWithError(w, http.StatusNotFound, "Space not found", err)
	case errors.Is(err, space.ErrNotParticipant):
		respondWithError(w, http.StatusForbidden, "Not a participant of this space", err)
	case errors.Is(err, space.ErrEmptyMessage):
		respondWithError(w, http.StatusBadRequest, "Message text is empty", err)
	case errors.Is(err, space.ErrSpaceExists):
		respondWithError(w, http.StatusConflict, "Space already exists", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
