package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// messageResponse is the envelope every error (and some acks) are wrapped in.
type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, messageResponse{Message: msg})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, messageResponse{Message: msg})
}

// respondStorageError maps a repository failure onto 404 or an opaque 500.
// The real error is logged, never sent to the client.
func respondStorageError(w http.ResponseWriter, log zerolog.Logger, op string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	log.Error().Err(err).Str("op", op).Msg("storage error")
	respondError(w, http.StatusInternalServerError, "internal server error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
