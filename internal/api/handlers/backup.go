package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/service"
	"github.com/rs/zerolog"
)

type BackupHandler struct {
	backupService *service.BackupService
	log           zerolog.Logger
}

func NewBackupHandler(backupService *service.BackupService, log zerolog.Logger) *BackupHandler {
	return &BackupHandler{backupService: backupService, log: log}
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupService.List()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list backups")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, backups)
}

func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	info, err := h.backupService.Create(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create backup")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.log.Info().Str("name", info.Name).Int64("size", info.Size).Msg("backup created")
	respondJSON(w, http.StatusCreated, info)
}

// Download streams an archive by name. The service rejects anything it did
// not generate itself.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, err := h.backupService.Open(name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		h.log.Error().Err(err).Str("name", name).Msg("failed to open backup")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := io.Copy(w, f); err != nil {
		h.log.Debug().Err(err).Str("name", name).Msg("backup download interrupted")
	}
}
