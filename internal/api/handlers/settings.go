package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/repository"
	"github.com/ray/bizdesk/internal/websocket"
	"github.com/rs/zerolog"
)

type SettingsHandler struct {
	settingRepo repository.SettingRepository
	hub         *websocket.Hub
	log         zerolog.Logger
}

func NewSettingsHandler(settingRepo repository.SettingRepository, hub *websocket.Hub, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{settingRepo: settingRepo, hub: hub, log: log}
}

func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingRepo.GetAll(r.Context())
	if err != nil {
		respondStorageError(w, h.log, "settings.list", err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settingRepo.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondStorageError(w, h.log, "settings.get", err)
		return
	}
	respondJSON(w, http.StatusOK, setting)
}

// Upsert stores the raw JSON body as the value for key, creating or
// overwriting as needed.
func (h *SettingsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" || len(key) > 128 {
		respondError(w, http.StatusBadRequest, "invalid setting key")
		return
	}

	var value json.RawMessage
	if !decodeBody(w, r, &value) {
		return
	}
	if len(value) == 0 {
		respondError(w, http.StatusBadRequest, "value is required")
		return
	}

	setting := &domain.Setting{
		Key:       key,
		Value:     []byte(value),
		UpdatedAt: time.Now(),
	}

	if err := h.settingRepo.Upsert(r.Context(), setting); err != nil {
		respondStorageError(w, h.log, "settings.upsert", err)
		return
	}

	h.hub.Broadcast("setting.updated", setting)
	respondJSON(w, http.StatusOK, setting)
}

func (h *SettingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if _, err := h.settingRepo.Get(r.Context(), key); err != nil {
		respondStorageError(w, h.log, "settings.delete", err)
		return
	}

	if err := h.settingRepo.Delete(r.Context(), key); err != nil {
		respondStorageError(w, h.log, "settings.delete", err)
		return
	}

	h.hub.Broadcast("setting.deleted", map[string]string{"key": key})
	respondMessage(w, http.StatusOK, "setting deleted")
}
