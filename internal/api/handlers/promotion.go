package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/repository"
	"github.com/ray/bizdesk/internal/websocket"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// PromotionHandler manages promotion records only; nothing here schedules
// or sends campaigns.
type PromotionHandler struct {
	promotionRepo repository.PromotionRepository
	hub           *websocket.Hub
	log           zerolog.Logger
}

func NewPromotionHandler(promotionRepo repository.PromotionRepository, hub *websocket.Hub, log zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{promotionRepo: promotionRepo, hub: hub, log: log}
}

type PromotionRequest struct {
	Title           string    `json:"title" validate:"required,max=128"`
	Description     string    `json:"description" validate:"max=2000"`
	DiscountPercent int       `json:"discountPercent" validate:"required,gte=1,lte=100"`
	Channels        []string  `json:"channels" validate:"dive,oneof=email sms social in_store"`
	StartsAt        time.Time `json:"startsAt"`
	EndsAt          time.Time `json:"endsAt"`
	Active          bool      `json:"active"`
}

func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.promotionRepo.GetAll(r.Context())
	if err != nil {
		respondStorageError(w, h.log, "promotion.list", err)
		return
	}
	respondJSON(w, http.StatusOK, promotions)
}

func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid promotion id")
		return
	}

	promotion, err := h.promotionRepo.GetByID(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "promotion.get", err)
		return
	}
	respondJSON(w, http.StatusOK, promotion)
}

func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, channels, ok := decodePromotion(w, r)
	if !ok {
		return
	}

	promotion := &domain.Promotion{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		Channels:        channels,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Active:          req.Active,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := h.promotionRepo.Create(r.Context(), promotion); err != nil {
		respondStorageError(w, h.log, "promotion.create", err)
		return
	}

	h.hub.Broadcast("promotion.created", promotion)
	respondJSON(w, http.StatusCreated, promotion)
}

func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid promotion id")
		return
	}

	req, channels, ok := decodePromotion(w, r)
	if !ok {
		return
	}

	promotion, err := h.promotionRepo.GetByID(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "promotion.update", err)
		return
	}

	promotion.Title = req.Title
	promotion.Description = req.Description
	promotion.DiscountPercent = req.DiscountPercent
	promotion.Channels = channels
	promotion.StartsAt = req.StartsAt
	promotion.EndsAt = req.EndsAt
	promotion.Active = req.Active
	promotion.UpdatedAt = time.Now()

	if err := h.promotionRepo.Update(r.Context(), promotion); err != nil {
		respondStorageError(w, h.log, "promotion.update", err)
		return
	}

	h.hub.Broadcast("promotion.updated", promotion)
	respondJSON(w, http.StatusOK, promotion)
}

func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid promotion id")
		return
	}

	if _, err := h.promotionRepo.GetByID(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "promotion.delete", err)
		return
	}

	if err := h.promotionRepo.Delete(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "promotion.delete", err)
		return
	}

	h.hub.Broadcast("promotion.deleted", map[string]string{"id": id.String()})
	respondMessage(w, http.StatusOK, "promotion deleted")
}

func decodePromotion(w http.ResponseWriter, r *http.Request) (*PromotionRequest, datatypes.JSON, bool) {
	var req PromotionRequest
	if !decodeBody(w, r, &req) {
		return nil, nil, false
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	if !req.EndsAt.IsZero() && !req.EndsAt.After(req.StartsAt) {
		respondError(w, http.StatusBadRequest, domain.ErrInvalidTimeRange.Error())
		return nil, nil, false
	}

	if req.Channels == nil {
		req.Channels = []string{}
	}
	channelsJSON, err := json.Marshal(req.Channels)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid channels")
		return nil, nil, false
	}

	return &req, datatypes.JSON(channelsJSON), true
}
