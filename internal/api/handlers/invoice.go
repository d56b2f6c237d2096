package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/service"
	"github.com/ray/bizdesk/internal/websocket"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	hub            *websocket.Hub
	log            zerolog.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, hub *websocket.Hub, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, hub: hub, log: log}
}

type InvoiceItemRequest struct {
	Description string `json:"description" validate:"required,max=256"`
	Quantity    int    `json:"quantity" validate:"required,gte=1"`
	UnitCents   int64  `json:"unitCents" validate:"gte=0"`
}

type InvoiceRequest struct {
	CustomerID string               `json:"customerId" validate:"required,uuid"`
	Items      []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type InvoiceItemsRequest struct {
	Items []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type InvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent paid void"`
}

func toItems(reqs []InvoiceItemRequest) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, len(reqs))
	for i, req := range reqs {
		items[i] = domain.InvoiceItem{
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitCents:   req.UnitCents,
		}
	}
	return items
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	var customerID *uuid.UUID
	if raw := r.URL.Query().Get("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid customer id")
			return
		}
		customerID = &id
	}

	invoices, err := h.invoiceService.GetAll(r.Context(), customerID)
	if err != nil {
		respondStorageError(w, h.log, "invoice.list", err)
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	invoice, err := h.invoiceService.Get(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "invoice.get", err)
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req InvoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	invoice, err := h.invoiceService.Create(r.Context(), service.InvoiceInput{
		CustomerID: customerID,
		Items:      toItems(req.Items),
	})
	if err != nil {
		h.respondInvoiceError(w, "invoice.create", err)
		return
	}

	h.hub.Broadcast("invoice.created", invoice)
	respondJSON(w, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) UpdateItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	var req InvoiceItemsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateItems(r.Context(), id, toItems(req.Items))
	if err != nil {
		h.respondInvoiceError(w, "invoice.update_items", err)
		return
	}

	h.hub.Broadcast("invoice.updated", invoice)
	respondJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	var req InvoiceStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := h.invoiceService.SetStatus(r.Context(), id, domain.InvoiceStatus(req.Status))
	if err != nil {
		h.respondInvoiceError(w, "invoice.set_status", err)
		return
	}

	h.hub.Broadcast("invoice.updated", invoice)
	respondJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	if _, err := h.invoiceService.Get(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "invoice.delete", err)
		return
	}

	if err := h.invoiceService.Delete(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "invoice.delete", err)
		return
	}

	h.hub.Broadcast("invoice.deleted", map[string]string{"id": id.String()})
	respondMessage(w, http.StatusOK, "invoice deleted")
}

func (h *InvoiceHandler) respondInvoiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInvoice), errors.Is(err, domain.ErrInvalidItem):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		h.log.Error().Err(err).Str("op", op).Msg("storage error")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
