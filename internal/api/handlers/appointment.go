package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/repository"
	"github.com/ray/bizdesk/internal/websocket"
	"github.com/rs/zerolog"
)

type AppointmentHandler struct {
	appointmentRepo repository.AppointmentRepository
	customerRepo    repository.CustomerRepository
	hub             *websocket.Hub
	log             zerolog.Logger
}

func NewAppointmentHandler(appointmentRepo repository.AppointmentRepository, customerRepo repository.CustomerRepository, hub *websocket.Hub, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentRepo: appointmentRepo,
		customerRepo:    customerRepo,
		hub:             hub,
		log:             log,
	}
}

type AppointmentRequest struct {
	CustomerID string    `json:"customerId" validate:"required,uuid"`
	Title      string    `json:"title" validate:"required,max=128"`
	Notes      string    `json:"notes" validate:"max=2000"`
	StartsAt   time.Time `json:"startsAt" validate:"required"`
	EndsAt     time.Time `json:"endsAt" validate:"required"`
	Status     string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
}

// List returns appointments, optionally restricted to a [from, to) window
// given as RFC 3339 timestamps.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	if fromStr == "" && toStr == "" {
		appointments, err := h.appointmentRepo.GetAll(r.Context())
		if err != nil {
			respondStorageError(w, h.log, "appointment.list", err)
			return
		}
		respondJSON(w, http.StatusOK, appointments)
		return
	}

	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "from must be an RFC 3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "to must be an RFC 3339 timestamp")
		return
	}

	appointments, err := h.appointmentRepo.GetInRange(r.Context(), from, to)
	if err != nil {
		respondStorageError(w, h.log, "appointment.list", err)
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	appointment, err := h.appointmentRepo.GetByID(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "appointment.get", err)
		return
	}
	respondJSON(w, http.StatusOK, appointment)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, customerID, ok := h.decodeAndCheck(w, r)
	if !ok {
		return
	}

	status := domain.AppointmentScheduled
	if req.Status != "" {
		status = domain.AppointmentStatus(req.Status)
	}

	appointment := &domain.Appointment{
		ID:         uuid.New(),
		CustomerID: customerID,
		Title:      req.Title,
		Notes:      req.Notes,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.appointmentRepo.Create(r.Context(), appointment); err != nil {
		respondStorageError(w, h.log, "appointment.create", err)
		return
	}

	h.hub.Broadcast("appointment.created", appointment)
	respondJSON(w, http.StatusCreated, appointment)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	req, customerID, ok := h.decodeAndCheck(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentRepo.GetByID(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "appointment.update", err)
		return
	}

	appointment.CustomerID = customerID
	appointment.Title = req.Title
	appointment.Notes = req.Notes
	appointment.StartsAt = req.StartsAt
	appointment.EndsAt = req.EndsAt
	if req.Status != "" {
		appointment.Status = domain.AppointmentStatus(req.Status)
	}
	appointment.UpdatedAt = time.Now()

	if err := h.appointmentRepo.Update(r.Context(), appointment); err != nil {
		respondStorageError(w, h.log, "appointment.update", err)
		return
	}

	h.hub.Broadcast("appointment.updated", appointment)
	respondJSON(w, http.StatusOK, appointment)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	if _, err := h.appointmentRepo.GetByID(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "appointment.delete", err)
		return
	}

	if err := h.appointmentRepo.Delete(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "appointment.delete", err)
		return
	}

	h.hub.Broadcast("appointment.deleted", map[string]string{"id": id.String()})
	respondMessage(w, http.StatusOK, "appointment deleted")
}

// decodeAndCheck parses and validates the request body, enforces the time
// range, and confirms the customer exists.
func (h *AppointmentHandler) decodeAndCheck(w http.ResponseWriter, r *http.Request) (*AppointmentRequest, uuid.UUID, bool) {
	var req AppointmentRequest
	if !decodeBody(w, r, &req) {
		return nil, uuid.Nil, false
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, uuid.Nil, false
	}
	if !req.EndsAt.After(req.StartsAt) {
		respondError(w, http.StatusBadRequest, domain.ErrInvalidTimeRange.Error())
		return nil, uuid.Nil, false
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return nil, uuid.Nil, false
	}

	if _, err := h.customerRepo.GetByID(r.Context(), customerID); err != nil {
		respondStorageError(w, h.log, "appointment.customer_check", err)
		return nil, uuid.Nil, false
	}

	return &req, customerID, true
}
