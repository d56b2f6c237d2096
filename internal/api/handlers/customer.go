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

// CustomerHandler sits directly on the repository; customer records have no
// business rules beyond shape validation.
type CustomerHandler struct {
	customerRepo repository.CustomerRepository
	hub          *websocket.Hub
	log          zerolog.Logger
}

func NewCustomerHandler(customerRepo repository.CustomerRepository, hub *websocket.Hub, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{customerRepo: customerRepo, hub: hub, log: log}
}

type CustomerRequest struct {
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,numeric,min=10,max=20"`
	Notes string `json:"notes" validate:"max=2000"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerRepo.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondStorageError(w, h.log, "customer.list", err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.customerRepo.GetByID(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "customer.get", err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer := &domain.Customer{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.customerRepo.Create(r.Context(), customer); err != nil {
		respondStorageError(w, h.log, "customer.create", err)
		return
	}

	h.hub.Broadcast("customer.created", customer)
	respondJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req CustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.customerRepo.GetByID(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "customer.update", err)
		return
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Notes = req.Notes
	customer.UpdatedAt = time.Now()

	if err := h.customerRepo.Update(r.Context(), customer); err != nil {
		respondStorageError(w, h.log, "customer.update", err)
		return
	}

	h.hub.Broadcast("customer.updated", customer)
	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if _, err := h.customerRepo.GetByID(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "customer.delete", err)
		return
	}

	if err := h.customerRepo.Delete(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "customer.delete", err)
		return
	}

	h.hub.Broadcast("customer.deleted", map[string]string{"id": id.String()})
	respondMessage(w, http.StatusOK, "customer deleted")
}
