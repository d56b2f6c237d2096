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
)

type ProductHandler struct {
	productService *service.ProductService
	hub            *websocket.Hub
	log            zerolog.Logger
}

func NewProductHandler(productService *service.ProductService, hub *websocket.Hub, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, hub: hub, log: log}
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	SKU         string `json:"sku" validate:"required,max=64"`
	Description string `json:"description" validate:"max=2000"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAll(r.Context())
	if err != nil {
		respondStorageError(w, h.log, "product.list", err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		respondStorageError(w, h.log, "product.get", err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Create(r.Context(), service.ProductInput{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSKUTaken) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondStorageError(w, h.log, "product.create", err)
		return
	}

	h.hub.Broadcast("product.created", product)
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Update(r.Context(), id, service.ProductInput{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSKUTaken) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondStorageError(w, h.log, "product.update", err)
		return
	}

	h.hub.Broadcast("product.updated", product)
	respondJSON(w, http.StatusOK, product)
}

// AdjustStock moves inventory by a signed delta, e.g. -2 on a sale or +10
// on a delivery.
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req AdjustStockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}

	product, err := h.productService.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondStorageError(w, h.log, "product.adjust_stock", err)
		return
	}

	h.hub.Broadcast("product.updated", product)
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if _, err := h.productService.Get(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "product.delete", err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondStorageError(w, h.log, "product.delete", err)
		return
	}

	h.hub.Broadcast("product.deleted", map[string]string{"id": id.String()})
	respondMessage(w, http.StatusOK, "product deleted")
}
