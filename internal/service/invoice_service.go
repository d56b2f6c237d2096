package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/repository"
	"gorm.io/datatypes"
)

type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
}

func NewInvoiceService(invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
	}
}

type InvoiceInput struct {
	CustomerID uuid.UUID
	Items      []domain.InvoiceItem
}

func (s *InvoiceService) Create(ctx context.Context, input InvoiceInput) (*domain.Invoice, error) {
	total, itemsJSON, err := validateItems(input.Items)
	if err != nil {
		return nil, err
	}

	// Reject invoices for unknown customers up front.
	if _, err := s.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	id := uuid.New()
	invoice := &domain.Invoice{
		ID:         id,
		Number:     invoiceNumber(id),
		CustomerID: input.CustomerID,
		Items:      itemsJSON,
		TotalCents: total,
		Status:     domain.InvoiceDraft,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *InvoiceService) GetAll(ctx context.Context, customerID *uuid.UUID) ([]*domain.Invoice, error) {
	return s.invoiceRepo.GetAll(ctx, customerID)
}

// UpdateItems replaces the line items of a draft invoice and recomputes the
// total. Sent, paid and void invoices are immutable.
func (s *InvoiceService) UpdateItems(ctx context.Context, id uuid.UUID, items []domain.InvoiceItem) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, domain.ErrInvalidTransition
	}

	total, itemsJSON, err := validateItems(items)
	if err != nil {
		return nil, err
	}

	invoice.Items = itemsJSON
	invoice.TotalCents = total
	invoice.UpdatedAt = time.Now()

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) SetStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !invoice.Status.CanTransition(status) {
		return nil, domain.ErrInvalidTransition
	}

	invoice.Status = status
	invoice.UpdatedAt = time.Now()

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.invoiceRepo.Delete(ctx, id)
}

// validateItems checks the line items and returns the computed total plus
// the JSON snapshot stored on the invoice row.
func validateItems(items []domain.InvoiceItem) (int64, datatypes.JSON, error) {
	if len(items) == 0 {
		return 0, nil, domain.ErrEmptyInvoice
	}

	var total int64
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitCents < 0 {
			return 0, nil, domain.ErrInvalidItem
		}
		total += int64(item.Quantity) * item.UnitCents
	}

	data, err := json.Marshal(items)
	if err != nil {
		return 0, nil, err
	}
	return total, datatypes.JSON(data), nil
}

func invoiceNumber(id uuid.UUID) string {
	return fmt.Sprintf("INV-%s", id.String()[:8])
}
