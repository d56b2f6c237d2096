package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
	InvoiceVoid  InvoiceStatus = "void"
)

// CanTransition reports whether an invoice may move from s to next.
// Paid and void are terminal.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	switch s {
	case InvoiceDraft:
		return next == InvoiceSent || next == InvoiceVoid
	case InvoiceSent:
		return next == InvoicePaid || next == InvoiceVoid
	}
	return false
}

// InvoiceItem is one line of an invoice. Items are stored as a JSON snapshot
// on the invoice row rather than as separate rows.
type InvoiceItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unitCents"`
}

type Invoice struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Number     string         `json:"number" gorm:"uniqueIndex;not null"`
	CustomerID uuid.UUID      `json:"customerId" gorm:"type:uuid;not null;index"`
	Items      datatypes.JSON `json:"items" gorm:"not null"`
	TotalCents int64          `json:"totalCents" gorm:"not null"`
	Status     InvoiceStatus  `json:"status" gorm:"not null;default:'draft'"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
