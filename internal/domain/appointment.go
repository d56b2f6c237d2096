package domain

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID uuid.UUID         `json:"customerId" gorm:"type:uuid;not null;index"`
	Title      string            `json:"title" gorm:"not null"`
	Notes      string            `json:"notes"`
	StartsAt   time.Time         `json:"startsAt" gorm:"not null;index"`
	EndsAt     time.Time         `json:"endsAt" gorm:"not null"`
	Status     AppointmentStatus `json:"status" gorm:"not null;default:'scheduled'"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
