package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Promotion struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description"`
	DiscountPercent int            `json:"discountPercent" gorm:"not null"`
	Channels        datatypes.JSON `json:"channels"`
	StartsAt        time.Time      `json:"startsAt"`
	EndsAt          time.Time      `json:"endsAt"`
	Active          bool           `json:"active" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
