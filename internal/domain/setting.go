package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a single store-configuration entry keyed by name.
type Setting struct {
	Key       string         `json:"key" gorm:"primary_key"`
	Value     datatypes.JSON `json:"value" gorm:"not null"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
