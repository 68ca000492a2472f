package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BusType represents the category of a bus
type BusType string

const (
	BusTypeAC          BusType = "AC"
	BusTypeNonAC       BusType = "Non-AC"
	BusTypeSleeper     BusType = "Sleeper"
	BusTypeSemiSleeper BusType = "Semi-Sleeper"
)

// Bus represents a bus in the fleet catalog
type Bus struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	BusNumber string      `json:"bus_number" db:"bus_number"`
	Capacity  int         `json:"capacity" db:"capacity"`
	BusType   BusType     `json:"bus_type" db:"bus_type"`
	Amenities StringArray `json:"amenities" db:"amenities"`
	IsActive  bool        `json:"is_active" db:"is_active"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateBusRequest represents the request to register a new bus
type CreateBusRequest struct {
	BusNumber string   `json:"bus_number" binding:"required"`
	Capacity  int      `json:"capacity" binding:"required"`
	BusType   string   `json:"bus_type" binding:"required"`
	Amenities []string `json:"amenities"`
}

// UpdateBusRequest represents the request to update a bus
type UpdateBusRequest struct {
	BusNumber *string  `json:"bus_number,omitempty"`
	Capacity  *int     `json:"capacity,omitempty"`
	BusType   *string  `json:"bus_type,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
}

// Validate validates the create bus request
func (r *CreateBusRequest) Validate() error {
	if strings.TrimSpace(r.BusNumber) == "" {
		return errors.New("bus_number is required")
	}
	if r.Capacity < 1 || r.Capacity > 60 {
		return errors.New("capacity must be between 1 and 60")
	}
	if !isValidBusType(r.BusType) {
		return errors.New("bus_type must be one of: AC, Non-AC, Sleeper, Semi-Sleeper")
	}
	return nil
}

func isValidBusType(t string) bool {
	switch BusType(t) {
	case BusTypeAC, BusTypeNonAC, BusTypeSleeper, BusTypeSemiSleeper:
		return true
	}
	return false
}
