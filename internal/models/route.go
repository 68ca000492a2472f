package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Route represents a fixed origin-destination corridor
type Route struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	RouteName   string      `json:"route_name" db:"route_name"`
	Origin      string      `json:"origin" db:"origin"`
	Destination string      `json:"destination" db:"destination"`
	DistanceKm  float64     `json:"distance_km" db:"distance_km"`
	DurationMin int         `json:"duration_min" db:"duration_min"`
	Stops       StringArray `json:"stops" db:"stops"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest represents the request to create a route
type CreateRouteRequest struct {
	RouteName   string   `json:"route_name" binding:"required"`
	Origin      string   `json:"origin" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	DistanceKm  float64  `json:"distance_km" binding:"required"`
	DurationMin int      `json:"duration_min" binding:"required"`
	Stops       []string `json:"stops"`
}

// UpdateRouteRequest represents the request to update a route
type UpdateRouteRequest struct {
	RouteName   *string  `json:"route_name,omitempty"`
	Origin      *string  `json:"origin,omitempty"`
	Destination *string  `json:"destination,omitempty"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Stops       []string `json:"stops,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Validate validates the create route request
func (r *CreateRouteRequest) Validate() error {
	if strings.TrimSpace(r.RouteName) == "" {
		return errors.New("route_name is required")
	}
	if strings.TrimSpace(r.Origin) == "" {
		return errors.New("origin is required")
	}
	if strings.TrimSpace(r.Destination) == "" {
		return errors.New("destination is required")
	}
	if r.DistanceKm < 0 {
		return errors.New("distance_km must be non-negative")
	}
	if r.DurationMin < 0 {
		return errors.New("duration_min must be non-negative")
	}
	return nil
}
