package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Schedule represents one trip instance of a bus on a route. It owns the
// seat inventory for that trip: capacity is frozen from the bus at creation
// and booked_seats/available_seats are mutated only by the reservation engine.
type Schedule struct {
	ID             uuid.UUID `json:"id" db:"id"`
	BusID          uuid.UUID `json:"bus_id" db:"bus_id"`
	RouteID        uuid.UUID `json:"route_id" db:"route_id"`
	DepartureTime  time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time" db:"arrival_time"`
	Price          float64   `json:"price" db:"price"`
	Capacity       int       `json:"capacity" db:"capacity"`
	BookedSeats    IntArray  `json:"booked_seats" db:"booked_seats"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ConflictingSeats returns the requested seat numbers that are already booked
func (s *Schedule) ConflictingSeats(requested []int) []int {
	conflicts := []int{}
	for _, seat := range requested {
		if s.BookedSeats.Contains(seat) {
			conflicts = append(conflicts, seat)
		}
	}
	return conflicts
}

// SeatInRange reports whether a seat number is valid for this schedule
func (s *Schedule) SeatInRange(seat int) bool {
	return seat >= 1 && seat <= s.Capacity
}

// CanAcceptBooking checks if the schedule can accept a booking for n seats
func (s *Schedule) CanAcceptBooking(n int) bool {
	return s.IsActive && s.AvailableSeats >= n
}

// CheckSeatInvariant verifies capacity = |booked| + available.
// Mutation paths call this after applying seat changes.
func (s *Schedule) CheckSeatInvariant() error {
	if len(s.BookedSeats)+s.AvailableSeats != s.Capacity {
		return errors.New("seat inventory out of balance")
	}
	return nil
}

// CreateScheduleRequest represents the request to schedule a trip
type CreateScheduleRequest struct {
	BusID         string  `json:"bus_id" binding:"required"`
	RouteID       string  `json:"route_id" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"` // RFC 3339
	ArrivalTime   string  `json:"arrival_time" binding:"required"`   // RFC 3339
	Price         float64 `json:"price"`
}

// Validate validates the create schedule request
func (r *CreateScheduleRequest) Validate() error {
	if _, err := uuid.Parse(r.BusID); err != nil {
		return errors.New("bus_id must be a valid UUID")
	}
	if _, err := uuid.Parse(r.RouteID); err != nil {
		return errors.New("route_id must be a valid UUID")
	}
	departure, err := time.Parse(time.RFC3339, r.DepartureTime)
	if err != nil {
		return errors.New("departure_time must be RFC 3339")
	}
	arrival, err := time.Parse(time.RFC3339, r.ArrivalTime)
	if err != nil {
		return errors.New("arrival_time must be RFC 3339")
	}
	if !arrival.After(departure) {
		return errors.New("arrival_time must be after departure_time")
	}
	if r.Price < 0 {
		return errors.New("price must be non-negative")
	}
	return nil
}

// ScheduleSearchResult is a search hit with bus and route context attached
type ScheduleSearchResult struct {
	ScheduleID     uuid.UUID `json:"schedule_id" db:"schedule_id"`
	BusNumber      string    `json:"bus_number" db:"bus_number"`
	BusType        BusType   `json:"bus_type" db:"bus_type"`
	RouteName      string    `json:"route_name" db:"route_name"`
	Origin         string    `json:"origin" db:"origin"`
	Destination    string    `json:"destination" db:"destination"`
	DepartureTime  time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time" db:"arrival_time"`
	Price          float64   `json:"price" db:"price"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
}
