package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking.
// Transitions are forward-only: confirmed -> cancelled -> refunded.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRefunded  BookingStatus = "refunded"
)

// PaymentStatus represents the payment state recorded on a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PassengerDetail holds one passenger's record, one per booked seat
type PassengerDetail struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Phone  string `json:"phone"`
}

// PassengerDetails is stored as a JSONB column on the booking row
type PassengerDetails []PassengerDetail

// Value implements the driver.Valuer interface
func (p PassengerDetails) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *PassengerDetails) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return errors.New("unsupported type for PassengerDetails")
}

// Booking represents a confirmed seat purchase on a schedule. Rows are never
// deleted; cancellations only move the status forward and record the refund.
type Booking struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	ScheduleID       uuid.UUID        `json:"schedule_id" db:"schedule_id"`
	UserID           uuid.UUID        `json:"user_id" db:"user_id"`
	SeatNumbers      IntArray         `json:"seat_numbers" db:"seat_numbers"`
	TotalAmount      float64          `json:"total_amount" db:"total_amount"`
	Status           BookingStatus    `json:"status" db:"status"`
	PaymentStatus    PaymentStatus    `json:"payment_status" db:"payment_status"`
	Passengers       PassengerDetails `json:"passenger_details" db:"passenger_details"`
	BookingDate      time.Time        `json:"booking_date" db:"booking_date"`
	CancellationDate *time.Time       `json:"cancellation_date,omitempty" db:"cancellation_date"`
	RefundAmount     *float64         `json:"refund_amount,omitempty" db:"refund_amount"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// CanBeCancelled reports whether the booking is still in the confirmed state
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusConfirmed
}

// BookingWithTrip is a booking joined with its schedule, bus and route context
type BookingWithTrip struct {
	Booking
	DepartureTime time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time" db:"arrival_time"`
	BusNumber     string    `json:"bus_number" db:"bus_number"`
	BusType       BusType   `json:"bus_type" db:"bus_type"`
	RouteName     string    `json:"route_name" db:"route_name"`
	Origin        string    `json:"origin" db:"origin"`
	Destination   string    `json:"destination" db:"destination"`
}

// CreateBookingRequest represents a seat reservation request
type CreateBookingRequest struct {
	ScheduleID  string            `json:"schedule_id" binding:"required"`
	SeatNumbers []int             `json:"seat_numbers" binding:"required"`
	Passengers  []PassengerDetail `json:"passenger_details" binding:"required"`
}

// Validate rejects malformed requests before any lock is taken. Range checks
// against the schedule capacity happen later, under the exclusive section.
func (r *CreateBookingRequest) Validate() error {
	if _, err := uuid.Parse(r.ScheduleID); err != nil {
		return ErrInvalidInput("schedule_id must be a valid UUID")
	}
	if len(r.SeatNumbers) == 0 {
		return ErrInvalidInput("seat_numbers must not be empty")
	}
	seen := make(map[int]bool, len(r.SeatNumbers))
	for _, seat := range r.SeatNumbers {
		if seat < 1 {
			return ErrInvalidInput(fmt.Sprintf("invalid seat number %d", seat))
		}
		if seen[seat] {
			return ErrInvalidInput(fmt.Sprintf("duplicate seat number %d in request", seat))
		}
		seen[seat] = true
	}
	if len(r.Passengers) != len(r.SeatNumbers) {
		return ErrInvalidInput("passenger_details count must match seat_numbers count")
	}
	for i, p := range r.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return ErrInvalidInput(fmt.Sprintf("passenger %d: name is required", i+1))
		}
		if p.Age < 1 || p.Age > 120 {
			return ErrInvalidInput(fmt.Sprintf("passenger %d: age must be between 1 and 120", i+1))
		}
		if p.Gender != "male" && p.Gender != "female" && p.Gender != "other" {
			return ErrInvalidInput(fmt.Sprintf("passenger %d: gender must be male, female or other", i+1))
		}
		if strings.TrimSpace(p.Phone) == "" {
			return ErrInvalidInput(fmt.Sprintf("passenger %d: phone is required", i+1))
		}
	}
	return nil
}

// BookingResponse is the reserve operation's success payload
type BookingResponse struct {
	BookingID   uuid.UUID     `json:"booking_id"`
	SeatNumbers []int         `json:"seat_numbers"`
	TotalAmount float64       `json:"total_amount"`
	Status      BookingStatus `json:"status"`
}

// CancelBookingResponse is the cancel operation's success payload
type CancelBookingResponse struct {
	RefundAmount float64 `json:"refund_amount"`
}
