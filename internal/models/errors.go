package models

import (
	"errors"
	"fmt"
)

// Reservation error taxonomy. Validation errors come from request Validate()
// methods before any lock is taken; the errors below surface from the engine.
var (
	// ErrScheduleNotFound means the target schedule does not exist
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrScheduleInactive means the schedule accepts no new bookings
	ErrScheduleInactive = errors.New("schedule is not accepting bookings")

	// ErrNotEnoughSeats means the request exceeds the remaining capacity
	ErrNotEnoughSeats = errors.New("not enough seats available")

	// ErrBookingNotFound means no booking exists with the given id
	ErrBookingNotFound = errors.New("booking not found")

	// ErrForbidden means the booking belongs to a different user
	ErrForbidden = errors.New("booking belongs to another user")

	// ErrAlreadyCancelled means the booking already left the confirmed state
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrReservationBusy means the schedule's exclusive section could not be
	// acquired in time. Transient: the identical request is safe to retry.
	ErrReservationBusy = errors.New("schedule is busy, please retry")

	// ErrStaleSeatState means a seat-set write was rejected because the
	// inventory changed since it was read
	ErrStaleSeatState = errors.New("seat inventory changed concurrently")
)

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &ValidationError{Message: message}
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SeatConflictError reports exactly which requested seats are already booked
type SeatConflictError struct {
	Seats []int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %v", e.Seats)
}

// AsSeatConflict extracts a SeatConflictError from an error chain
func AsSeatConflict(err error) (*SeatConflictError, bool) {
	var conflict *SeatConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
