package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftride/bus-booking-backend/internal/models"
	"github.com/swiftride/bus-booking-backend/internal/services"
)

// ReservationStore gives the reservation engine transactional access to the
// schedules table and the bookings ledger. Every mutating path runs inside
// one transaction so the two tables can never diverge: either the booking
// row and the seat-set update both commit, or neither does.
type ReservationStore struct {
	db *sqlx.DB
}

// NewReservationStore creates a new ReservationStore
func NewReservationStore(db *sqlx.DB) *ReservationStore {
	return &ReservationStore{db: db}
}

const scheduleColumns = `
	id, bus_id, route_id, departure_time, arrival_time,
	price, capacity, booked_seats, available_seats, is_active,
	created_at, updated_at`

const bookingColumns = `
	id, schedule_id, user_id, seat_numbers, total_amount,
	status, payment_status, passenger_details, booking_date,
	cancellation_date, refund_amount, created_at, updated_at`

// GetSchedule retrieves a schedule outside any transaction
func (s *ReservationStore) GetSchedule(ctx context.Context, scheduleID uuid.UUID) (*models.Schedule, error) {
	query := `SELECT` + scheduleColumns + ` FROM schedules WHERE id = $1`

	var schedule models.Schedule
	err := s.db.GetContext(ctx, &schedule, query, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

// GetBooking retrieves a booking outside any transaction
func (s *ReservationStore) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking models.Booking
	err := s.db.GetContext(ctx, &booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Begin starts a new atomic unit
func (s *ReservationStore) Begin(ctx context.Context) (services.ReservationTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &reservationTx{tx: tx}, nil
}

// reservationTx implements services.ReservationTx on a sqlx transaction
type reservationTx struct {
	tx *sqlx.Tx
}

// ScheduleForUpdate reads a schedule under a row lock. Concurrent writers on
// the same schedule block here until the holding transaction finishes.
func (t *reservationTx) ScheduleForUpdate(ctx context.Context, scheduleID uuid.UUID) (*models.Schedule, error) {
	query := `SELECT` + scheduleColumns + ` FROM schedules WHERE id = $1 FOR UPDATE`

	var schedule models.Schedule
	err := t.tx.GetContext(ctx, &schedule, query, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

// BookingForUpdate reads a booking under a row lock
func (t *reservationTx) BookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	var booking models.Booking
	err := t.tx.GetContext(ctx, &booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// CreateBooking inserts a new booking row inside the transaction
func (t *reservationTx) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, schedule_id, user_id, seat_numbers, total_amount,
			status, payment_status, passenger_details, booking_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := t.tx.QueryRowxContext(ctx, query,
		booking.ID, booking.ScheduleID, booking.UserID,
		booking.SeatNumbers, booking.TotalAmount,
		booking.Status, booking.PaymentStatus, booking.Passengers,
		booking.BookingDate,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// AddBookedSeats applies a seat allocation as a compare-and-apply: the
// UPDATE asserts the prior sold-seat state, so a write racing against a
// state it never saw affects zero rows and is rejected instead of merged.
func (t *reservationTx) AddBookedSeats(ctx context.Context, scheduleID uuid.UUID, prior models.IntArray, seats []int) error {
	if prior == nil {
		prior = models.IntArray{}
	}
	next := prior.With(seats)

	query := `
		UPDATE schedules
		SET booked_seats = $2,
			available_seats = available_seats - $3,
			updated_at = NOW()
		WHERE id = $1
		  AND booked_seats = $4
		  AND available_seats >= $3
	`

	result, err := t.tx.ExecContext(ctx, query, scheduleID, next, len(seats), prior)
	if err != nil {
		return fmt.Errorf("failed to allocate seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrStaleSeatState
	}

	return nil
}

// ReleaseBookedSeats returns seats to the pool with the same
// expected-prior-state guard as AddBookedSeats
func (t *reservationTx) ReleaseBookedSeats(ctx context.Context, scheduleID uuid.UUID, prior models.IntArray, seats []int) error {
	if prior == nil {
		prior = models.IntArray{}
	}
	next := prior.Without(seats)

	query := `
		UPDATE schedules
		SET booked_seats = $2,
			available_seats = available_seats + $3,
			updated_at = NOW()
		WHERE id = $1
		  AND booked_seats = $4
		  AND available_seats + $3 <= capacity
	`

	result, err := t.tx.ExecContext(ctx, query, scheduleID, next, len(seats), prior)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrStaleSeatState
	}

	return nil
}

// MarkBookingCancelled records the confirmed -> cancelled transition with
// the refund. The status guard in the WHERE clause makes a second cancel
// affect zero rows, so a booking can never be refunded twice.
func (t *reservationTx) MarkBookingCancelled(ctx context.Context, bookingID uuid.UUID, refundAmount float64, cancelledAt time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled',
			cancellation_date = $2,
			refund_amount = $3,
			updated_at = NOW()
		WHERE id = $1
		  AND status = 'confirmed'
	`

	result, err := t.tx.ExecContext(ctx, query, bookingID, cancelledAt, refundAmount)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrAlreadyCancelled
	}

	return nil
}

// Commit commits the atomic unit
func (t *reservationTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the atomic unit. Safe to call after Commit.
func (t *reservationTx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}
