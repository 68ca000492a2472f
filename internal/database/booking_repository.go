package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

// BookingRepository handles read paths over the bookings ledger. Writes
// (create, cancel) happen inside a ReservationStore transaction so the
// ledger and the schedule seat set always move together.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT id, schedule_id, user_id, seat_numbers, total_amount,
			   status, payment_status, passenger_details, booking_date,
			   cancellation_date, refund_amount, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking models.Booking
	err := r.db.Get(&booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// GetByUserID retrieves all bookings for a user with their trip context,
// newest first. Cancelled bookings are included for history.
func (r *BookingRepository) GetByUserID(userID uuid.UUID) ([]models.BookingWithTrip, error) {
	query := `
		SELECT bk.id, bk.schedule_id, bk.user_id, bk.seat_numbers, bk.total_amount,
			   bk.status, bk.payment_status, bk.passenger_details, bk.booking_date,
			   bk.cancellation_date, bk.refund_amount, bk.created_at, bk.updated_at,
			   s.departure_time, s.arrival_time,
			   b.bus_number, b.bus_type,
			   r.route_name, r.origin, r.destination
		FROM bookings bk
		JOIN schedules s ON s.id = bk.schedule_id
		JOIN buses b ON b.id = s.bus_id
		JOIN routes r ON r.id = s.route_id
		WHERE bk.user_id = $1
		ORDER BY bk.created_at DESC
	`

	bookings := []models.BookingWithTrip{}
	err := r.db.Select(&bookings, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for user: %w", err)
	}

	return bookings, nil
}

// GetByScheduleID retrieves all confirmed bookings on a schedule
func (r *BookingRepository) GetByScheduleID(scheduleID uuid.UUID) ([]models.Booking, error) {
	query := `
		SELECT id, schedule_id, user_id, seat_numbers, total_amount,
			   status, payment_status, passenger_details, booking_date,
			   cancellation_date, refund_amount, created_at, updated_at
		FROM bookings
		WHERE schedule_id = $1
		  AND status = 'confirmed'
		ORDER BY created_at
	`

	bookings := []models.Booking{}
	err := r.db.Select(&bookings, query, scheduleID)
	return bookings, err
}

// MarkRefunded completes the cancelled -> refunded transition once the
// refund has been paid out. The WHERE clause enforces forward-only moves.
func (r *BookingRepository) MarkRefunded(bookingID uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = 'refunded', updated_at = NOW()
		WHERE id = $1 AND status = 'cancelled'
	`

	result, err := r.db.Exec(query, bookingID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking not in cancelled status or not found")
	}

	return nil
}
