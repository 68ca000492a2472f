package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

// ReservationStore provides the reservation engine's view of persistence:
// plain reads plus a transactional unit for the combined schedule/ledger
// writes. The concrete implementation lives in internal/database.
type ReservationStore interface {
	GetSchedule(ctx context.Context, scheduleID uuid.UUID) (*models.Schedule, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	Begin(ctx context.Context) (ReservationTx, error)
}

// ReservationTx is one atomic unit across the schedule seat set and the
// booking ledger: everything applied through it commits together or not
// at all.
type ReservationTx interface {
	ScheduleForUpdate(ctx context.Context, scheduleID uuid.UUID) (*models.Schedule, error)
	BookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	AddBookedSeats(ctx context.Context, scheduleID uuid.UUID, prior models.IntArray, seats []int) error
	ReleaseBookedSeats(ctx context.Context, scheduleID uuid.UUID, prior models.IntArray, seats []int) error
	MarkBookingCancelled(ctx context.Context, bookingID uuid.UUID, refundAmount float64, cancelledAt time.Time) error
	Commit() error
	Rollback() error
}

// ReservationService is the reservation engine. It guarantees that a seat
// on a schedule is sold to at most one passenger under concurrent booking
// and cancellation: requests for the same schedule are serialized through
// ScheduleLocker, and each request's writes land in a single transaction.
type ReservationService struct {
	store       ReservationStore
	locks       *ScheduleLocker
	refunds     RefundPolicy
	lockTimeout time.Duration
	logger      *logrus.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	store ReservationStore,
	locks *ScheduleLocker,
	refunds RefundPolicy,
	lockTimeout time.Duration,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		store:       store,
		locks:       locks,
		refunds:     refunds,
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

// Reserve books the requested seats on a schedule for a user.
//
// Validation runs before the exclusive section is taken; the seat state is
// then re-read under the section so the conflict check always sees the
// latest committed inventory. On success the booking row and the schedule
// seat-set update commit as one unit.
func (s *ReservationService) Reserve(
	ctx context.Context,
	userID uuid.UUID,
	req *models.CreateBookingRequest,
) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule id: %w", err)
	}

	if err := s.locks.Acquire(ctx, scheduleID, s.lockTimeout); err != nil {
		return nil, err
	}
	defer s.locks.Release(scheduleID)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reservation: %w", err)
	}
	defer tx.Rollback()

	schedule, err := tx.ScheduleForUpdate(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, models.ErrScheduleNotFound
	}
	if !schedule.IsActive {
		return nil, models.ErrScheduleInactive
	}

	for _, seat := range req.SeatNumbers {
		if !schedule.SeatInRange(seat) {
			return nil, models.ErrInvalidInput(fmt.Sprintf("seat %d is out of range 1..%d", seat, schedule.Capacity))
		}
	}
	if conflicts := schedule.ConflictingSeats(req.SeatNumbers); len(conflicts) > 0 {
		return nil, &models.SeatConflictError{Seats: conflicts}
	}
	// Subsumed by the per-seat check, kept as defense in depth
	if schedule.AvailableSeats < len(req.SeatNumbers) {
		return nil, models.ErrNotEnoughSeats
	}

	booking := &models.Booking{
		ID:            uuid.New(),
		ScheduleID:    scheduleID,
		UserID:        userID,
		SeatNumbers:   models.IntArray{}.With(req.SeatNumbers),
		TotalAmount:   schedule.Price * float64(len(req.SeatNumbers)),
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
		Passengers:    models.PassengerDetails(req.Passengers),
		BookingDate:   time.Now(),
	}

	if err := tx.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	if err := tx.AddBookedSeats(ctx, scheduleID, schedule.BookedSeats, req.SeatNumbers); err != nil {
		return nil, err
	}

	// Last point at which the caller's cancellation is honored; once the
	// commit starts the operation runs to completion.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reservation aborted: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"schedule_id":  scheduleID,
		"user_id":      userID,
		"seats":        booking.SeatNumbers,
		"total_amount": booking.TotalAmount,
	}).Info("Booking confirmed")

	return booking, nil
}

// Cancel cancels a user's booking and releases its seats back to the
// schedule. Returns the refund amount computed by the refund policy.
//
// A deactivated schedule does not block cancellation: passengers can always
// get their seats released and their refund.
func (s *ReservationService) Cancel(
	ctx context.Context,
	userID uuid.UUID,
	bookingID uuid.UUID,
) (float64, error) {
	// Resolve the booking's schedule before locking; ownership and status
	// are re-checked under the exclusive section.
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return 0, models.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return 0, models.ErrForbidden
	}

	scheduleID := booking.ScheduleID
	if err := s.locks.Acquire(ctx, scheduleID, s.lockTimeout); err != nil {
		return 0, err
	}
	defer s.locks.Release(scheduleID)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin cancellation: %w", err)
	}
	defer tx.Rollback()

	booking, err = tx.BookingForUpdate(ctx, bookingID)
	if err != nil {
		return 0, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return 0, models.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return 0, models.ErrForbidden
	}
	if !booking.CanBeCancelled() {
		return 0, models.ErrAlreadyCancelled
	}

	schedule, err := tx.ScheduleForUpdate(ctx, scheduleID)
	if err != nil {
		return 0, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return 0, models.ErrScheduleNotFound
	}

	refund := s.refunds.RefundAmount(booking.TotalAmount)
	now := time.Now()

	if err := tx.MarkBookingCancelled(ctx, bookingID, refund, now); err != nil {
		return 0, err
	}
	if err := tx.ReleaseBookedSeats(ctx, scheduleID, schedule.BookedSeats, booking.SeatNumbers); err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("cancellation aborted: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":    bookingID,
		"schedule_id":   scheduleID,
		"user_id":       userID,
		"seats":         booking.SeatNumbers,
		"refund_amount": refund,
	}).Info("Booking cancelled")

	return refund, nil
}
