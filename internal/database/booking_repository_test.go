package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New()
		scheduleID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
			WithArgs(bookingID).
			WillReturnRows(bookingRows(bookingID, scheduleID, userID, "confirmed"))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, models.IntArray{1, 2}, booking.SeatNumbers)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		require.Len(t, booking.Passengers, 1)
		assert.Equal(t, "A", booking.Passengers[0].Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		bookingID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		booking, err := repo.GetByID(bookingID)
		require.NoError(t, err)
		assert.Nil(t, booking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_GetByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM bookings bk JOIN schedules s`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "schedule_id", "user_id", "seat_numbers", "total_amount",
			"status", "payment_status", "passenger_details", "booking_date",
			"cancellation_date", "refund_amount", "created_at", "updated_at",
			"departure_time", "arrival_time",
			"bus_number", "bus_type",
			"route_name", "origin", "destination",
		}).AddRow(
			uuid.New(), uuid.New(), userID, []byte(`{4}`), 500.0,
			"confirmed", "completed", []byte(`[{"name":"A","age":30,"gender":"other","phone":"+94770000000"}]`), now,
			nil, nil, now, now,
			now.Add(24*time.Hour), now.Add(27*time.Hour),
			"NB-1234", "AC",
			"Colombo - Galle", "Colombo", "Galle",
		))

	bookings, err := repo.GetByUserID(userID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, userID, bookings[0].UserID)
	assert.Equal(t, "NB-1234", bookings[0].BusNumber)
	assert.Equal(t, "Galle", bookings[0].Destination)
	assert.Equal(t, models.IntArray{4}, bookings[0].SeatNumbers)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_MarkRefunded(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	t.Run("Success", func(t *testing.T) {
		bookingID := uuid.New()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkRefunded(bookingID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not In Cancelled Status", func(t *testing.T) {
		bookingID := uuid.New()

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(bookingID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkRefunded(bookingID)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
