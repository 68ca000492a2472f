package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/bus-booking-backend/internal/middleware"
	"github.com/swiftride/bus-booking-backend/internal/models"
	"github.com/swiftride/bus-booking-backend/internal/services"
)

// fakeStore backs the handler tests with a single schedule and booking held
// in memory. Transactions apply immediately; rollback is not modeled because
// each test drives exactly one outcome.
type fakeStore struct {
	schedule *models.Schedule
	booking  *models.Booking
}

func (f *fakeStore) GetSchedule(_ context.Context, id uuid.UUID) (*models.Schedule, error) {
	if f.schedule == nil || f.schedule.ID != id {
		return nil, nil
	}
	s := *f.schedule
	return &s, nil
}

func (f *fakeStore) GetBooking(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, nil
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeStore) Begin(_ context.Context) (services.ReservationTx, error) {
	return &fakeTx{store: f}, nil
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) ScheduleForUpdate(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	return t.store.GetSchedule(ctx, id)
}

func (t *fakeTx) BookingForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return t.store.GetBooking(ctx, id)
}

func (t *fakeTx) CreateBooking(_ context.Context, booking *models.Booking) error {
	b := *booking
	t.store.booking = &b
	return nil
}

func (t *fakeTx) AddBookedSeats(_ context.Context, _ uuid.UUID, _ models.IntArray, seats []int) error {
	t.store.schedule.BookedSeats = t.store.schedule.BookedSeats.With(seats)
	t.store.schedule.AvailableSeats -= len(seats)
	return nil
}

func (t *fakeTx) ReleaseBookedSeats(_ context.Context, _ uuid.UUID, _ models.IntArray, seats []int) error {
	t.store.schedule.BookedSeats = t.store.schedule.BookedSeats.Without(seats)
	t.store.schedule.AvailableSeats += len(seats)
	return nil
}

func (t *fakeTx) MarkBookingCancelled(_ context.Context, _ uuid.UUID, refund float64, at time.Time) error {
	if t.store.booking.Status != models.BookingStatusConfirmed {
		return models.ErrAlreadyCancelled
	}
	t.store.booking.Status = models.BookingStatusCancelled
	t.store.booking.RefundAmount = &refund
	t.store.booking.CancellationDate = &at
	return nil
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

func testSchedule() *models.Schedule {
	return &models.Schedule{
		ID:             uuid.New(),
		BusID:          uuid.New(),
		RouteID:        uuid.New(),
		DepartureTime:  time.Now().Add(24 * time.Hour),
		ArrivalTime:    time.Now().Add(30 * time.Hour),
		Price:          500,
		Capacity:       40,
		BookedSeats:    models.IntArray{},
		AvailableSeats: 40,
		IsActive:       true,
	}
}

func newBookingTestRouter(store *fakeStore, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := services.NewReservationService(
		store,
		services.NewScheduleLocker(),
		services.NewRefundPolicy(0.20),
		time.Second,
		logger,
	)
	handler := NewBookingHandler(svc, nil, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID: userID,
			Email:  "passenger@example.com",
			Roles:  []string{"passenger"},
		})
		c.Next()
	})
	router.POST("/bookings", handler.CreateBooking)
	router.PUT("/bookings/:id/cancel", handler.CancelBooking)
	return router
}

func reserveBody(t *testing.T, scheduleID uuid.UUID, seats ...int) *bytes.Buffer {
	t.Helper()
	passengers := make([]map[string]interface{}, len(seats))
	for i := range seats {
		passengers[i] = map[string]interface{}{
			"name":   fmt.Sprintf("Passenger %d", i+1),
			"age":    30,
			"gender": "male",
			"phone":  "+94770000000",
		}
	}
	body, err := json.Marshal(map[string]interface{}{
		"schedule_id":       scheduleID.String(),
		"seat_numbers":      seats,
		"passenger_details": passengers,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateBookingEndpoint(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		store := &fakeStore{schedule: testSchedule()}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("POST", "/bookings", reserveBody(t, store.schedule.ID, 1, 2))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []int{1, 2}, resp.SeatNumbers)
		assert.Equal(t, 1000.0, resp.TotalAmount)
		assert.Equal(t, models.BookingStatusConfirmed, resp.Status)
	})

	t.Run("Seat Conflict Lists Seats", func(t *testing.T) {
		schedule := testSchedule()
		schedule.BookedSeats = models.IntArray{2}
		schedule.AvailableSeats = 39
		store := &fakeStore{schedule: schedule}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("POST", "/bookings", reserveBody(t, schedule.ID, 2, 3))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "conflicting_seats")
		assert.Contains(t, w.Body.String(), "2")
	})

	t.Run("Schedule Not Found", func(t *testing.T) {
		store := &fakeStore{schedule: testSchedule()}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("POST", "/bookings", reserveBody(t, uuid.New(), 1))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Inactive Schedule", func(t *testing.T) {
		schedule := testSchedule()
		schedule.IsActive = false
		store := &fakeStore{schedule: schedule}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("POST", "/bookings", reserveBody(t, schedule.ID, 1))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		store := &fakeStore{schedule: testSchedule()}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("POST", "/bookings", bytes.NewBufferString(`{"seat_numbers": "one"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCancelBookingEndpoint(t *testing.T) {
	t.Run("Refund Returned", func(t *testing.T) {
		userID := uuid.New()
		schedule := testSchedule()
		schedule.BookedSeats = models.IntArray{1, 2}
		schedule.AvailableSeats = 38
		store := &fakeStore{
			schedule: schedule,
			booking: &models.Booking{
				ID:          uuid.New(),
				ScheduleID:  schedule.ID,
				UserID:      userID,
				SeatNumbers: models.IntArray{1, 2},
				TotalAmount: 1000,
				Status:      models.BookingStatusConfirmed,
			},
		}
		router := newBookingTestRouter(store, userID)

		req := httptest.NewRequest("PUT", "/bookings/"+store.booking.ID.String()+"/cancel", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.CancelBookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 800.0, resp.RefundAmount)
		assert.Equal(t, 40, store.schedule.AvailableSeats)
	})

	t.Run("Not Owner", func(t *testing.T) {
		schedule := testSchedule()
		store := &fakeStore{
			schedule: schedule,
			booking: &models.Booking{
				ID:          uuid.New(),
				ScheduleID:  schedule.ID,
				UserID:      uuid.New(),
				SeatNumbers: models.IntArray{1},
				TotalAmount: 500,
				Status:      models.BookingStatusConfirmed,
			},
		}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("PUT", "/bookings/"+store.booking.ID.String()+"/cancel", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		userID := uuid.New()
		schedule := testSchedule()
		store := &fakeStore{
			schedule: schedule,
			booking: &models.Booking{
				ID:          uuid.New(),
				ScheduleID:  schedule.ID,
				UserID:      userID,
				SeatNumbers: models.IntArray{1},
				TotalAmount: 500,
				Status:      models.BookingStatusCancelled,
			},
		}
		router := newBookingTestRouter(store, userID)

		req := httptest.NewRequest("PUT", "/bookings/"+store.booking.ID.String()+"/cancel", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		store := &fakeStore{schedule: testSchedule()}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("PUT", "/bookings/"+uuid.New().String()+"/cancel", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Bad Booking ID", func(t *testing.T) {
		store := &fakeStore{schedule: testSchedule()}
		router := newBookingTestRouter(store, uuid.New())

		req := httptest.NewRequest("PUT", "/bookings/not-a-uuid/cancel", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
