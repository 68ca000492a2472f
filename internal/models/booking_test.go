package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validBookingRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		ScheduleID:  uuid.New().String(),
		SeatNumbers: []int{1, 2},
		Passengers: []PassengerDetail{
			{Name: "Amara", Age: 34, Gender: "female", Phone: "+94771234567"},
			{Name: "Nimal", Age: 40, Gender: "male", Phone: "+94771234568"},
		},
	}
}

func TestCreateBookingRequestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validBookingRequest().Validate())
	})

	t.Run("Bad Schedule ID", func(t *testing.T) {
		req := validBookingRequest()
		req.ScheduleID = "not-a-uuid"
		assert.Error(t, req.Validate())
	})

	t.Run("No Seats", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = nil
		assert.Error(t, req.Validate())
	})

	t.Run("Duplicate Seats", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = []int{3, 3}
		assert.Error(t, req.Validate())
	})

	t.Run("Seat Below One", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = []int{0, 1}
		assert.Error(t, req.Validate())
	})

	t.Run("Passenger Count Mismatch", func(t *testing.T) {
		req := validBookingRequest()
		req.Passengers = req.Passengers[:1]
		assert.Error(t, req.Validate())
	})

	t.Run("Passenger Age Out Of Range", func(t *testing.T) {
		req := validBookingRequest()
		req.Passengers[0].Age = 0
		assert.Error(t, req.Validate())

		req = validBookingRequest()
		req.Passengers[0].Age = 121
		assert.Error(t, req.Validate())
	})

	t.Run("Bad Gender", func(t *testing.T) {
		req := validBookingRequest()
		req.Passengers[1].Gender = "unknown"
		assert.Error(t, req.Validate())
	})

	t.Run("Validation Errors Are Typed", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = nil
		err := req.Validate()

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestBookingCanBeCancelled(t *testing.T) {
	booking := &Booking{Status: BookingStatusConfirmed}
	assert.True(t, booking.CanBeCancelled())

	booking.Status = BookingStatusCancelled
	assert.False(t, booking.CanBeCancelled())

	booking.Status = BookingStatusRefunded
	assert.False(t, booking.CanBeCancelled())
}
