package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftride/bus-booking-backend/internal/middleware"
	"github.com/swiftride/bus-booking-backend/internal/models"
	"github.com/swiftride/bus-booking-backend/internal/services"
)

// BookingHandler handles passenger booking operations
type BookingHandler struct {
	reservations *services.ReservationService
	bookingRepo  BookingLister
	logger       *logrus.Logger
}

// BookingLister is the read path used for the booking history endpoint
type BookingLister interface {
	GetByUserID(userID uuid.UUID) ([]models.BookingWithTrip, error)
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(reservations *services.ReservationService, bookingRepo BookingLister, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		reservations: reservations,
		bookingRepo:  bookingRepo,
		logger:       logger,
	}
}

// CreateBooking creates a new booking
// @Summary Reserve seats on a schedule
// @Description Atomically reserve one or more seats on a bus schedule
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.BookingResponse "Booking created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Schedule not found"
// @Failure 409 {object} map[string]interface{} "Seats not available"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.reservations.Reserve(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		h.respondReserveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.BookingResponse{
		BookingID:   booking.ID,
		SeatNumbers: booking.SeatNumbers,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
	})
}

func (h *BookingHandler) respondReserveError(c *gin.Context, err error) {
	if conflict, ok := models.AsSeatConflict(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":             "Some seats are already booked",
			"conflicting_seats": conflict.Seats,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrScheduleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
	case errors.Is(err, models.ErrScheduleInactive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This schedule is not available for booking"})
	case errors.Is(err, models.ErrNotEnoughSeats):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough seats available"})
	case errors.Is(err, models.ErrStaleSeatState):
		c.JSON(http.StatusConflict, gin.H{"error": "Seat availability changed, please retry"})
	case errors.Is(err, models.ErrReservationBusy):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Schedule is busy, please retry"})
	default:
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to create booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
	}
}

// CancelBooking cancels an existing booking
// @Summary Cancel a booking
// @Description Cancel a confirmed booking, release its seats and compute the refund
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} models.CancelBookingResponse "Booking cancelled"
// @Failure 400 {object} map[string]interface{} "Already cancelled"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Not the booking owner"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/cancel [put]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	refund, err := h.reservations.Cancel(c.Request.Context(), userCtx.UserID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, models.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to cancel this booking"})
		case errors.Is(err, models.ErrAlreadyCancelled):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is already cancelled"})
		case errors.Is(err, models.ErrReservationBusy):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Schedule is busy, please retry"})
		default:
			h.logger.WithError(err).Error("Failed to cancel booking")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, models.CancelBookingResponse{RefundAmount: refund})
}

// GetMyBookings returns the authenticated user's bookings
// @Summary List my bookings
// @Description Get all bookings for the authenticated user, newest first
// @Tags Bookings
// @Produce json
// @Success 200 {object} map[string]interface{} "List of bookings"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /api/v1/bookings/my [get]
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingRepo.GetByUserID(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bookings"})
		return
	}
	if bookings == nil {
		bookings = []models.BookingWithTrip{}
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
