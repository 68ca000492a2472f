package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftride/bus-booking-backend/internal/database"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

// AdminHandler handles fleet catalog management: buses, routes and schedules
type AdminHandler struct {
	busRepo      *database.BusRepository
	routeRepo    *database.RouteRepository
	scheduleRepo *database.ScheduleRepository
	logger       *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	busRepo *database.BusRepository,
	routeRepo *database.RouteRepository,
	scheduleRepo *database.ScheduleRepository,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		busRepo:      busRepo,
		routeRepo:    routeRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// CreateBus registers a new bus in the fleet
// @Summary Register a bus
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.CreateBusRequest true "Bus details"
// @Success 201 {object} models.Bus
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 409 {object} map[string]interface{} "Duplicate bus number"
// @Security BearerAuth
// @Router /api/v1/admin/buses [post]
func (h *AdminHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.busRepo.GetByBusNumber(req.BusNumber)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check bus number")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bus"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A bus with this number already exists"})
		return
	}

	bus := &models.Bus{
		BusNumber: req.BusNumber,
		Capacity:  req.Capacity,
		BusType:   models.BusType(req.BusType),
		Amenities: models.StringArray(req.Amenities),
		IsActive:  true,
	}
	if err := h.busRepo.Create(bus); err != nil {
		h.logger.WithError(err).Error("Failed to create bus")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bus"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"bus_id":     bus.ID,
		"bus_number": bus.BusNumber,
	}).Info("Bus registered")

	c.JSON(http.StatusCreated, bus)
}

// ListBuses returns all buses in the fleet
// @Summary List buses
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/admin/buses [get]
func (h *AdminHandler) ListBuses(c *gin.Context) {
	buses, err := h.busRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list buses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list buses"})
		return
	}
	if buses == nil {
		buses = []models.Bus{}
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses, "count": len(buses)})
}

// UpdateBus applies a partial update to a bus
// @Summary Update a bus
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Bus ID"
// @Param request body models.UpdateBusRequest true "Fields to update"
// @Success 200 {object} models.Bus
// @Failure 404 {object} map[string]interface{} "Bus not found"
// @Security BearerAuth
// @Router /api/v1/admin/buses/{id} [put]
func (h *AdminHandler) UpdateBus(c *gin.Context) {
	busID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID"})
		return
	}

	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	bus, err := h.busRepo.Update(busID, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update bus")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bus"})
		return
	}
	if bus == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}

	c.JSON(http.StatusOK, bus)
}

// CreateRoute creates a new route
// @Summary Create a route
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.CreateRouteRequest true "Route details"
// @Success 201 {object} models.Route
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Security BearerAuth
// @Router /api/v1/admin/routes [post]
func (h *AdminHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route := &models.Route{
		RouteName:   req.RouteName,
		Origin:      req.Origin,
		Destination: req.Destination,
		DistanceKm:  req.DistanceKm,
		DurationMin: req.DurationMin,
		Stops:       models.StringArray(req.Stops),
		IsActive:    true,
	}
	if err := h.routeRepo.Create(route); err != nil {
		h.logger.WithError(err).Error("Failed to create route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create route"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"route_id":   route.ID,
		"route_name": route.RouteName,
	}).Info("Route created")

	c.JSON(http.StatusCreated, route)
}

// ListRoutes returns all routes
// @Summary List routes
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/admin/routes [get]
func (h *AdminHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list routes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list routes"})
		return
	}
	if routes == nil {
		routes = []models.Route{}
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

// UpdateRoute applies a partial update to a route
// @Summary Update a route
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Route ID"
// @Param request body models.UpdateRouteRequest true "Fields to update"
// @Success 200 {object} models.Route
// @Failure 404 {object} map[string]interface{} "Route not found"
// @Security BearerAuth
// @Router /api/v1/admin/routes/{id} [put]
func (h *AdminHandler) UpdateRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var req models.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	route, err := h.routeRepo.Update(routeID, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update route"})
		return
	}
	if route == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, route)
}

// CreateSchedule schedules a trip for a bus on a route.
// Capacity is copied from the bus at creation time and stays fixed for the
// life of the schedule, even if the bus record changes later.
// @Summary Schedule a trip
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.CreateScheduleRequest true "Schedule details"
// @Success 201 {object} models.Schedule
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Bus or route not found"
// @Security BearerAuth
// @Router /api/v1/admin/schedules [post]
func (h *AdminHandler) CreateSchedule(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	busID := uuid.MustParse(req.BusID)
	routeID := uuid.MustParse(req.RouteID)

	bus, err := h.busRepo.GetByID(busID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load bus")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}
	if bus == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
		return
	}

	route, err := h.routeRepo.GetByID(routeID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}
	if route == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	departure, _ := time.Parse(time.RFC3339, req.DepartureTime)
	arrival, _ := time.Parse(time.RFC3339, req.ArrivalTime)

	schedule := &models.Schedule{
		BusID:         busID,
		RouteID:       routeID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Price:         req.Price,
		Capacity:      bus.Capacity,
		BookedSeats:   models.IntArray{},
		IsActive:      true,
	}
	if err := h.scheduleRepo.Create(schedule); err != nil {
		h.logger.WithError(err).Error("Failed to create schedule")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"bus_id":      busID,
		"route_id":    routeID,
		"departure":   departure,
	}).Info("Schedule created")

	c.JSON(http.StatusCreated, schedule)
}

// ListSchedules returns all schedules
// @Summary List schedules
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/admin/schedules [get]
func (h *AdminHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.scheduleRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list schedules")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list schedules"})
		return
	}
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules, "count": len(schedules)})
}

// DeactivateSchedule stops a schedule from accepting new bookings.
// Existing bookings stay cancellable.
// @Summary Deactivate a schedule
// @Tags Admin
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Schedule not found"
// @Security BearerAuth
// @Router /api/v1/admin/schedules/{id}/deactivate [put]
func (h *AdminHandler) DeactivateSchedule(c *gin.Context) {
	h.setScheduleActive(c, false, "Schedule deactivated")
}

// ActivateSchedule re-opens a schedule for booking
// @Summary Activate a schedule
// @Tags Admin
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Schedule not found"
// @Security BearerAuth
// @Router /api/v1/admin/schedules/{id}/activate [put]
func (h *AdminHandler) ActivateSchedule(c *gin.Context) {
	h.setScheduleActive(c, true, "Schedule activated")
}

func (h *AdminHandler) setScheduleActive(c *gin.Context, active bool, message string) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	if err := h.scheduleRepo.SetActive(scheduleID, active); err != nil {
		if errors.Is(err, models.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to update schedule status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule status"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"is_active":   active,
	}).Info(message)

	c.JSON(http.StatusOK, gin.H{"message": message, "schedule_id": scheduleID})
}
