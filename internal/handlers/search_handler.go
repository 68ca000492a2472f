package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftride/bus-booking-backend/internal/models"
	"github.com/swiftride/bus-booking-backend/internal/services"
)

// SearchHandler handles HTTP requests for schedule search
type SearchHandler struct {
	service *services.SearchService
	logger  *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *services.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// SearchSchedules handles GET /api/v1/search
// @Summary Search for available schedules
// @Description Find bookable bus schedules between two locations on a given date
// @Tags Search
// @Produce json
// @Param origin query string true "Origin city"
// @Param destination query string true "Destination city"
// @Param date query string true "Travel date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "Matching schedules"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/search [get]
func (h *SearchHandler) SearchSchedules(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	date := c.Query("date")

	results, err := h.service.Search(origin, destination, date)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		h.logger.WithError(err).Error("Schedule search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search schedules"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"origin":      origin,
		"destination": destination,
		"date":        date,
		"results":     len(results),
	}).Info("Schedule search completed")

	c.JSON(http.StatusOK, gin.H{
		"schedules": results,
		"count":     len(results),
	})
}
