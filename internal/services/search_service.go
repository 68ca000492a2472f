package services

import (
	"strings"
	"time"

	"github.com/swiftride/bus-booking-backend/internal/models"
)

// ScheduleSearcher is the read path over the schedule store used by search
type ScheduleSearcher interface {
	Search(origin, destination string, dayStart, dayEnd time.Time) ([]models.ScheduleSearchResult, error)
}

// SearchService is a thin read-only facade over the schedule store. It is
// never blocked by in-flight reservations; results reflect whatever seat
// state was committed when the query ran.
type SearchService struct {
	schedules ScheduleSearcher
}

// NewSearchService creates a new SearchService
func NewSearchService(schedules ScheduleSearcher) *SearchService {
	return &SearchService{schedules: schedules}
}

// Search finds bookable schedules between origin and destination on the
// given travel date (YYYY-MM-DD). An empty result is not an error.
func (s *SearchService) Search(origin, destination, date string) ([]models.ScheduleSearchResult, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, models.ErrInvalidInput("origin and destination are required")
	}

	day, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return nil, models.ErrInvalidInput("date must be in YYYY-MM-DD format")
	}

	dayStart := day
	dayEnd := day.Add(24*time.Hour - time.Nanosecond)

	results, err := s.schedules.Search(origin, destination, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.ScheduleSearchResult{}
	}

	return results, nil
}
