package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

// ScheduleRepository handles database operations for the schedules table.
// Seat-inventory mutations go through ReservationStore; this repository
// covers catalog management and read paths.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new schedule. Capacity is the bus capacity at creation
// time and all seats start available.
func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	if schedule.BookedSeats == nil {
		schedule.BookedSeats = models.IntArray{}
	}
	schedule.AvailableSeats = schedule.Capacity - len(schedule.BookedSeats)

	query := `
		INSERT INTO schedules (
			id, bus_id, route_id, departure_time, arrival_time,
			price, capacity, booked_seats, available_seats, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		schedule.ID, schedule.BusID, schedule.RouteID,
		schedule.DepartureTime, schedule.ArrivalTime,
		schedule.Price, schedule.Capacity, schedule.BookedSeats,
		schedule.AvailableSeats, schedule.IsActive,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// GetByID retrieves a schedule by ID
func (r *ScheduleRepository) GetByID(scheduleID uuid.UUID) (*models.Schedule, error) {
	query := `
		SELECT id, bus_id, route_id, departure_time, arrival_time,
			   price, capacity, booked_seats, available_seats, is_active,
			   created_at, updated_at
		FROM schedules
		WHERE id = $1
	`

	var schedule models.Schedule
	err := r.db.Get(&schedule, query, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

// List retrieves all schedules ordered by departure time
func (r *ScheduleRepository) List() ([]models.Schedule, error) {
	query := `
		SELECT id, bus_id, route_id, departure_time, arrival_time,
			   price, capacity, booked_seats, available_seats, is_active,
			   created_at, updated_at
		FROM schedules
		ORDER BY departure_time
	`

	schedules := []models.Schedule{}
	err := r.db.Select(&schedules, query)
	return schedules, err
}

// SetActive activates or deactivates a schedule. Schedules are never
// deleted, only deactivated.
func (r *ScheduleRepository) SetActive(scheduleID uuid.UUID, active bool) error {
	query := `
		UPDATE schedules
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, scheduleID, active)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrScheduleNotFound
	}

	return nil
}

// Search finds bookable schedules matching an origin/destination pair within
// a day window, ordered by departure time ascending. Matching is
// case-insensitive substring, like the original route search.
func (r *ScheduleRepository) Search(origin, destination string, dayStart, dayEnd time.Time) ([]models.ScheduleSearchResult, error) {
	query := `
		SELECT s.id AS schedule_id, b.bus_number, b.bus_type,
			   r.route_name, r.origin, r.destination,
			   s.departure_time, s.arrival_time, s.price, s.available_seats
		FROM schedules s
		JOIN buses b ON b.id = s.bus_id
		JOIN routes r ON r.id = s.route_id
		WHERE LOWER(r.origin) LIKE LOWER('%' || $1 || '%')
		  AND LOWER(r.destination) LIKE LOWER('%' || $2 || '%')
		  AND r.is_active = true
		  AND s.is_active = true
		  AND s.available_seats > 0
		  AND s.departure_time >= $3
		  AND s.departure_time <= $4
		ORDER BY s.departure_time ASC
	`

	results := []models.ScheduleSearchResult{}
	err := r.db.Select(&results, query, origin, destination, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}

	return results, nil
}
