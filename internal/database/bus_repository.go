package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

// BusRepository handles database operations for the buses table
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create inserts a new bus
func (r *BusRepository) Create(bus *models.Bus) error {
	if bus.ID == uuid.Nil {
		bus.ID = uuid.New()
	}

	query := `
		INSERT INTO buses (id, bus_number, capacity, bus_type, amenities, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		bus.ID, bus.BusNumber, bus.Capacity, bus.BusType, bus.Amenities, bus.IsActive,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by ID
func (r *BusRepository) GetByID(busID uuid.UUID) (*models.Bus, error) {
	query := `
		SELECT id, bus_number, capacity, bus_type, amenities, is_active, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	var bus models.Bus
	err := r.db.Get(&bus, query, busID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bus, nil
}

// GetByBusNumber retrieves a bus by its registration number
func (r *BusRepository) GetByBusNumber(busNumber string) (*models.Bus, error) {
	query := `
		SELECT id, bus_number, capacity, bus_type, amenities, is_active, created_at, updated_at
		FROM buses
		WHERE bus_number = $1
	`

	var bus models.Bus
	err := r.db.Get(&bus, query, busNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bus, nil
}

// List retrieves all buses, newest first
func (r *BusRepository) List() ([]models.Bus, error) {
	query := `
		SELECT id, bus_number, capacity, bus_type, amenities, is_active, created_at, updated_at
		FROM buses
		ORDER BY created_at DESC
	`

	buses := []models.Bus{}
	err := r.db.Select(&buses, query)
	return buses, err
}

// Update applies the non-nil fields of the request to a bus
func (r *BusRepository) Update(busID uuid.UUID, req *models.UpdateBusRequest) (*models.Bus, error) {
	bus, err := r.GetByID(busID)
	if err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, nil
	}

	if req.BusNumber != nil {
		bus.BusNumber = *req.BusNumber
	}
	if req.Capacity != nil {
		bus.Capacity = *req.Capacity
	}
	if req.BusType != nil {
		bus.BusType = models.BusType(*req.BusType)
	}
	if req.Amenities != nil {
		bus.Amenities = models.StringArray(req.Amenities)
	}
	if req.IsActive != nil {
		bus.IsActive = *req.IsActive
	}

	query := `
		UPDATE buses
		SET bus_number = $2, capacity = $3, bus_type = $4, amenities = $5,
			is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	var updatedAt time.Time
	err = r.db.QueryRow(query,
		bus.ID, bus.BusNumber, bus.Capacity, bus.BusType, bus.Amenities, bus.IsActive,
	).Scan(&updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update bus: %w", err)
	}
	bus.UpdatedAt = updatedAt

	return bus, nil
}
