package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftride/bus-booking-backend/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new route
func (r *RouteRepository) Create(route *models.Route) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}

	query := `
		INSERT INTO routes (id, route_name, origin, destination, distance_km, duration_min, stops, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		route.ID, route.RouteName, route.Origin, route.Destination,
		route.DistanceKm, route.DurationMin, route.Stops, route.IsActive,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID uuid.UUID) (*models.Route, error) {
	query := `
		SELECT id, route_name, origin, destination, distance_km, duration_min,
			   stops, is_active, created_at, updated_at
		FROM routes
		WHERE id = $1
	`

	var route models.Route
	err := r.db.Get(&route, query, routeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &route, nil
}

// List retrieves all routes, newest first
func (r *RouteRepository) List() ([]models.Route, error) {
	query := `
		SELECT id, route_name, origin, destination, distance_km, duration_min,
			   stops, is_active, created_at, updated_at
		FROM routes
		ORDER BY created_at DESC
	`

	routes := []models.Route{}
	err := r.db.Select(&routes, query)
	return routes, err
}

// Update applies the non-nil fields of the request to a route
func (r *RouteRepository) Update(routeID uuid.UUID, req *models.UpdateRouteRequest) (*models.Route, error) {
	route, err := r.GetByID(routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, nil
	}

	if req.RouteName != nil {
		route.RouteName = *req.RouteName
	}
	if req.Origin != nil {
		route.Origin = *req.Origin
	}
	if req.Destination != nil {
		route.Destination = *req.Destination
	}
	if req.DistanceKm != nil {
		route.DistanceKm = *req.DistanceKm
	}
	if req.DurationMin != nil {
		route.DurationMin = *req.DurationMin
	}
	if req.Stops != nil {
		route.Stops = models.StringArray(req.Stops)
	}
	if req.IsActive != nil {
		route.IsActive = *req.IsActive
	}

	query := `
		UPDATE routes
		SET route_name = $2, origin = $3, destination = $4, distance_km = $5,
			duration_min = $6, stops = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	var updatedAt time.Time
	err = r.db.QueryRow(query,
		route.ID, route.RouteName, route.Origin, route.Destination,
		route.DistanceKm, route.DurationMin, route.Stops, route.IsActive,
	).Scan(&updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update route: %w", err)
	}
	route.UpdatedAt = updatedAt

	return route, nil
}
