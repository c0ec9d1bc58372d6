package repository // repository defines data access for screens

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/cinepass/ticket-booking/internal/model"
)

// ScreenRepo provides read access to screens (auditoriums).
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo {
	return &ScreenRepo{db: db}
}

// GetByID fetches a screen by its ID, skipping soft-deleted rows.
// It returns ErrScreenNotFound if no row is found.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
	const q = `SELECT id, screen, location_id, created_at, updated_at
	           FROM screens WHERE id = ? AND deleted_at IS NULL`
	var s model.Screen
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.LocationID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByLocation returns all screens of a location, ordered by name.
// The caller is expected to validate that the location exists; an
// unknown location simply yields an empty slice here.
func (r *ScreenRepo) ListByLocation(ctx context.Context, locationID uint64) ([]model.Screen, error) {
	const q = `SELECT id, screen, location_id, created_at, updated_at
	           FROM screens WHERE location_id = ? AND deleted_at IS NULL ORDER BY screen`
	rows, err := r.db.QueryContext(ctx, q, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	screens := make([]model.Screen, 0)
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(&s.ID, &s.Name, &s.LocationID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		screens = append(screens, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return screens, nil
}
