package repository // repository defines data access for locations

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/cinepass/ticket-booking/internal/model"
)

// LocationRepo provides read access to cinema locations.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo constructs a LocationRepo with the given DB handle.
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// GetByID fetches a location by its ID, skipping soft-deleted rows.
// It returns ErrLocationNotFound if no row is found.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	const q = `SELECT id, name, address, created_at, updated_at
	           FROM locations WHERE id = ? AND deleted_at IS NULL`
	var l model.Location
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns all locations that are not soft-deleted, ordered by name.
func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
	const q = `SELECT id, name, address, created_at, updated_at
	           FROM locations WHERE deleted_at IS NULL ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locations := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}
