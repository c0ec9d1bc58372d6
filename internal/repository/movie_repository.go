// Package repository contains data access logic separated from HTTP handlers.
// This file provides read access to movies. Movies are catalog data; an
// external administration surface owns writes, so this repository only
// exposes lookups and listings over non-deleted rows.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used for sentinel comparisons

	"github.com/cinepass/ticket-booking/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// GetByID fetches a movie by its ID.  Soft-deleted movies are treated as
// absent.  It returns ErrMovieNotFound if no row is found.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, name, movie_status, created_at, updated_at
	           FROM movies WHERE id = ? AND deleted_at IS NULL`
	var m model.Movie
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListActive returns all movies that are active and not soft-deleted,
// ordered by name.  An empty slice is returned when none exist.
func (r *MovieRepo) ListActive(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, name, movie_status, created_at, updated_at
	           FROM movies WHERE movie_status = 1 AND deleted_at IS NULL ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Name, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}
