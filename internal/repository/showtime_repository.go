// Package repository contains data access logic for showtime lookups.
// A showtime is a scheduled screening of a movie on a specific screen.
// The catalog owner guarantees that showtimes on the same screen never
// overlap; this repository only reads.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel comparisons
	"time"         // time bounds the upcoming-showtime listings

	"github.com/cinepass/ticket-booking/internal/model"
)

// ShowtimeRepo manages read access to showtimes.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// GetByID fetches a showtime by its ID, skipping soft-deleted rows.
// It returns ErrShowtimeNotFound if no row is found.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, movie_id, location_id, screen_id, start_time, end_time, base_price_cents, created_at, updated_at
	           FROM showtimes WHERE id = ? AND deleted_at IS NULL`
	var st model.Showtime
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&st.ID,
		&st.MovieID,
		&st.LocationID,
		&st.ScreenID,
		&st.StartsAt,
		&st.EndsAt,
		&st.BasePriceCents,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ListUpcomingByMovie returns showtimes for a movie whose end time is
// after the given instant, ordered by start time.  Soft-deleted rows
// are skipped.
func (r *ShowtimeRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64, after time.Time) ([]model.Showtime, error) {
	const q = `SELECT id, movie_id, location_id, screen_id, start_time, end_time, base_price_cents, created_at, updated_at
	           FROM showtimes
	           WHERE movie_id = ? AND end_time > ? AND deleted_at IS NULL
	           ORDER BY start_time`
	return r.list(ctx, q, movieID, after.UTC())
}

// ListUpcomingByLocation returns showtimes at a location whose end time
// is after the given instant, ordered by start time.
func (r *ShowtimeRepo) ListUpcomingByLocation(ctx context.Context, locationID uint64, after time.Time) ([]model.Showtime, error) {
	const q = `SELECT id, movie_id, location_id, screen_id, start_time, end_time, base_price_cents, created_at, updated_at
	           FROM showtimes
	           WHERE location_id = ? AND end_time > ? AND deleted_at IS NULL
	           ORDER BY start_time`
	return r.list(ctx, q, locationID, after.UTC())
}

func (r *ShowtimeRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Showtime, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	showtimes := make([]model.Showtime, 0)
	for rows.Next() {
		var st model.Showtime
		if err := rows.Scan(
			&st.ID,
			&st.MovieID,
			&st.LocationID,
			&st.ScreenID,
			&st.StartsAt,
			&st.EndsAt,
			&st.BasePriceCents,
			&st.CreatedAt,
			&st.UpdatedAt,
		); err != nil {
			return nil, err
		}
		showtimes = append(showtimes, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return showtimes, nil
}
