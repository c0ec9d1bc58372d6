package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/cinepass/ticket-booking/internal/model"
)

// SeatRepo provides read access to the physical seats of a screen.
// The seat layout is immutable from this service's perspective; edits
// happen through an external administration surface.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GetByID fetches a seat by its ID, skipping soft-deleted rows.
// It returns ErrSeatNotFound if no row is found.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, seat, screen_id, seat_type_id, created_at, updated_at
	           FROM seats WHERE id = ? AND deleted_at IS NULL`
	var s model.Seat
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Label, &s.ScreenID, &s.SeatTypeID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByScreen returns the ordered seat layout of a screen.  Seats are
// ordered by id, which matches their creation order and therefore the
// physical layout the owner configured.  An empty slice is returned
// when the screen has no seats or does not exist.
func (r *SeatRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
	const q = `SELECT id, seat, screen_id, seat_type_id, created_at, updated_at
	           FROM seats WHERE screen_id = ? AND deleted_at IS NULL ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.Label, &s.ScreenID, &s.SeatTypeID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
