package repository // repository defines data access for seat types and their prices

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"strings"      // strings normalises the premium direction enum

	"github.com/cinepass/ticket-booking/internal/model"
)

// SeatTypeRepo provides read access to seat types and per-type base
// price overrides.  Seat types carry the percentage premium or
// discount used by the price resolver.
type SeatTypeRepo struct {
	db *sql.DB
}

// NewSeatTypeRepo constructs a SeatTypeRepo with the given DB handle.
func NewSeatTypeRepo(db *sql.DB) *SeatTypeRepo {
	return &SeatTypeRepo{db: db}
}

// GetByID fetches a seat type by its ID, skipping soft-deleted rows.
// The direction enum is normalised to model.DirectionAdd or
// model.DirectionSubtract.  It returns ErrSeatTypeNotFound if no row
// is found.
func (r *SeatTypeRepo) GetByID(ctx context.Context, id uint64) (*model.SeatType, error) {
	const q = `SELECT id, name, color, icon, percent, type, created_at, updated_at
	           FROM seat_types WHERE id = ? AND deleted_at IS NULL`
	var st model.SeatType
	var direction string
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.Name, &st.Color, &st.Icon, &st.Percent, &direction, &st.CreatedAt, &st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatTypeNotFound
		}
		return nil, err
	}
	if strings.EqualFold(direction, "subtract") {
		st.Direction = model.DirectionSubtract
	} else {
		st.Direction = model.DirectionAdd
	}
	return &st, nil
}

// List returns all seat types that are not soft-deleted, ordered by name.
func (r *SeatTypeRepo) List(ctx context.Context) ([]model.SeatType, error) {
	const q = `SELECT id, name, color, icon, percent, type, created_at, updated_at
	           FROM seat_types WHERE deleted_at IS NULL ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]model.SeatType, 0)
	for rows.Next() {
		var st model.SeatType
		var direction string
		if err := rows.Scan(&st.ID, &st.Name, &st.Color, &st.Icon, &st.Percent, &direction, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		if strings.EqualFold(direction, "subtract") {
			st.Direction = model.DirectionSubtract
		} else {
			st.Direction = model.DirectionAdd
		}
		types = append(types, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

// BasePrice returns the per-seat-type base price override from the
// seat_prices table.  The boolean reports whether an override exists;
// when it is false the caller should fall back to the showtime base
// price.  When several overrides exist for a type, the most recent
// wins.
func (r *SeatTypeRepo) BasePrice(ctx context.Context, seatTypeID uint64) (int64, bool, error) {
	const q = `SELECT price FROM seat_prices
	           WHERE seat_type_id = ? AND deleted_at IS NULL
	           ORDER BY id DESC LIMIT 1`
	var cents int64
	if err := r.db.QueryRowContext(ctx, q, seatTypeID).Scan(&cents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return cents, true, nil
}
