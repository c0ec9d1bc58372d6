package catalog

import (
	"context"
	"errors"

	"github.com/cinepass/ticket-booking/internal/model"
	"github.com/cinepass/ticket-booking/internal/repository"
)

// SQL adapts the MySQL repositories to the Catalog interface.  It
// translates the per-entity repository sentinels into ErrNotFound so
// callers only have to know one error value.
type SQL struct {
	screens   *repository.ScreenRepo
	seats     *repository.SeatRepo
	seatTypes *repository.SeatTypeRepo
	showtimes *repository.ShowtimeRepo
}

// NewSQL constructs a SQL catalog over the given repositories.  All
// dependencies must be non-nil.
func NewSQL(screens *repository.ScreenRepo, seats *repository.SeatRepo, seatTypes *repository.SeatTypeRepo, showtimes *repository.ShowtimeRepo) *SQL {
	if screens == nil || seats == nil || seatTypes == nil || showtimes == nil {
		panic("nil repository passed to catalog.NewSQL")
	}
	return &SQL{screens: screens, seats: seats, seatTypes: seatTypes, showtimes: showtimes}
}

// Showtime implements Catalog.
func (c *SQL) Showtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	st, err := c.showtimes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

// SeatsForScreen implements Catalog.  The screen is looked up first so
// that an unknown screen reports ErrNotFound rather than an empty
// layout.
func (c *SQL) SeatsForScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
	if _, err := c.screens.GetByID(ctx, screenID); err != nil {
		if errors.Is(err, repository.ErrScreenNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c.seats.ListByScreen(ctx, screenID)
}

// Seat implements Catalog.
func (c *SQL) Seat(ctx context.Context, id uint64) (*model.Seat, error) {
	s, err := c.seats.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// SeatType implements Catalog.
func (c *SQL) SeatType(ctx context.Context, id uint64) (*model.SeatType, error) {
	st, err := c.seatTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSeatTypeNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

// BasePrice implements Catalog.
func (c *SQL) BasePrice(ctx context.Context, seatTypeID uint64) (int64, bool, error) {
	return c.seatTypes.BasePrice(ctx, seatTypeID)
}
