// Package catalog exposes the read-only view of cinema catalog data
// that the reservation core needs: showtimes, seat layouts and seat
// types.  Catalog writes happen through an external administration
// surface; nothing in this service mutates catalog data.
package catalog

import (
	"context"
	"errors"

	"github.com/cinepass/ticket-booking/internal/model"
)

// ErrNotFound is returned for lookups of unknown showtimes, screens,
// seats or seat types.  It is a caller error and is never retried.
var ErrNotFound = errors.New("catalog: not found")

// Catalog is the narrow lookup contract consumed by the ledger and
// the price resolver.  Implementations must be safe for concurrent
// use; catalog data is effectively immutable during a showtime's
// active booking window, so no locking is expected beyond what the
// backing store provides.
type Catalog interface {
	// Showtime returns the showtime with the given id, or ErrNotFound.
	Showtime(ctx context.Context, id uint64) (*model.Showtime, error)
	// SeatsForScreen returns the ordered seat layout of a screen.  It
	// returns ErrNotFound when the screen is unknown.
	SeatsForScreen(ctx context.Context, screenID uint64) ([]model.Seat, error)
	// Seat returns a single seat by id, or ErrNotFound.
	Seat(ctx context.Context, id uint64) (*model.Seat, error)
	// SeatType returns the seat type with the given id, or ErrNotFound.
	SeatType(ctx context.Context, id uint64) (*model.SeatType, error)
	// BasePrice returns the per-seat-type base price override in cents.
	// The boolean reports whether an override exists; when false the
	// showtime base price applies.
	BasePrice(ctx context.Context, seatTypeID uint64) (int64, bool, error)
}
