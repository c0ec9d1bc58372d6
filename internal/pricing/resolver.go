// Package pricing computes the final seat price for a showtime from
// the showtime base price and the seat type's percentage premium or
// discount.  The computation is deterministic and side-effect-free so
// the same quote can be produced before a hold and re-checked at
// confirmation.
package pricing

import (
	"context"
	"math"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/model"
)

// Resolver resolves seat prices against the catalog.
type Resolver struct {
	catalog catalog.Catalog
}

// NewResolver constructs a Resolver over the given catalog.
func NewResolver(c catalog.Catalog) *Resolver {
	if c == nil {
		panic("nil catalog passed to pricing.NewResolver")
	}
	return &Resolver{catalog: c}
}

// PriceFor returns the price in cents for one seat of a showtime.
// The base price is the showtime's base price unless the seat type
// carries a base price override, and then the seat type's percentage
// is added or subtracted.  The result is rounded half-up to the cent
// and never drops below zero: a discount larger than 100% yields a
// free seat, not a negative price.  Unknown showtimes, seats or seat
// types yield catalog.ErrNotFound.
func (r *Resolver) PriceFor(ctx context.Context, showtimeID, seatID uint64) (int64, error) {
	showtime, err := r.catalog.Showtime(ctx, showtimeID)
	if err != nil {
		return 0, err
	}
	seat, err := r.catalog.Seat(ctx, seatID)
	if err != nil {
		return 0, err
	}
	seatType, err := r.catalog.SeatType(ctx, seat.SeatTypeID)
	if err != nil {
		return 0, err
	}
	base := showtime.BasePriceCents
	if override, ok, err := r.catalog.BasePrice(ctx, seatType.ID); err != nil {
		return 0, err
	} else if ok {
		base = override
	}
	return Adjust(base, seatType), nil
}

// Adjust applies a seat type's percentage premium or discount to the
// given base price in cents.  Rounding is half-up and the result is
// floored at zero.
func Adjust(baseCents int64, seatType *model.SeatType) int64 {
	factor := 1 + seatType.Percent/100
	if seatType.Direction == model.DirectionSubtract {
		factor = 1 - seatType.Percent/100
	}
	cents := int64(math.Floor(float64(baseCents)*factor + 0.5))
	if cents < 0 {
		return 0
	}
	return cents
}
