package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/model"
)

func newTestCatalog() *catalog.Memory {
	c := catalog.NewMemory()
	c.AddSeatType(model.SeatType{ID: 1, Name: "STANDARD", Percent: 0, Direction: model.DirectionAdd})
	c.AddSeatType(model.SeatType{ID: 2, Name: "VIP", Percent: 50, Direction: model.DirectionAdd})
	c.AddSeatType(model.SeatType{ID: 3, Name: "BALCONY", Percent: 25, Direction: model.DirectionSubtract})
	c.AddSeat(model.Seat{ID: 11, Label: "A1", ScreenID: 5, SeatTypeID: 1})
	c.AddSeat(model.Seat{ID: 12, Label: "A2", ScreenID: 5, SeatTypeID: 2})
	c.AddSeat(model.Seat{ID: 13, Label: "B1", ScreenID: 5, SeatTypeID: 3})
	c.AddShowtime(model.Showtime{ID: 100, MovieID: 1, ScreenID: 5, BasePriceCents: 1000})
	return c
}

func TestPriceForStandardSeat(t *testing.T) {
	r := NewResolver(newTestCatalog())
	cents, err := r.PriceFor(context.Background(), 100, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cents)
}

func TestPriceForVIPPremium(t *testing.T) {
	// $10 base with a +50% VIP premium must quote $15.00.
	r := NewResolver(newTestCatalog())
	cents, err := r.PriceFor(context.Background(), 100, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), cents)
}

func TestPriceForSubtractDirection(t *testing.T) {
	r := NewResolver(newTestCatalog())
	cents, err := r.PriceFor(context.Background(), 100, 13)
	require.NoError(t, err)
	assert.Equal(t, int64(750), cents)
}

func TestPriceForSeatTypeOverride(t *testing.T) {
	c := newTestCatalog()
	c.SetBasePrice(2, 2000) // VIP seats price from their own base, not the showtime's
	r := NewResolver(c)
	cents, err := r.PriceFor(context.Background(), 100, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), cents)
}

func TestPriceForUnknownShowtime(t *testing.T) {
	r := NewResolver(newTestCatalog())
	_, err := r.PriceFor(context.Background(), 999, 11)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPriceForUnknownSeat(t *testing.T) {
	r := NewResolver(newTestCatalog())
	_, err := r.PriceFor(context.Background(), 100, 999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAdjustRoundsHalfUp(t *testing.T) {
	st := &model.SeatType{Percent: 12.5, Direction: model.DirectionAdd}
	// 999 * 1.125 = 1123.875 -> 1124
	assert.Equal(t, int64(1124), Adjust(999, st))

	st = &model.SeatType{Percent: 50, Direction: model.DirectionAdd}
	// 1 * 1.5 = 1.5 -> rounds up to 2
	assert.Equal(t, int64(2), Adjust(1, st))
}

func TestAdjustFloorsAtZero(t *testing.T) {
	st := &model.SeatType{Percent: 150, Direction: model.DirectionSubtract}
	assert.Equal(t, int64(0), Adjust(1000, st))
}
