package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/ledger"
	"github.com/cinepass/ticket-booking/internal/pricing"
)

// AvailabilityHandler serves live seat availability and price quotes
// for a showtime.  Availability is read from the in-memory ledger so a
// response always reflects a single consistent instant; the catalog
// supplies labels and layout ordering.
type AvailabilityHandler struct {
	Catalog catalog.Catalog   // seat labels and showtime lookups
	Ledger  *ledger.Ledger    // live hold/booking state
	Pricer  *pricing.Resolver // per-seat price quotes
}

// NewAvailabilityHandler constructs an AvailabilityHandler and panics
// if any dependency is nil.
func NewAvailabilityHandler(cat catalog.Catalog, l *ledger.Ledger, p *pricing.Resolver) *AvailabilityHandler {
	if cat == nil || l == nil || p == nil {
		panic("nil dependency passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Catalog: cat, Ledger: l, Pricer: p}
}

type seatAvailability struct {
	ID    uint64 `json:"id"`
	Label string `json:"label"`
	State string `json:"state"` // FREE, HELD or BOOKED
}

// ShowtimeSeats handles GET /v1/showtimes/:id/seats.  It returns every
// seat of the showtime's screen with its current availability.
func (h *AvailabilityHandler) ShowtimeSeats(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()

	show, err := h.Catalog.Showtime(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.Catalog.SeatsForScreen(ctx, show.ScreenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	states, err := h.Ledger.Snapshot(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]seatAvailability, 0, len(seats))
	for _, s := range seats {
		state, ok := states[s.ID]
		if !ok {
			state = ledger.StateFree
		}
		out = append(out, seatAvailability{ID: s.ID, Label: s.Label, State: string(state)})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtime_id": showtimeID, "items": out})
}

type seatQuote struct {
	SeatID     uint64 `json:"seat_id"`
	PriceCents int64  `json:"price_cents"`
}

// Quote handles GET /v1/showtimes/:id/quote?seat_ids=1,2,3.  It prices
// each requested seat without creating any holds.
func (h *AvailabilityHandler) Quote(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	seatIDs, err := parseSeatIDs(c.QueryParam("seat_ids"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids must be a comma separated list of positive integers"})
	}
	ctx := c.Request().Context()

	quotes := make([]seatQuote, 0, len(seatIDs))
	var total int64
	for _, seatID := range seatIDs {
		price, err := h.Pricer.PriceFor(ctx, showtimeID, seatID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime or seat not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		quotes = append(quotes, seatQuote{SeatID: seatID, PriceCents: price})
		total += price
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id": showtimeID,
		"items":       quotes,
		"total_cents": total,
	})
}

// parseSeatIDs splits a comma separated query value into unique seat
// ids, rejecting empty input, zeros and duplicates.
func parseSeatIDs(raw string) ([]uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty seat_ids")
	}
	parts := strings.Split(raw, ",")
	out := make([]uint64, 0, len(parts))
	seen := make(map[uint64]struct{}, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || id == 0 {
			return nil, errors.New("invalid seat id")
		}
		if _, dup := seen[id]; dup {
			return nil, errors.New("duplicate seat id")
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
