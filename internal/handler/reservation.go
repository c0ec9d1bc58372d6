package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/config"
	"github.com/cinepass/ticket-booking/internal/ledger"
	"github.com/cinepass/ticket-booking/internal/model"
	"github.com/cinepass/ticket-booking/internal/queue"
)

// BookingLister lists live bookings for one user.  Both the MySQL
// booking repository and the in-memory store used by tests satisfy it.
type BookingLister interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// ReservationHandler serves the authenticated reservation flow: hold,
// release, extend, confirm and cancel.  All availability decisions are
// delegated to the ledger; this layer only translates HTTP requests
// into ledger calls and ledger errors into status codes.  Methods
// assume JWT authentication and role validation already ran in
// middleware.
type ReservationHandler struct {
	Cfg      config.Config
	Ledger   *ledger.Ledger
	Catalog  catalog.Catalog
	Bookings BookingLister
	// Publish announces a confirmed booking on the message broker.  It
	// is best-effort: failures are logged, never surfaced to the
	// client.  A nil Publish disables announcements.
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
	// Describe resolves display names for the confirmation event.  A
	// nil Describe leaves the name fields empty.
	Describe func(ctx context.Context, show *model.Showtime) (movie, location, screen string)
}

// NewReservationHandler constructs a ReservationHandler and panics if a
// required dependency is nil.
func NewReservationHandler(cfg config.Config, l *ledger.Ledger, cat catalog.Catalog, bookings BookingLister) *ReservationHandler {
	if l == nil || cat == nil || bookings == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Cfg: cfg, Ledger: l, Catalog: cat, Bookings: bookings}
}

// ----- DTOs -----

type holdReq struct {
	OrderID    string   `json:"order_id"`
	SeatIDs    []uint64 `json:"seat_ids"`
	TTLSeconds int64    `json:"ttl_seconds"` // optional, defaults to the configured hold TTL
}

type releaseReq struct {
	OrderID string   `json:"order_id"`
	SeatIDs []uint64 `json:"seat_ids"` // optional, empty releases the whole order
}

type extendReq struct {
	OrderID    string `json:"order_id"`
	SeatID     uint64 `json:"seat_id"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

type confirmReq struct {
	OrderID string `json:"order_id"`
}

// mapLedgerError translates a ledger error into an HTTP response.
func mapLedgerError(c echo.Context, err error) error {
	var conflict *ledger.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "seats unavailable",
			"seat_ids": conflict.SeatIDs,
		})
	}
	var expired *ledger.HoldExpiredError
	if errors.As(err, &expired) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "hold expired or missing",
			"seat_ids": expired.SeatIDs,
		})
	}
	switch {
	case errors.Is(err, ledger.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, ledger.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, holds kept, retry confirm"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// Hold handles POST /v1/showtimes/:id/hold.  It acquires all requested
// seats for the order or none of them.  On conflict the response lists
// every contested seat so the client can offer alternatives in one
// round trip.
func (h *ReservationHandler) Hold(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req holdReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}
	ttl := h.Cfg.HoldTTL
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}

	res, err := h.Ledger.Hold(c.Request().Context(), showtimeID, req.SeatIDs, userID, req.OrderID, ttl)
	if err != nil {
		return mapLedgerError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"showtime_id": res.ShowtimeID,
		"seat_ids":    res.SeatIDs,
		"expires_at":  res.ExpiresAt,
	})
}

// Release handles DELETE /v1/showtimes/:id/hold.  Omitting seat_ids
// releases every hold the order still has on the showtime.  Releasing
// seats the order does not hold is a no-op, so retries are safe.
func (h *ReservationHandler) Release(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req releaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}

	released, err := h.Ledger.Release(c.Request().Context(), showtimeID, req.SeatIDs, req.OrderID)
	if err != nil {
		return mapLedgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// Extend handles POST /v1/showtimes/:id/extend.  A successful extension
// refreshes the hold's expiry and marks it as reserved for checkout.
func (h *ReservationHandler) Extend(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req extendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" || req.SeatID == 0 || req.TTLSeconds <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id, seat_id and ttl_seconds are required"})
	}

	extended, err := h.Ledger.Extend(c.Request().Context(), showtimeID, req.SeatID, req.OrderID, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		return mapLedgerError(c, err)
	}
	if !extended {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hold expired or not owned by order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"extended": true})
}

// Confirm handles POST /v1/showtimes/:id/confirm.  It converts every
// hold the order has on the showtime into bookings under one booking
// reference, then announces the booking on the message broker.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}
	ctx := c.Request().Context()

	seatIDs := h.Ledger.HoldsForOrder(showtimeID, req.OrderID)
	if len(seatIDs) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active holds for order"})
	}

	res, err := h.Ledger.Confirm(ctx, showtimeID, seatIDs, req.OrderID, userID)
	if err != nil {
		return mapLedgerError(c, err)
	}

	h.announce(res, userID)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_ref": res.Ref,
		"order_id":    res.OrderID,
		"showtime_id": res.ShowtimeID,
		"prices":      res.Prices,
		"total_cents": res.TotalCents,
		"created_at":  res.CreatedAt,
	})
}

// announce publishes the booking.confirmed event in the background.
// Catalog lookups for the event run on a fresh context so a client
// disconnect after confirmation does not lose the announcement.
func (h *ReservationHandler) announce(res *ledger.BookingResult, userID uint64) {
	if h.Publish == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.BookingConfirmedEvent{
			BookingRef:  res.Ref,
			OrderID:     res.OrderID,
			UserID:      userID,
			ShowtimeID:  res.ShowtimeID,
			TotalCents:  res.TotalCents,
			ConfirmedAt: res.CreatedAt.UTC().Format(time.RFC3339),
		}
		if show, err := h.Catalog.Showtime(ctx, res.ShowtimeID); err == nil {
			ev.StartsAt = show.StartsAt.UTC().Format(time.RFC3339)
			if h.Describe != nil {
				ev.MovieName, ev.LocationName, ev.ScreenName = h.Describe(ctx, show)
			}
			for seatID := range res.Prices {
				if seat, err := h.Catalog.Seat(ctx, seatID); err == nil {
					ev.SeatLabels = append(ev.SeatLabels, seat.Label)
				}
			}
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("booking %s: publish confirmation failed: %v", res.Ref, err)
		}
	}()
}

type bookingItem struct {
	Ref        string    `json:"booking_ref"`
	ShowtimeID uint64    `json:"showtime_id"`
	SeatID     uint64    `json:"seat_id"`
	OrderID    string    `json:"order_id"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// MyBookings handles GET /v1/my-bookings.  It lists the caller's live
// bookings, newest first as returned by the store.
func (h *ReservationHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]bookingItem, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingItem{
			Ref:        b.Ref,
			ShowtimeID: b.ShowtimeID,
			SeatID:     b.SeatID,
			OrderID:    b.OrderID,
			PriceCents: b.PriceCents,
			CreatedAt:  b.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CancelSeat handles DELETE /v1/bookings/:order_id/seats/:seat_id.
// Cancelling frees the seat for rebooking; the showtime is passed as a
// query parameter because booking references are scoped per order.
func (h *ReservationHandler) CancelSeat(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID := strings.TrimSpace(c.Param("order_id"))
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	seatID, ok := pathID(c, "seat_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	showtimeID, err := strconv.ParseUint(strings.TrimSpace(c.QueryParam("showtime_id")), 10, 64)
	if err != nil || showtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id query parameter is required"})
	}

	if err := h.Ledger.Cancel(c.Request().Context(), showtimeID, seatID, orderID); err != nil {
		return mapLedgerError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": true})
}
