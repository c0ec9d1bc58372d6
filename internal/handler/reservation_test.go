package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/config"
	"github.com/cinepass/ticket-booking/internal/ledger"
	"github.com/cinepass/ticket-booking/internal/model"
	"github.com/cinepass/ticket-booking/internal/pricing"
	"github.com/cinepass/ticket-booking/internal/queue"
)

const (
	testShowtime = "100"
	testUser     = uint64(42)
)

// newTestHandler builds a ReservationHandler over an in-memory catalog
// with showtime 100 ($10 base) on a screen with seats 1..4 standard and
// seat 5 VIP (+50%).
func newTestHandler(t *testing.T) (*ReservationHandler, *ledger.MemoryStore) {
	t.Helper()
	c := catalog.NewMemory()
	c.AddSeatType(model.SeatType{ID: 1, Name: "STANDARD", Percent: 0, Direction: model.DirectionAdd})
	c.AddSeatType(model.SeatType{ID: 2, Name: "VIP", Percent: 50, Direction: model.DirectionAdd})
	for id := uint64(1); id <= 4; id++ {
		c.AddSeat(model.Seat{ID: id, Label: "A" + string(rune('0'+id)), ScreenID: 5, SeatTypeID: 1})
	}
	c.AddSeat(model.Seat{ID: 5, Label: "V1", ScreenID: 5, SeatTypeID: 2})
	c.AddShowtime(model.Showtime{ID: 100, MovieID: 7, ScreenID: 5, BasePriceCents: 1000, StartsAt: time.Now().Add(time.Hour)})

	store := ledger.NewMemoryStore()
	l := ledger.New(c, pricing.NewResolver(c), store)
	cfg := config.Config{HoldTTL: 5 * time.Minute}
	return NewReservationHandler(cfg, l, c, store), store
}

// call runs one handler against a synthetic authenticated request and
// returns the recorder.
func call(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", testUser)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	require.NoError(t, h(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHoldCreatesHolds(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1","seat_ids":[1,2]}`, map[string]string{"id": testShowtime}, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["seat_ids"], 2)
	assert.NotEmpty(t, body["expires_at"])
}

func TestHoldConflictListsAllContestedSeats(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1","seat_ids":[1,2]}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-2","seat_ids":[2,1,3]}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["seat_ids"], 2, "both contested seats must be reported")
}

func TestHoldValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"seat_ids":[1]}`, map[string]string{"id": testShowtime}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing order_id")

	rec = call(t, h.Hold, http.MethodPost, "/v1/showtimes/abc/hold",
		`{"order_id":"ord-1","seat_ids":[1]}`, map[string]string{"id": "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "non-numeric showtime id")

	rec = call(t, h.Hold, http.MethodPost, "/v1/showtimes/999/hold",
		`{"order_id":"ord-1","seat_ids":[1]}`, map[string]string{"id": "999"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown showtime")
}

func TestReleaseWholeOrder(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1","seat_ids":[1,2,3]}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h.Release, http.MethodDelete, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1"}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decode(t, rec)["released"])

	// Seats are free again for another order.
	rec = call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-2","seat_ids":[1,2,3]}`, map[string]string{"id": testShowtime}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestExtendRefreshesHold(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1","seat_ids":[1]}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h.Extend, http.MethodPost, "/v1/showtimes/100/extend",
		`{"order_id":"ord-1","seat_id":1,"ttl_seconds":600}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h.Extend, http.MethodPost, "/v1/showtimes/100/extend",
		`{"order_id":"other","seat_id":1,"ttl_seconds":600}`, map[string]string{"id": testShowtime}, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "foreign order cannot extend")
}

func TestConfirmCreatesBookingAndPublishes(t *testing.T) {
	h, store := newTestHandler(t)

	published := make(chan queue.BookingConfirmedEvent, 1)
	h.Publish = func(_ context.Context, ev queue.BookingConfirmedEvent) error {
		published <- ev
		return nil
	}

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1","seat_ids":[1,5]}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h.Confirm, http.MethodPost, "/v1/showtimes/100/confirm",
		`{"order_id":"ord-1"}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["booking_ref"])
	assert.EqualValues(t, 2500, body["total_cents"], "$10 standard plus $15 VIP")

	select {
	case ev := <-published:
		assert.Equal(t, "ord-1", ev.OrderID)
		assert.EqualValues(t, 2500, ev.TotalCents)
		assert.ElementsMatch(t, []string{"A1", "V1"}, ev.SeatLabels)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation event was not published")
	}

	bookings, err := store.ListByUser(context.Background(), testUser)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestConfirmWithoutHolds(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Confirm, http.MethodPost, "/v1/showtimes/100/confirm",
		`{"order_id":"ord-none"}`, map[string]string{"id": testShowtime}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMyBookingsListsOnlyLive(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1","seat_ids":[1,2]}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = call(t, h.Confirm, http.MethodPost, "/v1/showtimes/100/confirm",
		`{"order_id":"ord-1"}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h.CancelSeat, http.MethodDelete, "/v1/bookings/ord-1/seats/1",
		"", map[string]string{"order_id": "ord-1", "seat_id": "1"}, "showtime_id=100")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h.MyBookings, http.MethodGet, "/v1/my-bookings", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]any)
	require.Len(t, items, 1, "cancelled seat must not be listed")
	first := items[0].(map[string]any)
	assert.EqualValues(t, 2, first["seat_id"])
}

func TestCancelSeatFreesSeat(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-1","seat_ids":[3]}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = call(t, h.Confirm, http.MethodPost, "/v1/showtimes/100/confirm",
		`{"order_id":"ord-1"}`, map[string]string{"id": testShowtime}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h.CancelSeat, http.MethodDelete, "/v1/bookings/ord-1/seats/3",
		"", map[string]string{"order_id": "ord-1", "seat_id": "3"}, "showtime_id=100")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h.Hold, http.MethodPost, "/v1/showtimes/100/hold",
		`{"order_id":"ord-2","seat_ids":[3]}`, map[string]string{"id": testShowtime}, "")
	assert.Equal(t, http.StatusCreated, rec.Code, "cancelled seat is holdable again")

	rec = call(t, h.CancelSeat, http.MethodDelete, "/v1/bookings/ord-1/seats/3",
		"", map[string]string{"order_id": "ord-1", "seat_id": "3"}, "showtime_id=100")
	assert.Equal(t, http.StatusNotFound, rec.Code, "second cancel targets a freed seat")
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	h, _ := newTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/showtimes/100/hold", strings.NewReader(`{"order_id":"x","seat_ids":[1]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(testShowtime)

	require.NoError(t, h.Hold(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
