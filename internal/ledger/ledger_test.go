package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/model"
	"github.com/cinepass/ticket-booking/internal/pricing"
)

const (
	testShowtime = uint64(100)
	testScreen   = uint64(5)
)

// newTestLedger builds a ledger over an in-memory catalog with one
// showtime ($10 base) on a screen with ten standard seats (ids 1..10)
// and one VIP seat (id 11, +50%).
func newTestLedger(t *testing.T) (*Ledger, *MemoryStore) {
	t.Helper()
	c := catalog.NewMemory()
	c.AddSeatType(model.SeatType{ID: 1, Name: "STANDARD", Percent: 0, Direction: model.DirectionAdd})
	c.AddSeatType(model.SeatType{ID: 2, Name: "VIP", Percent: 50, Direction: model.DirectionAdd})
	for id := uint64(1); id <= 10; id++ {
		c.AddSeat(model.Seat{ID: id, Label: "A" + string(rune('0'+id%10)), ScreenID: testScreen, SeatTypeID: 1})
	}
	c.AddSeat(model.Seat{ID: 11, Label: "V1", ScreenID: testScreen, SeatTypeID: 2})
	c.AddShowtime(model.Showtime{ID: testShowtime, MovieID: 7, ScreenID: testScreen, BasePriceCents: 1000})

	store := NewMemoryStore()
	return New(c, pricing.NewResolver(c), store), store
}

func TestHoldDisjointSeatSetsAllSucceed(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	sets := [][]uint64{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}}
	var wg sync.WaitGroup
	errs := make([]error, len(sets))
	for i, set := range sets {
		wg.Add(1)
		go func(i int, set []uint64) {
			defer wg.Done()
			_, errs[i] = l.Hold(ctx, testShowtime, set, uint64(i+1), "order-"+string(rune('a'+i)), 5*time.Minute)
		}(i, set)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "disjoint hold %d must succeed", i)
	}
}

func TestHoldOverlappingSetsOnlyOneWins(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	const rounds = 50
	for round := 0; round < rounds; round++ {
		var wg sync.WaitGroup
		results := make([]error, 2)
		sets := [][]uint64{{1, 2, 3}, {3, 4, 5}}
		for i := range sets {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = l.Hold(ctx, testShowtime, sets[i], uint64(i+1), []string{"order-x", "order-y"}[i], time.Minute)
			}(i)
		}
		wg.Wait()

		winners := 0
		for i, err := range results {
			if err == nil {
				winners++
				continue
			}
			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict, "loser must observe a conflict result")
			assert.Contains(t, conflict.SeatIDs, uint64(3), "conflict set %d must include the contested seat", i)
		}
		require.Equal(t, 1, winners, "exactly one of two overlapping holds may win seat 3")

		// Reset for the next round.
		_, err := l.Release(ctx, testShowtime, nil, "order-x")
		require.NoError(t, err)
		_, err = l.Release(ctx, testShowtime, nil, "order-y")
		require.NoError(t, err)
	}
}

func TestHoldAllOrNothing(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{2}, 1, "order-a", time.Minute)
	require.NoError(t, err)

	// order-b wants 1..3 but 2 is taken: nothing may be acquired.
	_, err = l.Hold(ctx, testShowtime, []uint64{1, 2, 3}, 2, "order-b", time.Minute)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint64{2}, conflict.SeatIDs)

	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateFree, snap[1], "seat 1 must not be left half-held")
	assert.Equal(t, StateHeld, snap[2])
	assert.Equal(t, StateFree, snap[3])
}

func TestReleaseReturnsSeatsToFree(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{1, 2}, 1, "order-a", time.Minute)
	require.NoError(t, err)

	released, err := l.Release(ctx, testShowtime, []uint64{1, 2}, "order-a")
	require.NoError(t, err)
	assert.Equal(t, 2, released)

	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateFree, snap[1])
	assert.Equal(t, StateFree, snap[2])

	// Releasing again is a silent no-op.
	released, err = l.Release(ctx, testShowtime, []uint64{1, 2}, "order-a")
	require.NoError(t, err)
	assert.Equal(t, 0, released)
}

func TestReleaseIgnoresForeignHolds(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", time.Minute)
	require.NoError(t, err)

	released, err := l.Release(ctx, testShowtime, []uint64{1}, "order-b")
	require.NoError(t, err)
	assert.Equal(t, 0, released)

	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateHeld, snap[1], "a foreign release must not free the seat")
}

func TestExpiredHoldShowsFreeWithoutRelease(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	base := time.Now().UTC()
	l.now = func() time.Time { return base }
	_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", 30*time.Second)
	require.NoError(t, err)

	l.now = func() time.Time { return base.Add(31 * time.Second) }
	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateFree, snap[1])

	// The freed seat is immediately holdable by someone else.
	_, err = l.Hold(ctx, testShowtime, []uint64{1}, 2, "order-b", time.Minute)
	assert.NoError(t, err)
}

func TestExtendRefreshesOwnedHold(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	base := time.Now().UTC()
	l.now = func() time.Time { return base }
	_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", 30*time.Second)
	require.NoError(t, err)

	ok, err := l.Extend(ctx, testShowtime, 1, "order-a", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// Past the original deadline the extended hold is still alive.
	l.now = func() time.Time { return base.Add(2 * time.Minute) }
	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateHeld, snap[1])
}

func TestExtendRejectsExpiredOrForeignHold(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	base := time.Now().UTC()
	l.now = func() time.Time { return base }
	_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", 30*time.Second)
	require.NoError(t, err)

	ok, err := l.Extend(ctx, testShowtime, 1, "order-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "another order must not extend the hold")

	l.now = func() time.Time { return base.Add(time.Minute) }
	ok, err = l.Extend(ctx, testShowtime, 1, "order-a", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "an expired hold must not be extendable")
}

func TestConfirmConvertsHoldsToBookings(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{1, 11}, 1, "order-a", time.Minute)
	require.NoError(t, err)

	res, err := l.Confirm(ctx, testShowtime, []uint64{1, 11}, "order-a", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Ref)
	assert.Equal(t, int64(1000), res.Prices[1], "standard seat costs the base price")
	assert.Equal(t, int64(1500), res.Prices[11], "+50%% VIP premium on a $10 base is $15")
	assert.Equal(t, int64(2500), res.TotalCents)

	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateBooked, snap[1])
	assert.Equal(t, StateBooked, snap[11])

	persisted, err := store.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestConfirmWithoutHoldRejected(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Confirm(ctx, testShowtime, []uint64{1}, "order-a", 1)
	var missing *HoldExpiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []uint64{1}, missing.SeatIDs)
}

func TestConfirmOnExpiredHoldFails(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	base := time.Now().UTC()
	l.now = func() time.Time { return base }
	_, err := l.Hold(ctx, testShowtime, []uint64{1, 2}, 1, "order-a", 30*time.Second)
	require.NoError(t, err)

	l.now = func() time.Time { return base.Add(time.Minute) }
	_, err = l.Confirm(ctx, testShowtime, []uint64{1, 2}, "order-a", 1)
	var missing *HoldExpiredError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []uint64{1, 2}, missing.SeatIDs)

	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateFree, snap[1], "an expired hold must not become a booking")
}

func TestConfirmAndSweeperNeverBothClaimAHold(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// Holds are placed at base time and expire 50ms later; Confirm and
	// the sweeper then race for the same hold instance.  Exactly one
	// outcome is allowed per round: either the confirm won (seat
	// booked) or the expiry won (confirm reports the seat missing).
	const rounds = 30
	for round := 0; round < rounds; round++ {
		base := time.Now().UTC()
		l.now = func() time.Time { return base }
		orderID := "order-race"
		_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, orderID, 50*time.Millisecond)
		require.NoError(t, err)

		l.now = func() time.Time { return base.Add(50 * time.Millisecond) }

		var wg sync.WaitGroup
		var confirmErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, confirmErr = l.Confirm(ctx, testShowtime, []uint64{1}, orderID, 1)
		}()
		go func() {
			defer wg.Done()
			l.SweepExpired()
		}()
		wg.Wait()

		snap, err := l.Snapshot(ctx, testShowtime)
		require.NoError(t, err)
		if confirmErr == nil {
			assert.Equal(t, StateBooked, snap[1], "a successful confirm must leave the seat booked")
			require.NoError(t, l.Cancel(ctx, testShowtime, 1, orderID))
		} else {
			var missing *HoldExpiredError
			require.ErrorAs(t, confirmErr, &missing)
			assert.Equal(t, StateFree, snap[1], "a lost confirm must leave the seat free")
		}
	}
}

func TestConfirmSurfacesUnavailableAfterRetries(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", time.Minute)
	require.NoError(t, err)

	store.FailCreates = storeAttempts // exhaust every attempt
	_, err = l.Confirm(ctx, testShowtime, []uint64{1}, "order-a", 1)
	require.ErrorIs(t, err, ErrUnavailable)

	// The hold survives a storage outage and a later confirm succeeds.
	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateHeld, snap[1])

	_, err = l.Confirm(ctx, testShowtime, []uint64{1}, "order-a", 1)
	assert.NoError(t, err)
}

func TestConfirmRetriesTransientStoreFailure(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", time.Minute)
	require.NoError(t, err)

	store.FailCreates = 1 // first attempt fails, the retry lands
	res, err := l.Confirm(ctx, testShowtime, []uint64{1}, "order-a", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.TotalCents)
}

func TestCancelFreesBookedSeat(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", time.Minute)
	require.NoError(t, err)
	_, err = l.Confirm(ctx, testShowtime, []uint64{1}, "order-a", 1)
	require.NoError(t, err)

	require.NoError(t, l.Cancel(ctx, testShowtime, 1, "order-a"))

	snap, err := l.Snapshot(ctx, testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateFree, snap[1])

	// The pair may be rebooked after cancellation.
	_, err = l.Hold(ctx, testShowtime, []uint64{1}, 2, "order-b", time.Minute)
	require.NoError(t, err)
	_, err = l.Confirm(ctx, testShowtime, []uint64{1}, "order-b", 2)
	assert.NoError(t, err)
}

func TestCancelUnknownBookingRejected(t *testing.T) {
	l, _ := newTestLedger(t)
	err := l.Cancel(context.Background(), testShowtime, 1, "order-a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHoldValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, nil, 1, "order-a", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidRequest, "empty seat set")

	_, err = l.Hold(ctx, testShowtime, []uint64{1, 1}, 1, "order-a", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidRequest, "duplicate seat ids")

	_, err = l.Hold(ctx, testShowtime, []uint64{1}, 1, "order-a", 0)
	assert.ErrorIs(t, err, ErrInvalidRequest, "non-positive ttl")

	_, err = l.Hold(ctx, testShowtime, []uint64{1}, 1, "", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidRequest, "missing order id")

	_, err = l.Hold(ctx, 999, []uint64{1}, 1, "order-a", time.Minute)
	assert.ErrorIs(t, err, ErrNotFound, "unknown showtime")

	_, err = l.Hold(ctx, testShowtime, []uint64{999}, 1, "order-a", time.Minute)
	assert.ErrorIs(t, err, ErrNotFound, "seat not on the showtime's screen")
}

func TestRestoreMarksBookedSlots(t *testing.T) {
	c := catalog.NewMemory()
	c.AddSeatType(model.SeatType{ID: 1, Name: "STANDARD", Direction: model.DirectionAdd})
	c.AddSeat(model.Seat{ID: 1, Label: "A1", ScreenID: testScreen, SeatTypeID: 1})
	c.AddSeat(model.Seat{ID: 2, Label: "A2", ScreenID: testScreen, SeatTypeID: 1})
	c.AddShowtime(model.Showtime{ID: testShowtime, MovieID: 7, ScreenID: testScreen, BasePriceCents: 1000})

	store := NewMemoryStore()
	require.NoError(t, store.CreateBulk(context.Background(), []model.Booking{
		{Ref: "ref-1", ShowtimeID: testShowtime, SeatID: 1, UserID: 1, OrderID: "order-a", PriceCents: 1000},
	}))

	l := New(c, pricing.NewResolver(c), store)
	n, err := l.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snap, err := l.Snapshot(context.Background(), testShowtime)
	require.NoError(t, err)
	assert.Equal(t, StateBooked, snap[1])
	assert.Equal(t, StateFree, snap[2])

	var conflict *ConflictError
	_, err = l.Hold(context.Background(), testShowtime, []uint64{1}, 2, "order-b", time.Minute)
	require.ErrorAs(t, err, &conflict, "restored bookings must block new holds")
}

func TestSweepExpiredReclaimsAndPurges(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	base := time.Now().UTC()
	l.now = func() time.Time { return base }
	_, err := l.Hold(ctx, testShowtime, []uint64{1, 2, 3}, 1, "order-a", 30*time.Second)
	require.NoError(t, err)

	l.now = func() time.Time { return base.Add(time.Minute) }
	assert.Equal(t, 3, l.SweepExpired())
	assert.Equal(t, 0, l.SweepExpired(), "a second sweep finds nothing")

	l.mu.Lock()
	remaining := len(l.slots)
	l.mu.Unlock()
	assert.Zero(t, remaining, "empty slots are purged from the map")
}

func TestHoldsForOrder(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Hold(ctx, testShowtime, []uint64{3, 1}, 1, "order-a", time.Minute)
	require.NoError(t, err)
	_, err = l.Hold(ctx, testShowtime, []uint64{2}, 2, "order-b", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 3}, l.HoldsForOrder(testShowtime, "order-a"))
	assert.Equal(t, []uint64{2}, l.HoldsForOrder(testShowtime, "order-b"))
	assert.Empty(t, l.HoldsForOrder(testShowtime, "order-c"))
}
