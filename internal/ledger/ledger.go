// Package ledger implements the concurrency-safe reservation core:
// per-(showtime, seat) ownership slots, all-or-nothing multi-seat
// holds, atomic hold-to-booking conversion and hold expiry.  The
// ledger is the single shared mutable resource of the service; it is
// created once at startup and never implicitly reset.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cinepass/ticket-booking/internal/catalog"
	"github.com/cinepass/ticket-booking/internal/model"
	"github.com/cinepass/ticket-booking/internal/pricing"
)

// SeatState is the derived availability of one (showtime, seat) pair.
// Exactly one state applies at any instant.
type SeatState string

// Possible seat states.
const (
	StateFree   SeatState = "FREE"
	StateHeld   SeatState = "HELD"
	StateBooked SeatState = "BOOKED"
)

// Store write retry policy for Confirm and Cancel.  Transient storage
// failures are retried with doubling backoff before ErrUnavailable is
// surfaced.
const (
	storeAttempts = 3
	storeBackoff  = 100 * time.Millisecond
)

// HoldResult reports a successful multi-seat hold.
type HoldResult struct {
	ShowtimeID uint64    // showtime the seats are held for
	SeatIDs    []uint64  // held seats, ascending
	ExpiresAt  time.Time // instant at which all holds lapse
}

// BookingResult reports a successful confirmation.
type BookingResult struct {
	Ref        string           // booking reference shared by all seats
	ShowtimeID uint64           // confirmed showtime
	OrderID    string           // order that owned the holds
	Prices     map[uint64]int64 // per-seat price in cents
	TotalCents int64            // sum of all seat prices
	CreatedAt  time.Time        // confirmation instant
}

// slotKey identifies one ownership slot.
type slotKey struct {
	showtimeID uint64
	seatID     uint64
}

// slot is the unit of mutual exclusion.  All reads and writes of hold
// and booked happen with mu held.  dead marks slots that were purged
// from the map; a locker observing dead must retry the map lookup.
type slot struct {
	mu     sync.Mutex
	dead   bool
	hold   *model.SeatHold
	booked *model.Booking
}

// reap clears an expired hold in place.  Callers must hold s.mu.
func (s *slot) reap(now time.Time) {
	if s.hold != nil && !s.hold.ExpiresAt.After(now) {
		s.hold = nil
	}
}

// Ledger tracks the state of every (showtime, seat) pair.  Multi-seat
// operations acquire slots in ascending seat order, which prevents
// deadlock when two requests contend for overlapping seat sets in
// different orders.
type Ledger struct {
	catalog catalog.Catalog
	pricer  *pricing.Resolver
	store   BookingStore
	now     func() time.Time

	mu    sync.Mutex // guards the slots map itself, never held across slot locks
	slots map[slotKey]*slot
}

// New constructs a Ledger over the given catalog, price resolver and
// booking store.  All dependencies must be non-nil.
func New(c catalog.Catalog, pricer *pricing.Resolver, store BookingStore) *Ledger {
	if c == nil || pricer == nil || store == nil {
		panic("nil dependency passed to ledger.New")
	}
	return &Ledger{
		catalog: c,
		pricer:  pricer,
		store:   store,
		now:     time.Now,
		slots:   make(map[slotKey]*slot),
	}
}

// Restore loads all live bookings from the store and marks their
// slots booked.  It must be called once at startup, before the ledger
// serves any traffic.
func (l *Ledger) Restore(ctx context.Context) (int, error) {
	bookings, err := l.store.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for i := range bookings {
		b := bookings[i]
		s := l.slotFor(slotKey{showtimeID: b.ShowtimeID, seatID: b.SeatID})
		s.mu.Lock()
		s.booked = &b
		s.mu.Unlock()
	}
	return len(bookings), nil
}

// slotFor returns the slot for a key, creating it when absent.  The
// returned slot is not locked; callers that need exclusion must lock
// it and re-check dead via lockSlot.
func (l *Ledger) slotFor(key slotKey) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{}
		l.slots[key] = s
	}
	return s
}

// lockSlot locks the slot for a key, retrying when the slot was
// purged between lookup and lock.
func (l *Ledger) lockSlot(key slotKey) *slot {
	for {
		s := l.slotFor(key)
		s.mu.Lock()
		if !s.dead {
			return s
		}
		s.mu.Unlock()
	}
}

// lockAll locks the slots for every seat in ascending seat order and
// returns them in that order.  Unlock with unlockAll.
func (l *Ledger) lockAll(showtimeID uint64, seatIDs []uint64) []*slot {
	locked := make([]*slot, 0, len(seatIDs))
	for _, sid := range seatIDs {
		locked = append(locked, l.lockSlot(slotKey{showtimeID: showtimeID, seatID: sid}))
	}
	return locked
}

// unlockAll releases slots in reverse acquisition order.
func unlockAll(locked []*slot) {
	for i := len(locked) - 1; i >= 0; i-- {
		locked[i].mu.Unlock()
	}
}

// sortedUnique validates and sorts a seat id set.  Empty sets, zero
// ids and duplicates are rejected with ErrInvalidRequest.
func sortedUnique(seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, fmt.Errorf("%w: empty seat set", ErrInvalidRequest)
	}
	sorted := make([]uint64, len(seatIDs))
	copy(sorted, seatIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, sid := range sorted {
		if sid == 0 {
			return nil, fmt.Errorf("%w: zero seat id", ErrInvalidRequest)
		}
		if i > 0 && sorted[i-1] == sid {
			return nil, fmt.Errorf("%w: duplicate seat id %d", ErrInvalidRequest, sid)
		}
	}
	return sorted, nil
}

// validateSeats checks that every requested seat belongs to the
// showtime's screen.  Unknown seats yield ErrNotFound.
func (l *Ledger) validateSeats(ctx context.Context, showtime *model.Showtime, seatIDs []uint64) error {
	seats, err := l.catalog.SeatsForScreen(ctx, showtime.ScreenID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("%w: screen %d", ErrNotFound, showtime.ScreenID)
		}
		return err
	}
	known := make(map[uint64]struct{}, len(seats))
	for _, s := range seats {
		known[s.ID] = struct{}{}
	}
	for _, sid := range seatIDs {
		if _, ok := known[sid]; !ok {
			return fmt.Errorf("%w: seat %d is not on screen %d", ErrNotFound, sid, showtime.ScreenID)
		}
	}
	return nil
}

// showtime resolves a showtime id, mapping catalog misses to ErrNotFound.
func (l *Ledger) showtime(ctx context.Context, id uint64) (*model.Showtime, error) {
	st, err := l.catalog.Showtime(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: showtime %d", ErrNotFound, id)
		}
		return nil, err
	}
	return st, nil
}

// Hold attempts to acquire holds on all given seats for a showtime.
// The acquisition is all-or-nothing: it succeeds only if every
// requested seat is free, and on any conflict no seat is held and the
// returned *ConflictError lists every contested seat.  Hold never
// waits for contested seats; under concurrent requests for
// overlapping sets at most one request wins any contested seat.
func (l *Ledger) Hold(ctx context.Context, showtimeID uint64, seatIDs []uint64, userID uint64, orderID string, ttl time.Duration) (*HoldResult, error) {
	if userID == 0 || orderID == "" {
		return nil, fmt.Errorf("%w: missing user or order id", ErrInvalidRequest)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidRequest)
	}
	sorted, err := sortedUnique(seatIDs)
	if err != nil {
		return nil, err
	}
	showtime, err := l.showtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if err := l.validateSeats(ctx, showtime, sorted); err != nil {
		return nil, err
	}

	locked := l.lockAll(showtimeID, sorted)
	defer unlockAll(locked)

	now := l.now().UTC()
	conflicts := make([]uint64, 0)
	for i, s := range locked {
		s.reap(now)
		if s.hold != nil || s.booked != nil {
			conflicts = append(conflicts, sorted[i])
		}
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{SeatIDs: conflicts}
	}

	expiresAt := now.Add(ttl)
	for i, s := range locked {
		s.hold = &model.SeatHold{
			ShowtimeID: showtimeID,
			SeatID:     sorted[i],
			UserID:     userID,
			OrderID:    orderID,
			State:      model.HoldSelected,
			ExpiresAt:  expiresAt,
			CreatedAt:  now,
		}
	}
	return &HoldResult{ShowtimeID: showtimeID, SeatIDs: sorted, ExpiresAt: expiresAt}, nil
}

// Release removes the holds owned by an order.  Seats not held by the
// order are skipped silently, which makes Release idempotent.  A nil
// or empty seat set releases every seat the order holds for the
// showtime.  The number of released seats is returned.
func (l *Ledger) Release(ctx context.Context, showtimeID uint64, seatIDs []uint64, orderID string) (int, error) {
	if orderID == "" {
		return 0, fmt.Errorf("%w: missing order id", ErrInvalidRequest)
	}
	if _, err := l.showtime(ctx, showtimeID); err != nil {
		return 0, err
	}
	var sorted []uint64
	if len(seatIDs) == 0 {
		sorted = l.seatsOfShowtime(showtimeID)
		if len(sorted) == 0 {
			return 0, nil
		}
	} else {
		var err error
		sorted, err = sortedUnique(seatIDs)
		if err != nil {
			return 0, err
		}
	}

	locked := l.lockAll(showtimeID, sorted)
	defer unlockAll(locked)

	released := 0
	for _, s := range locked {
		if s.hold != nil && s.hold.OrderID == orderID {
			s.hold = nil
			released++
		}
	}
	return released, nil
}

// seatsOfShowtime lists the seat ids that currently have a slot for
// the showtime, ascending.
func (l *Ledger) seatsOfShowtime(showtimeID uint64) []uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	seatIDs := make([]uint64, 0)
	for key := range l.slots {
		if key.showtimeID == showtimeID {
			seatIDs = append(seatIDs, key.seatID)
		}
	}
	sort.Slice(seatIDs, func(i, j int) bool { return seatIDs[i] < seatIDs[j] })
	return seatIDs
}

// Extend refreshes the expiry of a single hold and marks the hold
// RESERVED, the state a hold enters when checkout begins.  It reports
// false when the hold is missing, expired or owned by another order;
// nothing changes in that case.
func (l *Ledger) Extend(ctx context.Context, showtimeID, seatID uint64, orderID string, newTTL time.Duration) (bool, error) {
	if orderID == "" {
		return false, fmt.Errorf("%w: missing order id", ErrInvalidRequest)
	}
	if newTTL <= 0 {
		return false, fmt.Errorf("%w: ttl must be positive", ErrInvalidRequest)
	}
	if _, err := l.showtime(ctx, showtimeID); err != nil {
		return false, err
	}

	s := l.lockSlot(slotKey{showtimeID: showtimeID, seatID: seatID})
	defer s.mu.Unlock()

	now := l.now().UTC()
	s.reap(now)
	if s.hold == nil || s.hold.OrderID != orderID {
		return false, nil
	}
	s.hold.ExpiresAt = now.Add(newTTL)
	s.hold.State = model.HoldReserved
	return true, nil
}

// Confirm converts the active holds of an order into bookings.  Every
// requested seat must carry an unexpired hold owned by the order and
// user; otherwise *HoldExpiredError names the offending seats and no
// state changes.  Expiry is re-checked under the slot locks, so a
// confirmation and the expiry sweeper can never both claim the same
// hold instance.  On success the holds are deleted and the bookings
// inserted in one indivisible step; the booking rows are persisted
// through the store with bounded retries before the slots commit.
func (l *Ledger) Confirm(ctx context.Context, showtimeID uint64, seatIDs []uint64, orderID string, userID uint64) (*BookingResult, error) {
	if userID == 0 || orderID == "" {
		return nil, fmt.Errorf("%w: missing user or order id", ErrInvalidRequest)
	}
	sorted, err := sortedUnique(seatIDs)
	if err != nil {
		return nil, err
	}
	showtime, err := l.showtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if err := l.validateSeats(ctx, showtime, sorted); err != nil {
		return nil, err
	}

	// Prices are resolved before entering the critical section; catalog
	// data is immutable during a showtime's booking window, so the quote
	// cannot drift between here and the commit.
	prices := make(map[uint64]int64, len(sorted))
	total := int64(0)
	for _, sid := range sorted {
		cents, err := l.pricer.PriceFor(ctx, showtimeID, sid)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, fmt.Errorf("%w: price for seat %d", ErrNotFound, sid)
			}
			return nil, err
		}
		prices[sid] = cents
		total += cents
	}

	locked := l.lockAll(showtimeID, sorted)
	defer unlockAll(locked)

	now := l.now().UTC()
	missing := make([]uint64, 0)
	for i, s := range locked {
		s.reap(now)
		if s.hold == nil || s.hold.OrderID != orderID || s.hold.UserID != userID {
			missing = append(missing, sorted[i])
		}
	}
	if len(missing) > 0 {
		return nil, &HoldExpiredError{SeatIDs: missing}
	}

	ref := uuid.NewString()
	bookings := make([]model.Booking, 0, len(sorted))
	for _, sid := range sorted {
		bookings = append(bookings, model.Booking{
			Ref:        ref,
			MovieID:    showtime.MovieID,
			ShowtimeID: showtimeID,
			SeatID:     sid,
			UserID:     userID,
			OrderID:    orderID,
			PriceCents: prices[sid],
			CreatedAt:  now,
		})
	}
	if err := l.persist(ctx, func() error { return l.store.CreateBulk(ctx, bookings) }); err != nil {
		return nil, err
	}
	for i, s := range locked {
		s.hold = nil
		b := bookings[i]
		s.booked = &b
	}
	return &BookingResult{
		Ref:        ref,
		ShowtimeID: showtimeID,
		OrderID:    orderID,
		Prices:     prices,
		TotalCents: total,
		CreatedAt:  now,
	}, nil
}

// Cancel frees a booked seat, recording the cancellation in the store
// before the slot returns to free.  It returns ErrNotFound when the
// (showtime, seat) pair carries no live booking for the order.
func (l *Ledger) Cancel(ctx context.Context, showtimeID, seatID uint64, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("%w: missing order id", ErrInvalidRequest)
	}

	s := l.lockSlot(slotKey{showtimeID: showtimeID, seatID: seatID})
	defer s.mu.Unlock()

	if s.booked == nil || s.booked.OrderID != orderID {
		return fmt.Errorf("%w: no live booking for seat %d", ErrNotFound, seatID)
	}
	now := l.now().UTC()
	if err := l.persist(ctx, func() error { return l.store.Cancel(ctx, showtimeID, seatID, orderID, now) }); err != nil {
		return err
	}
	s.booked = nil
	return nil
}

// Snapshot returns the state of every seat of the showtime's screen
// at a single consistent instant.  All existing slots of the showtime
// are locked for the duration of the copy, so a multi-seat hold is
// either fully visible or not visible at all.
func (l *Ledger) Snapshot(ctx context.Context, showtimeID uint64) (map[uint64]SeatState, error) {
	showtime, err := l.showtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	seats, err := l.catalog.SeatsForScreen(ctx, showtime.ScreenID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: screen %d", ErrNotFound, showtime.ScreenID)
		}
		return nil, err
	}

	states := make(map[uint64]SeatState, len(seats))
	seatIDs := make([]uint64, 0, len(seats))
	for _, s := range seats {
		states[s.ID] = StateFree
		seatIDs = append(seatIDs, s.ID)
	}
	sort.Slice(seatIDs, func(i, j int) bool { return seatIDs[i] < seatIDs[j] })

	locked := l.lockAll(showtimeID, seatIDs)
	defer unlockAll(locked)

	now := l.now().UTC()
	for i, s := range locked {
		s.reap(now)
		switch {
		case s.booked != nil:
			states[seatIDs[i]] = StateBooked
		case s.hold != nil:
			states[seatIDs[i]] = StateHeld
		}
	}
	return states, nil
}

// HoldsForOrder returns the seat ids of the active holds an order
// owns for a showtime, ascending.  Handlers use it to confirm a whole
// checkout without the client resending the seat list.
func (l *Ledger) HoldsForOrder(showtimeID uint64, orderID string) []uint64 {
	seatIDs := l.seatsOfShowtime(showtimeID)
	if len(seatIDs) == 0 {
		return nil
	}
	locked := l.lockAll(showtimeID, seatIDs)
	defer unlockAll(locked)

	now := l.now().UTC()
	owned := make([]uint64, 0)
	for i, s := range locked {
		s.reap(now)
		if s.hold != nil && s.hold.OrderID == orderID {
			owned = append(owned, seatIDs[i])
		}
	}
	return owned
}

// SweepExpired removes every expired hold and purges slots that carry
// no state, returning the seats to free.  It runs under the same slot
// locks as Hold and Confirm, so it can never race a confirmation of
// the same hold instance.  The number of reclaimed holds is returned.
func (l *Ledger) SweepExpired() int {
	l.mu.Lock()
	keys := make([]slotKey, 0, len(l.slots))
	for key := range l.slots {
		keys = append(keys, key)
	}
	l.mu.Unlock()

	now := l.now().UTC()
	reclaimed := 0
	for _, key := range keys {
		s := l.lockSlot(key)
		if s.hold != nil && !s.hold.ExpiresAt.After(now) {
			s.hold = nil
			reclaimed++
		}
		if s.hold == nil && s.booked == nil {
			// Empty slot: drop it from the map so the ledger does not
			// grow without bound.  Concurrent lockers re-check dead and
			// retry their lookup.
			s.dead = true
			l.mu.Lock()
			delete(l.slots, key)
			l.mu.Unlock()
		}
		s.mu.Unlock()
	}
	return reclaimed
}

// persist runs a store write with bounded retries and doubling
// backoff, honouring context cancellation between attempts.  After
// the final failure ErrUnavailable is returned.
func (l *Ledger) persist(ctx context.Context, write func() error) error {
	backoff := storeBackoff
	var lastErr error
	for attempt := 0; attempt < storeAttempts; attempt++ {
		if lastErr = write(); lastErr == nil {
			return nil
		}
		if attempt == storeAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}
