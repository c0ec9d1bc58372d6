package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/cinepass/ticket-booking/internal/model"
)

// Memory is an in-memory Catalog used by tests and local development.
// It holds plain maps guarded by a read-write mutex; the Add methods
// are only expected to be called during setup, before lookups begin.
type Memory struct {
	mu         sync.RWMutex
	showtimes  map[uint64]model.Showtime
	seats      map[uint64]model.Seat
	seatTypes  map[uint64]model.SeatType
	screens    map[uint64]struct{}
	basePrices map[uint64]int64
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		showtimes:  make(map[uint64]model.Showtime),
		seats:      make(map[uint64]model.Seat),
		seatTypes:  make(map[uint64]model.SeatType),
		screens:    make(map[uint64]struct{}),
		basePrices: make(map[uint64]int64),
	}
}

// AddShowtime registers a showtime and implicitly its screen.
func (m *Memory) AddShowtime(st model.Showtime) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showtimes[st.ID] = st
	m.screens[st.ScreenID] = struct{}{}
}

// AddSeat registers a seat and implicitly its screen.
func (m *Memory) AddSeat(s model.Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seats[s.ID] = s
	m.screens[s.ScreenID] = struct{}{}
}

// AddSeatType registers a seat type.
func (m *Memory) AddSeatType(st model.SeatType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seatTypes[st.ID] = st
}

// SetBasePrice registers a per-seat-type base price override.
func (m *Memory) SetBasePrice(seatTypeID uint64, cents int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.basePrices[seatTypeID] = cents
}

// Showtime implements Catalog.
func (m *Memory) Showtime(_ context.Context, id uint64) (*model.Showtime, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.showtimes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

// SeatsForScreen implements Catalog.  Seats are returned ordered by id.
func (m *Memory) SeatsForScreen(_ context.Context, screenID uint64) ([]model.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.screens[screenID]; !ok {
		return nil, ErrNotFound
	}
	seats := make([]model.Seat, 0)
	for _, s := range m.seats {
		if s.ScreenID == screenID {
			seats = append(seats, s)
		}
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].ID < seats[j].ID })
	return seats, nil
}

// Seat implements Catalog.
func (m *Memory) Seat(_ context.Context, id uint64) (*model.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.seats[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// SeatType implements Catalog.
func (m *Memory) SeatType(_ context.Context, id uint64) (*model.SeatType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.seatTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

// BasePrice implements Catalog.
func (m *Memory) BasePrice(_ context.Context, seatTypeID uint64) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cents, ok := m.basePrices[seatTypeID]
	return cents, ok, nil
}
