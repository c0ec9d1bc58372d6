package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cinepass/ticket-booking/internal/model"
)

// BookingStore is the persistence hook behind the ledger.  Confirm
// writes all seats of an order through CreateBulk in one atomic
// statement, Cancel records the explicit cancellation timestamp, and
// ListActive feeds the ledger's startup restore.  The MySQL-backed
// repository.BookingRepo satisfies this interface in production.
type BookingStore interface {
	CreateBulk(ctx context.Context, bookings []model.Booking) error
	Cancel(ctx context.Context, showtimeID, seatID uint64, orderID string, at time.Time) error
	ListActive(ctx context.Context) ([]model.Booking, error)
}

// MemoryStore is an in-memory BookingStore used by tests and local
// development.  FailCreates makes the next N CreateBulk calls fail so
// the bounded-retry path can be exercised.
type MemoryStore struct {
	mu          sync.Mutex
	bookings    []model.Booking
	nextID      uint64
	FailCreates int
}

// NewMemoryStore returns an empty in-memory booking store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// CreateBulk implements BookingStore.  The whole batch is appended or,
// when failure injection is armed, nothing is.
func (s *MemoryStore) CreateBulk(_ context.Context, bookings []model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreates > 0 {
		s.FailCreates--
		return errors.New("injected store failure")
	}
	for _, b := range bookings {
		s.nextID++
		b.ID = s.nextID
		s.bookings = append(s.bookings, b)
	}
	return nil
}

// Cancel implements BookingStore.
func (s *MemoryStore) Cancel(_ context.Context, showtimeID, seatID uint64, orderID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		b := &s.bookings[i]
		if b.ShowtimeID == showtimeID && b.SeatID == seatID && b.OrderID == orderID && b.CancelledAt == nil {
			cancelled := at
			b.CancelledAt = &cancelled
			return nil
		}
	}
	return errors.New("booking not found")
}

// ListByUser returns the live bookings belonging to one user, mirroring
// the MySQL repository's query shape.
func (s *MemoryStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID && b.CancelledAt == nil {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListActive implements BookingStore.
func (s *MemoryStore) ListActive(_ context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if b.CancelledAt == nil {
			active = append(active, b)
		}
	}
	return active, nil
}
