// Package repository contains data access logic for bookings.  The
// booking table is the durable record behind the in-process ledger:
// confirmed seats are inserted here in a single multi-row statement,
// cancellations set an explicit cancelled timestamp, and live rows are
// loaded back into the ledger on startup.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"time"         // time stamps cancellations

	"github.com/cinepass/ticket-booking/internal/model"
)

// BookingRepo manages persistence for confirmed bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateBulk inserts all bookings of one confirmed order in a single
// multi-row INSERT so the write is atomic: either every seat of the
// order is persisted or none is.  Passing an empty slice has no
// effect and returns nil.  CreatedAt defaults in the database.
func (r *BookingRepo) CreateBulk(ctx context.Context, bookings []model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	query := `INSERT INTO user_bookings (booking_ref, movie_id, showtime_id, seat_id, user_id, order_id, price) VALUES `
	args := make([]interface{}, 0, len(bookings)*7)
	for i, b := range bookings {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, b.Ref, b.MovieID, b.ShowtimeID, b.SeatID, b.UserID, b.OrderID, b.PriceCents)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Cancel soft-deletes a live booking identified by showtime, seat and
// order.  It returns ErrBookingNotFound when no live booking matches,
// which makes repeated cancellations detectable by the caller.
func (r *BookingRepo) Cancel(ctx context.Context, showtimeID, seatID uint64, orderID string, at time.Time) error {
	const q = `UPDATE user_bookings SET deleted_at = ?
	           WHERE showtime_id = ? AND seat_id = ? AND order_id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, at.UTC().Format("2006-01-02 15:04:05"), showtimeID, seatID, orderID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListActive returns every live booking in the table.  The ledger
// calls this once at startup to mark booked slots before serving any
// traffic.
func (r *BookingRepo) ListActive(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT id, booking_ref, movie_id, showtime_id, seat_id, user_id, order_id, price, created_at
	           FROM user_bookings WHERE deleted_at IS NULL`
	return r.list(ctx, q)
}

// ListByUser returns the live bookings of one user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT id, booking_ref, movie_id, showtime_id, seat_id, user_id, order_id, price, created_at
	           FROM user_bookings WHERE user_id = ? AND deleted_at IS NULL
	           ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Ref, &b.MovieID, &b.ShowtimeID, &b.SeatID, &b.UserID, &b.OrderID, &b.PriceCents, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
