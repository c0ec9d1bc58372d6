package model

import "time"

// Booking is a confirmed, paid-for seat for a showtime.  Bookings are
// created only by converting an active hold; at most one live booking
// exists per (showtime, seat).  Cancellation is an explicit state
// transition recorded in CancelledAt, after which the pair may be
// rebooked.
//
// Fields:
//  ID          – primary key identifier.
//  Ref         – external booking reference shared by all seats
//                confirmed in one checkout.
//  MovieID     – movie of the booked showtime (denormalised for tickets).
//  ShowtimeID  – showtime being booked.
//  SeatID      – booked seat.
//  UserID      – user who owns the booking.
//  OrderID     – checkout session that produced the booking.
//  PriceCents  – price paid for this seat in cents.
//  CreatedAt   – when the booking was confirmed.
//  CancelledAt – cancellation timestamp (nil while the booking is live).
type Booking struct {
	ID          uint64     // user_bookings.id
	Ref         string     // user_bookings.booking_ref
	MovieID     uint64     // user_bookings.movie_id
	ShowtimeID  uint64     // user_bookings.showtime_id
	SeatID      uint64     // user_bookings.seat_id
	UserID      uint64     // user_bookings.user_id
	OrderID     string     // user_bookings.order_id
	PriceCents  int64      // user_bookings.price
	CreatedAt   time.Time  // user_bookings.created_at
	CancelledAt *time.Time // user_bookings.deleted_at (nullable)
}
