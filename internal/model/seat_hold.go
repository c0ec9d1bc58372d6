package model

import "time"

// Seat hold states.  A hold starts as SELECTED when the user picks
// seats and becomes RESERVED once checkout begins.  Both states count
// as an active claim on the seat until the hold expires.
const (
	HoldSelected = "SELECTED" // selected_seats.type = "selected"
	HoldReserved = "RESERVED" // selected_seats.type = "reserved"
)

// SeatHold is a time-boxed, provisional claim on a single seat for a
// showtime.  Holds prevent concurrent checkouts from grabbing the
// same seat while a user is still deciding or paying.  At most one
// active hold exists per (showtime, seat) at any instant.
//
// Fields:
//  ShowtimeID – showtime for which the seat is held.
//  SeatID     – seat being held.
//  UserID     – user who placed the hold.
//  OrderID    – checkout session owning the hold.
//  State      – HoldSelected or HoldReserved.
//  ExpiresAt  – when the hold lapses and the seat returns to free.
//  CreatedAt  – when the hold was placed.
type SeatHold struct {
	ShowtimeID uint64    // selected_seats.showtime_id
	SeatID     uint64    // selected_seats.seat_id
	UserID     uint64    // selected_seats.user_id
	OrderID    string    // selected_seats.order_id
	State      string    // selected_seats.type
	ExpiresAt  time.Time // hold expiry deadline
	CreatedAt  time.Time // selected_seats.created_at
}
