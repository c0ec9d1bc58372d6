package model

import "time"

// Seat is a physical seat in a screen.  The label is unique within
// the screen and is what appears on a printed ticket, e.g. "A12".
//
// Fields:
//  ID         – primary key identifier.
//  Label      – seat label unique within the screen.
//  ScreenID   – screen to which this seat belongs.
//  SeatTypeID – seat type reference for pricing and display.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
//  DeletedAt  – soft-delete timestamp (nil when not deleted).
type Seat struct {
	ID         uint64     // seats.id
	Label      string     // seats.seat
	ScreenID   uint64     // seats.screen_id
	SeatTypeID uint64     // seats.seat_type_id
	CreatedAt  time.Time  // seats.created_at
	UpdatedAt  time.Time  // seats.updated_at
	DeletedAt  *time.Time // seats.deleted_at (nullable)
}
