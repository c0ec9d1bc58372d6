package model

import "time"

// Seat type premium directions.  ADD raises the price of a seat by
// Percent relative to the showtime base price; SUBTRACT lowers it.
const (
	DirectionAdd      = "ADD"      // seat_types.type = "add"
	DirectionSubtract = "SUBTRACT" // seat_types.type = "subtract"
)

// SeatType classifies seats (standard, VIP, couple, ...) and carries
// the percentage premium or discount applied on top of a showtime's
// base price.  Color and icon are presentation hints for clients.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – type name, e.g. "STANDARD" or "VIP".
//  Color     – optional display color (nil when unset).
//  Icon      – optional display icon (nil when unset).
//  Percent   – premium or discount percentage, e.g. 50 for +50%.
//  Direction – DirectionAdd or DirectionSubtract.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
//  DeletedAt – soft-delete timestamp (nil when not deleted).
type SeatType struct {
	ID        uint64     // seat_types.id
	Name      string     // seat_types.name
	Color     *string    // seat_types.color (nullable)
	Icon      *string    // seat_types.icon (nullable)
	Percent   float64    // seat_types.percent
	Direction string     // seat_types.type
	CreatedAt time.Time  // seat_types.created_at
	UpdatedAt time.Time  // seat_types.updated_at
	DeletedAt *time.Time // seat_types.deleted_at (nullable)
}
