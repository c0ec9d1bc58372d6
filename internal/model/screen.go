package model

import "time"

// Screen is an auditorium inside a location.  The seat layout of a
// screen is fixed once created; showtimes reference a screen and
// inherit its seating.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – screen label, e.g. "Screen 1" or "IMAX".
//  LocationID – location to which this screen belongs.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
//  DeletedAt  – soft-delete timestamp (nil when not deleted).
type Screen struct {
	ID         uint64     // screens.id
	Name       string     // screens.screen
	LocationID uint64     // screens.location_id
	CreatedAt  time.Time  // screens.created_at
	UpdatedAt  time.Time  // screens.updated_at
	DeletedAt  *time.Time // screens.deleted_at (nullable)
}
