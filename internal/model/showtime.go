package model

import "time"

// Showtime is a scheduled screening of a movie on a specific screen.
// The catalog guarantees that showtimes on the same screen never
// overlap in time; the reservation core relies on that invariant and
// never re-checks it.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being screened.
//  LocationID     – location hosting the screening.
//  ScreenID       – screen on which the screening takes place.
//  StartsAt       – when the screening begins (UTC).
//  EndsAt         – when the screening ends (UTC, after StartsAt).
//  BasePriceCents – base seat price in cents before seat-type adjustment.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
//  DeletedAt      – soft-delete timestamp (nil when not deleted).
type Showtime struct {
	ID             uint64     // showtimes.id
	MovieID        uint64     // showtimes.movie_id
	LocationID     uint64     // showtimes.location_id
	ScreenID       uint64     // showtimes.screen_id
	StartsAt       time.Time  // showtimes.start_time
	EndsAt         time.Time  // showtimes.end_time
	BasePriceCents int64      // showtimes.base_price_cents
	CreatedAt      time.Time  // showtimes.created_at
	UpdatedAt      time.Time  // showtimes.updated_at
	DeletedAt      *time.Time // showtimes.deleted_at (nullable)
}
