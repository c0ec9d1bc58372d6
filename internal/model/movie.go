package model

import "time"

// Movie is a film that can be scheduled for showtimes.  Movies are
// catalog data owned by an external administration surface; this
// service only reads them.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the film.
//  Active    – whether the movie is currently shown to users.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
//  DeletedAt – soft-delete timestamp (nil when not deleted).
type Movie struct {
	ID        uint64     // movies.id
	Name      string     // movies.name
	Active    bool       // movies.movie_status
	CreatedAt time.Time  // movies.created_at
	UpdatedAt time.Time  // movies.updated_at
	DeletedAt *time.Time // movies.deleted_at (nullable)
}
