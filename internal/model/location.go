package model

import "time"

// Location is a cinema site.  Each location owns one or more screens
// and hosts showtimes.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the location.
//  Address   – street address.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
//  DeletedAt – soft-delete timestamp (nil when not deleted).
type Location struct {
	ID        uint64     // locations.id
	Name      string     // locations.name
	Address   string     // locations.address
	CreatedAt time.Time  // locations.created_at
	UpdatedAt time.Time  // locations.updated_at
	DeletedAt *time.Time // locations.deleted_at (nullable)
}
