// Package ledger implements the concurrency-safe reservation core.
// This file defines the error taxonomy.  Conflicts, missing holds and
// unknown ids are expected business outcomes: they are returned as
// typed errors carrying enough detail for callers to act on, never as
// panics.
package ledger

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned for malformed calls: empty seat sets,
// duplicate seat ids in one call, non-positive TTLs or missing
// user/order identity.  It is a caller error and is never retried.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound is returned when the showtime or one of the seats is
// unknown to the catalog, or when a seat does not belong to the
// showtime's screen.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned when the booking store keeps failing
// after the bounded internal retries.  No partial state is left
// behind: holds survive and the caller may confirm again.
var ErrUnavailable = errors.New("storage unavailable")

// ConflictError reports a failed hold attempt.  SeatIDs lists every
// requested seat that was already held or booked at the time of the
// attempt; none of the requested seats were acquired.
type ConflictError struct {
	SeatIDs []uint64
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("seats already held or booked: %v", e.SeatIDs)
}

// HoldExpiredError reports a failed confirmation.  SeatIDs lists every
// seat that had no active hold owned by the confirming order, either
// because the hold expired or because it never existed.
type HoldExpiredError struct {
	SeatIDs []uint64
}

// Error implements the error interface.
func (e *HoldExpiredError) Error() string {
	return fmt.Sprintf("hold expired or missing for seats: %v", e.SeatIDs)
}
