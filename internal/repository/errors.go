// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// catalog adapter and HTTP handlers to distinguish between different
// failure scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrLocationNotFound is returned when a location lookup yields no rows.
var ErrLocationNotFound = errors.New("location not found")

// ErrScreenNotFound is returned when a screen lookup yields no rows.
var ErrScreenNotFound = errors.New("screen not found")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatTypeNotFound is returned when a seat type lookup yields no rows.
var ErrSeatTypeNotFound = errors.New("seat type not found")

// ErrShowtimeNotFound is returned when a showtime lookup yields no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows or
// when a cancellation targets a booking that is not live.
var ErrBookingNotFound = errors.New("booking not found")
