// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when an order's holds are converted
// into bookings.  It carries enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type BookingConfirmedEvent struct {
	BookingRef   string   `json:"booking_ref"`
	OrderID      string   `json:"order_id"`
	UserID       uint64   `json:"user_id"`
	ShowtimeID   uint64   `json:"showtime_id"`
	MovieName    string   `json:"movie"`
	LocationName string   `json:"location"`
	ScreenName   string   `json:"screen"`
	StartsAt     string   `json:"starts_at"`
	SeatLabels   []string `json:"seats"`
	TotalCents   int64    `json:"total_cents"`
	ConfirmedAt  string   `json:"confirmed_at"`
}
