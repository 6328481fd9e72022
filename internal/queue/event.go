// Package queue defines message payloads exchanged over the message
// broker plus the publisher and background consumer for them.
package queue

// BookingConfirmedEvent is published when a reservation of any kind
// (hotel, car, flight) is confirmed.  It carries enough for downstream
// consumers to log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	Kind             string `json:"kind"` // hotel | car | flight
	BookingID        uint64 `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	UserID           uint64 `json:"user_id"`
	ItemID           uint64 `json:"item_id"` // hotel room, car or flight ID
	ItemName         string `json:"item_name"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	ConfirmedAt      string `json:"confirmed_at"`
}
