// Package queue defines message payloads exchanged over the message
// broker plus the background consumer that processes them.
package queue

// BookingConfirmedEvent is published when a booking is confirmed by an
// admin or manager.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	FieldID     uint64 `json:"field_id"`
	FieldName   string `json:"field_name"`
	Date        string `json:"date"`
	TimeLabel   string `json:"time"`
	TeamName    string `json:"team_name"`
	Price       int64  `json:"price"`
	ConfirmedAt string `json:"confirmed_at"`
}
