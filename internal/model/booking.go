package model

import "time"

// BookingStatus is the lifecycle state of a booking.  The only valid
// transitions are pending→confirmed, pending→cancelled and
// confirmed→cancelled; nothing leaves cancelled.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to
// next.  Setting the same status again is rejected here; callers that
// merely update metadata should not route through a transition.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled
	}
	return false
}

// Booking records one reservation attempt by a team for a field, day and
// time slot.  The booking's own status is authoritative; the slot grid in
// FieldStatus is a derived view kept in sync on confirm/cancel.
//
// Fields:
//  ID           – primary key identifier.
//  TeamName     – name of the booking team.
//  TeamLeader   – name of the team leader.
//  Contact      – phone or email to reach the team.
//  FieldID      – field being booked.
//  FieldName    – field name denormalized at creation time.
//  Date         – booking day in canonical YYYY-MM-DD form.
//  TimeLabel    – requested slot label as entered, e.g. "17h-18h30".
//  Price        – agreed price in VND.
//  Notes        – free-text notes, optional.
//  Status       – lifecycle state (pending, confirmed, cancelled).
//  CreatedAt    – creation timestamp.
//  ConfirmedAt  – when the booking was confirmed (null until then).
//  CancelledAt  – when the booking was cancelled (null until then).
//  CancelReason – mandatory reason recorded on cancellation.
//  UserID       – user who created the booking.
type Booking struct {
	ID           uint64        // bookings.id
	TeamName     string        // bookings.team_name
	TeamLeader   string        // bookings.team_leader
	Contact      string        // bookings.contact
	FieldID      uint64        // bookings.field_id
	FieldName    string        // bookings.field_name
	Date         string        // bookings.date (YYYY-MM-DD)
	TimeLabel    string        // bookings.time_label
	Price        int64         // bookings.price
	Notes        string        // bookings.notes
	Status       BookingStatus // bookings.status
	CreatedAt    time.Time     // bookings.created_at
	ConfirmedAt  *time.Time    // bookings.confirmed_at (nullable)
	CancelledAt  *time.Time    // bookings.cancelled_at (nullable)
	CancelReason *string       // bookings.cancel_reason (nullable)
	UserID       uint64        // bookings.user_id
}
