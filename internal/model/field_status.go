package model

import "time"

// SlotStatus is the availability state of a single time slot within a
// day's grid.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotBooked      SlotStatus = "booked"
	SlotMaintenance SlotStatus = "maintenance"
)

// Valid reports whether s is a known slot status.
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotAvailable, SlotBooked, SlotMaintenance:
		return true
	}
	return false
}

// TimeSlot is one bookable block inside a FieldStatus record.  Slot IDs
// are UUIDs generated when the grid is instantiated and are unique within
// their record.  BookedBy and BookingID are set only while the slot is
// booked.
//
// Fields:
//  ID        – UUID of the slot, unique within its status record.
//  TimeLabel – slot label as entered, e.g. "17h-18h30".
//  Status    – availability state (available, booked, maintenance).
//  Price     – price for this slot in VND.
//  BookedBy  – team occupying the slot (null when free).
//  BookingID – booking that claimed the slot (null when free).
//  Note      – free-text note, optional.
//  Position  – ordering index within the grid.
type TimeSlot struct {
	ID        string     // field_status_slots.id
	TimeLabel string     // field_status_slots.time_label
	Status    SlotStatus // field_status_slots.status
	Price     int64      // field_status_slots.price
	BookedBy  *string    // field_status_slots.booked_by (nullable)
	BookingID *uint64    // field_status_slots.booking_id (nullable)
	Note      *string    // field_status_slots.note (nullable)
	Position  int        // field_status_slots.position
}

// FieldStatus is the authoritative slot grid of one field on one calendar
// day.  Records spring into existence lazily: the first admin edit or the
// first booking targeting the day creates one from the field's template.
// A (FieldID, Date) pair addresses at most one record.
//
// Fields:
//  ID        – primary key identifier.
//  FieldID   – field this grid belongs to.
//  Date      – calendar day in canonical YYYY-MM-DD form.
//  TimeSlots – ordered slot entries for the day.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type FieldStatus struct {
	ID        uint64     // field_status.id
	FieldID   uint64     // field_status.field_id
	Date      string     // field_status.date (YYYY-MM-DD)
	TimeSlots []TimeSlot // field_status_slots rows ordered by position
	CreatedAt time.Time  // field_status.created_at
	UpdatedAt time.Time  // field_status.updated_at
}

// SlotPatch carries the fields of a slot that may be changed by a status
// update.  Nil pointers leave the corresponding column untouched, which
// lets callers patch a single attribute without rewriting the others.
// ClearBooking additionally resets BookedBy and BookingID to null; it is
// used when a cancellation frees a slot.
type SlotPatch struct {
	Status       *SlotStatus
	BookedBy     *string
	BookingID    *uint64
	Note         *string
	Price        *int64
	ClearBooking bool
}
