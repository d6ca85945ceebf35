// Package service implements the booking lifecycle and the
// reconciliation rules that keep a field's per-day slot grid consistent
// with booking state transitions.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/queue"
	"github.com/sanbong/field-booking/internal/repository"
	"github.com/sanbong/field-booking/internal/timeslot"
)

// ErrInvalidTransition is returned when a lifecycle change is requested
// that the state machine does not allow, e.g. cancelling an already
// cancelled booking.  Handlers translate it into a 400 response.
var ErrInvalidTransition = errors.New("invalid booking state transition")

// BookingService owns the booking state machine (pending → confirmed,
// pending → cancelled, confirmed → cancelled) and the slot-grid writes
// each transition implies.  The booking's own status is authoritative;
// the grid is a derived view, so a missed slot match during confirm or
// cancel is logged and tolerated rather than failing the transition.
type BookingService struct {
	bookings  BookingStore
	statuses  FieldStatusStore
	fields    FieldStore
	publisher EventPublisher
}

// NewBookingService constructs a BookingService.  publisher may be nil,
// in which case confirmation events are simply not emitted.
func NewBookingService(bookings BookingStore, statuses FieldStatusStore, fields FieldStore, publisher EventPublisher) *BookingService {
	if bookings == nil || statuses == nil || fields == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{bookings: bookings, statuses: statuses, fields: fields, publisher: publisher}
}

// EnsureDay guarantees a slot grid exists for (fieldID, date) and
// reports whether this call created it.  A new grid is instantiated
// from the field's template, falling back to the standard eight-slot
// grid at the field's base price when the field has no template.
func (s *BookingService) EnsureDay(ctx context.Context, fieldID uint64, date string) (model.FieldStatus, bool, error) {
	date = timeslot.CanonicalDate(date)
	fs, err := s.statuses.GetByFieldAndDate(ctx, fieldID, date)
	if err == nil {
		return fs, false, nil
	}
	if !errors.Is(err, repository.ErrStatusRecordNotFound) {
		return model.FieldStatus{}, false, err
	}

	field, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		return model.FieldStatus{}, false, err
	}
	entries, err := s.fields.Template(ctx, fieldID)
	if err != nil {
		return model.FieldStatus{}, false, err
	}
	var slots []model.TimeSlot
	if len(entries) > 0 {
		slots = timeslot.FromTemplate(entries)
	} else {
		slots = timeslot.DefaultTemplate(field.Price)
	}
	return s.statuses.CreateOrUpdate(ctx, fieldID, date, slots)
}

// Create validates and persists a new pending booking.
//
// The only double-booking guard is the read-then-write check against
// confirmed bookings for the same (field, date, time): pending or
// cancelled duplicates are allowed, and two near-simultaneous creates
// can both land as pending.  The day's grid is lazily created so it is
// ready to receive the confirmation, but no slot is marked booked yet.
func (s *BookingService) Create(ctx context.Context, b *model.Booking) error {
	b.Date = timeslot.CanonicalDate(b.Date)

	field, err := s.fields.GetByID(ctx, b.FieldID)
	if err != nil {
		return err
	}
	b.FieldName = field.Name

	taken, err := s.bookings.HasConfirmed(ctx, b.FieldID, b.Date, b.TimeLabel)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrSlotTaken
	}

	if _, _, err := s.EnsureDay(ctx, b.FieldID, b.Date); err != nil {
		return err
	}
	return s.bookings.Create(ctx, b)
}

// Confirm transitions a pending booking to confirmed and marks the
// matching slot booked.
//
// The booking's requested time and each slot label are normalized before
// comparison so "17:00-18:30" finds "17h-18h30".  When no slot matches,
// the confirmation still succeeds and the mismatch is logged: the grid
// is derived state and an operator can repair it through the slot
// endpoint.  Confirming an already confirmed booking is a no-op that
// returns the booking without touching the grid again.
func (s *BookingService) Confirm(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.Status == model.BookingConfirmed {
		return b, nil
	}
	if !b.Status.CanTransitionTo(model.BookingConfirmed) {
		return model.Booking{}, ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := s.bookings.MarkConfirmed(ctx, id, now); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingConfirmed
	b.ConfirmedAt = &now

	s.markSlotBooked(ctx, b)

	if s.publisher != nil {
		// Best-effort; the publisher logs its own failures.
		_ = s.publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
			BookingID:   b.ID,
			UserID:      b.UserID,
			FieldID:     b.FieldID,
			FieldName:   b.FieldName,
			Date:        b.Date,
			TimeLabel:   b.TimeLabel,
			TeamName:    b.TeamName,
			Price:       b.Price,
			ConfirmedAt: now.Format(time.RFC3339),
		})
	}
	return b, nil
}

// markSlotBooked locates the slot whose normalized label matches the
// booking's time and patches it to booked with the team as occupant and
// a back-reference to the booking.  Misses are logged, never fatal.
func (s *BookingService) markSlotBooked(ctx context.Context, b model.Booking) {
	fs, err := s.statuses.GetByFieldAndDate(ctx, b.FieldID, b.Date)
	if err != nil {
		log.Printf("booking %d confirmed but no status record for field=%d date=%s: %v", b.ID, b.FieldID, b.Date, err)
		return
	}
	want := timeslot.Normalize(b.TimeLabel)
	for _, slot := range fs.TimeSlots {
		if timeslot.Normalize(slot.TimeLabel) != want {
			continue
		}
		status := model.SlotBooked
		team := b.TeamName
		bookingID := b.ID
		if _, err := s.statuses.UpdateSlot(ctx, b.FieldID, b.Date, slot.ID, model.SlotPatch{
			Status:    &status,
			BookedBy:  &team,
			BookingID: &bookingID,
		}); err != nil {
			log.Printf("booking %d confirmed but slot %s update failed: %v", b.ID, slot.ID, err)
		}
		return
	}
	log.Printf("booking %d confirmed but no slot matches time %q on field=%d date=%s", b.ID, b.TimeLabel, b.FieldID, b.Date)
}

// Cancel transitions a booking to cancelled, recording the mandatory
// reason, and frees the slot it held.
//
// The slot is located by exact label match against the booking's stored
// time; when found it is reset to available with occupant and booking
// reference cleared.  A miss is tolerated the same way as in Confirm.
func (s *BookingService) Cancel(ctx context.Context, id uint64, reason string) (model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if !b.Status.CanTransitionTo(model.BookingCancelled) {
		return model.Booking{}, ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := s.bookings.MarkCancelled(ctx, id, now, reason); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.BookingCancelled
	b.CancelledAt = &now
	b.CancelReason = &reason

	s.freeSlot(ctx, b)
	return b, nil
}

// freeSlot resets the booking's slot to available.  Exact label match:
// cancellation undoes what the stored label claimed, it does not guess.
func (s *BookingService) freeSlot(ctx context.Context, b model.Booking) {
	fs, err := s.statuses.GetByFieldAndDate(ctx, b.FieldID, b.Date)
	if err != nil {
		log.Printf("booking %d cancelled but no status record for field=%d date=%s: %v", b.ID, b.FieldID, b.Date, err)
		return
	}
	for _, slot := range fs.TimeSlots {
		if slot.TimeLabel != b.TimeLabel {
			continue
		}
		status := model.SlotAvailable
		if _, err := s.statuses.UpdateSlot(ctx, b.FieldID, b.Date, slot.ID, model.SlotPatch{
			Status:       &status,
			ClearBooking: true,
		}); err != nil {
			log.Printf("booking %d cancelled but slot %s update failed: %v", b.ID, slot.ID, err)
		}
		return
	}
	log.Printf("booking %d cancelled but no slot matches time %q on field=%d date=%s", b.ID, b.TimeLabel, b.FieldID, b.Date)
}

// Delete hard-removes a booking without touching the slot grid.  It is
// an administrative correction, not a cancellation; use Cancel to free
// the slot.
func (s *BookingService) Delete(ctx context.Context, id uint64) error {
	return s.bookings.Delete(ctx, id)
}
