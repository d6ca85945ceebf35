package service

import (
	"context"
	"time"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/queue"
)

// The store interfaces below are satisfied by the repository types; the
// service depends on them rather than on *sql.DB so the lifecycle logic
// can be tested against mocks.

// BookingStore is the persistence surface the lifecycle logic needs for
// bookings.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	HasConfirmed(ctx context.Context, fieldID uint64, date, timeLabel string) (bool, error)
	MarkConfirmed(ctx context.Context, id uint64, at time.Time) error
	MarkCancelled(ctx context.Context, id uint64, at time.Time, reason string) error
	Delete(ctx context.Context, id uint64) error
}

// FieldStatusStore is the persistence surface for per-day slot grids.
type FieldStatusStore interface {
	GetByFieldAndDate(ctx context.Context, fieldID uint64, date string) (model.FieldStatus, error)
	CreateOrUpdate(ctx context.Context, fieldID uint64, date string, slots []model.TimeSlot) (model.FieldStatus, bool, error)
	UpdateSlot(ctx context.Context, fieldID uint64, date, slotID string, patch model.SlotPatch) (model.FieldStatus, error)
}

// FieldStore is the read surface for field records and their templates.
type FieldStore interface {
	GetByID(ctx context.Context, id uint64) (model.Field, error)
	Template(ctx context.Context, fieldID uint64) ([]model.TemplateSlot, error)
}

// EventPublisher delivers domain events to the message broker.  Delivery
// is best-effort; implementations log their own failures.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}
