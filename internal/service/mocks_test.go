package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/queue"
)

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Booking), args.Error(1)
}

func (m *mockBookingStore) HasConfirmed(ctx context.Context, fieldID uint64, date, timeLabel string) (bool, error) {
	args := m.Called(ctx, fieldID, date, timeLabel)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingStore) MarkConfirmed(ctx context.Context, id uint64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockBookingStore) MarkCancelled(ctx context.Context, id uint64, at time.Time, reason string) error {
	return m.Called(ctx, id, at, reason).Error(0)
}

func (m *mockBookingStore) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockFieldStatusStore struct{ mock.Mock }

func (m *mockFieldStatusStore) GetByFieldAndDate(ctx context.Context, fieldID uint64, date string) (model.FieldStatus, error) {
	args := m.Called(ctx, fieldID, date)
	return args.Get(0).(model.FieldStatus), args.Error(1)
}

func (m *mockFieldStatusStore) CreateOrUpdate(ctx context.Context, fieldID uint64, date string, slots []model.TimeSlot) (model.FieldStatus, bool, error) {
	args := m.Called(ctx, fieldID, date, slots)
	return args.Get(0).(model.FieldStatus), args.Bool(1), args.Error(2)
}

func (m *mockFieldStatusStore) UpdateSlot(ctx context.Context, fieldID uint64, date, slotID string, patch model.SlotPatch) (model.FieldStatus, error) {
	args := m.Called(ctx, fieldID, date, slotID, patch)
	return args.Get(0).(model.FieldStatus), args.Error(1)
}

type mockFieldStore struct{ mock.Mock }

func (m *mockFieldStore) GetByID(ctx context.Context, id uint64) (model.Field, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Field), args.Error(1)
}

func (m *mockFieldStore) Template(ctx context.Context, fieldID uint64) ([]model.TemplateSlot, error) {
	args := m.Called(ctx, fieldID)
	if v := args.Get(0); v != nil {
		return v.([]model.TemplateSlot), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error {
	return m.Called(ctx, event).Error(0)
}
