package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/queue"
	"github.com/sanbong/field-booking/internal/repository"
)

type fixture struct {
	bookings  *mockBookingStore
	statuses  *mockFieldStatusStore
	fields    *mockFieldStore
	publisher *mockPublisher
	svc       *BookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings:  &mockBookingStore{},
		statuses:  &mockFieldStatusStore{},
		fields:    &mockFieldStore{},
		publisher: &mockPublisher{},
	}
	f.svc = NewBookingService(f.bookings, f.statuses, f.fields, f.publisher)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.bookings.AssertExpectations(t)
	f.statuses.AssertExpectations(t)
	f.fields.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func grid(fieldID uint64, date string, slots ...model.TimeSlot) model.FieldStatus {
	return model.FieldStatus{ID: 1, FieldID: fieldID, Date: date, TimeSlots: slots}
}

func slot(id, label string, status model.SlotStatus) model.TimeSlot {
	return model.TimeSlot{ID: id, TimeLabel: label, Status: status, Price: 300000}
}

func TestCreateRejectsConfirmedDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fields.On("GetByID", ctx, uint64(3)).Return(model.Field{ID: 3, Name: "Field B"}, nil)
	f.bookings.On("HasConfirmed", ctx, uint64(3), "2026-09-01", "17h-18h30").Return(true, nil)

	b := &model.Booking{FieldID: 3, Date: "2026-09-01", TimeLabel: "17h-18h30", TeamName: "FC Alpha"}
	err := f.svc.Create(ctx, b)
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
	f.assertExpectations(t)
}

func TestCreateAllowsPendingDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fields.On("GetByID", ctx, uint64(3)).Return(model.Field{ID: 3, Name: "Field B", Price: 300000}, nil)
	f.bookings.On("HasConfirmed", ctx, uint64(3), "2026-09-01", "17h-18h30").Return(false, nil)
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(grid(3, "2026-09-01"), nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*model.Booking")).Return(nil)

	b := &model.Booking{FieldID: 3, Date: "2026-09-01", TimeLabel: "17h-18h30", TeamName: "FC Beta"}
	require.NoError(t, f.svc.Create(ctx, b))
	assert.Equal(t, "Field B", b.FieldName, "field name is denormalized onto the booking")
	f.assertExpectations(t)
}

func TestCreateCanonicalizesDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fields.On("GetByID", ctx, uint64(3)).Return(model.Field{ID: 3, Name: "Field B"}, nil)
	f.bookings.On("HasConfirmed", ctx, uint64(3), "2026-09-01", "8h-9h30").Return(false, nil)
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(grid(3, "2026-09-01"), nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*model.Booking")).Return(nil)

	b := &model.Booking{FieldID: 3, Date: "2026-09-01T00:00:00Z", TimeLabel: "8h-9h30"}
	require.NoError(t, f.svc.Create(ctx, b))
	assert.Equal(t, "2026-09-01", b.Date)
	f.assertExpectations(t)
}

func TestCreateLazilyBuildsDayGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fields.On("GetByID", ctx, uint64(3)).Return(model.Field{ID: 3, Name: "Field B", Price: 300000}, nil)
	f.bookings.On("HasConfirmed", ctx, uint64(3), "2026-09-01", "8h-9h30").Return(false, nil)
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(model.FieldStatus{}, repository.ErrStatusRecordNotFound)
	f.fields.On("Template", ctx, uint64(3)).Return(nil, nil)
	f.statuses.On("CreateOrUpdate", ctx, uint64(3), "2026-09-01", mock.MatchedBy(func(slots []model.TimeSlot) bool {
		if len(slots) != 8 {
			return false
		}
		for _, s := range slots {
			if s.Status != model.SlotAvailable || s.Price != 300000 {
				return false
			}
		}
		return slots[0].TimeLabel == "8h-9h30" && slots[7].TimeLabel == "18h30-20h"
	})).Return(grid(3, "2026-09-01"), true, nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*model.Booking")).Return(nil)

	b := &model.Booking{FieldID: 3, Date: "2026-09-01", TimeLabel: "8h-9h30"}
	require.NoError(t, f.svc.Create(ctx, b))
	f.assertExpectations(t)
}

func TestEnsureDayUsesFieldTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.statuses.On("GetByFieldAndDate", ctx, uint64(5), "2026-09-02").
		Return(model.FieldStatus{}, repository.ErrStatusRecordNotFound)
	f.fields.On("GetByID", ctx, uint64(5)).Return(model.Field{ID: 5, Price: 500000}, nil)
	f.fields.On("Template", ctx, uint64(5)).Return([]model.TemplateSlot{
		{FieldID: 5, TimeLabel: "6h-7h30", Price: 250000, Position: 0},
		{FieldID: 5, TimeLabel: "7h30-9h", Price: 250000, Position: 1},
	}, nil)
	f.statuses.On("CreateOrUpdate", ctx, uint64(5), "2026-09-02", mock.MatchedBy(func(slots []model.TimeSlot) bool {
		return len(slots) == 2 && slots[0].TimeLabel == "6h-7h30" && slots[1].Price == 250000
	})).Return(grid(5, "2026-09-02"), true, nil)

	_, created, err := f.svc.EnsureDay(ctx, 5, "2026-09-02")
	require.NoError(t, err)
	assert.True(t, created)
	f.assertExpectations(t)
}

func TestEnsureDayExistingGridUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := grid(5, "2026-09-02", slot("s1", "8h-9h30", model.SlotBooked))
	f.statuses.On("GetByFieldAndDate", ctx, uint64(5), "2026-09-02").Return(existing, nil)

	fs, created, err := f.svc.EnsureDay(ctx, 5, "2026-09-02")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, fs)
	f.assertExpectations(t)
}

func TestConfirmMarksNormalizedMatchingSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := model.Booking{ID: 9, UserID: 2, FieldID: 3, FieldName: "Field B", Date: "2026-09-01",
		TimeLabel: "17:00-18:30", TeamName: "FC Alpha", Price: 300000, Status: model.BookingPending}
	f.bookings.On("GetByID", ctx, uint64(9)).Return(b, nil)
	f.bookings.On("MarkConfirmed", ctx, uint64(9), mock.AnythingOfType("time.Time")).Return(nil)
	// Stored label uses the "17h-18h30" shape; the request carried
	// "17:00-18:30".  Normalization must bridge the two.
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(grid(3, "2026-09-01",
			slot("s1", "15h30-17h", model.SlotAvailable),
			slot("s2", "17h-18h30", model.SlotAvailable)), nil)
	f.statuses.On("UpdateSlot", ctx, uint64(3), "2026-09-01", "s2", mock.MatchedBy(func(p model.SlotPatch) bool {
		return p.Status != nil && *p.Status == model.SlotBooked &&
			p.BookedBy != nil && *p.BookedBy == "FC Alpha" &&
			p.BookingID != nil && *p.BookingID == 9
	})).Return(grid(3, "2026-09-01"), nil)
	f.publisher.On("PublishBookingConfirmed", ctx, mock.MatchedBy(func(e queue.BookingConfirmedEvent) bool {
		return e.BookingID == 9 && e.FieldID == 3 && e.TimeLabel == "17:00-18:30"
	})).Return(nil)

	got, err := f.svc.Confirm(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	f.assertExpectations(t)
}

func TestConfirmAlreadyConfirmedIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := model.Booking{ID: 9, Status: model.BookingConfirmed}
	f.bookings.On("GetByID", ctx, uint64(9)).Return(b, nil)

	got, err := f.svc.Confirm(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)
	// No MarkConfirmed, no grid read, no event.
	f.assertExpectations(t)
}

func TestConfirmCancelledBookingRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, uint64(9)).Return(model.Booking{ID: 9, Status: model.BookingCancelled}, nil)

	_, err := f.svc.Confirm(ctx, 9)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.assertExpectations(t)
}

func TestConfirmToleratesMissingSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := model.Booking{ID: 9, FieldID: 3, Date: "2026-09-01", TimeLabel: "21h-22h30", Status: model.BookingPending}
	f.bookings.On("GetByID", ctx, uint64(9)).Return(b, nil)
	f.bookings.On("MarkConfirmed", ctx, uint64(9), mock.AnythingOfType("time.Time")).Return(nil)
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(grid(3, "2026-09-01", slot("s1", "8h-9h30", model.SlotAvailable)), nil)
	f.publisher.On("PublishBookingConfirmed", ctx, mock.Anything).Return(nil)

	got, err := f.svc.Confirm(ctx, 9)
	require.NoError(t, err, "a grid mismatch must not fail the confirmation")
	assert.Equal(t, model.BookingConfirmed, got.Status)
	f.assertExpectations(t)
}

func TestConfirmToleratesMissingDayGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := model.Booking{ID: 9, FieldID: 3, Date: "2026-09-01", TimeLabel: "8h-9h30", Status: model.BookingPending}
	f.bookings.On("GetByID", ctx, uint64(9)).Return(b, nil)
	f.bookings.On("MarkConfirmed", ctx, uint64(9), mock.AnythingOfType("time.Time")).Return(nil)
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(model.FieldStatus{}, repository.ErrStatusRecordNotFound)
	f.publisher.On("PublishBookingConfirmed", ctx, mock.Anything).Return(nil)

	_, err := f.svc.Confirm(ctx, 9)
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestCancelFreesSlotAndStoresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := model.Booking{ID: 9, FieldID: 3, Date: "2026-09-01", TimeLabel: "8h-9h30",
		TeamName: "FC Alpha", Status: model.BookingConfirmed}
	f.bookings.On("GetByID", ctx, uint64(9)).Return(b, nil)
	f.bookings.On("MarkCancelled", ctx, uint64(9), mock.AnythingOfType("time.Time"), "rain").Return(nil)
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(grid(3, "2026-09-01", slot("s1", "8h-9h30", model.SlotBooked)), nil)
	f.statuses.On("UpdateSlot", ctx, uint64(3), "2026-09-01", "s1", mock.MatchedBy(func(p model.SlotPatch) bool {
		return p.Status != nil && *p.Status == model.SlotAvailable && p.ClearBooking
	})).Return(grid(3, "2026-09-01"), nil)

	got, err := f.svc.Cancel(ctx, 9, "rain")
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	require.NotNil(t, got.CancelReason)
	assert.Equal(t, "rain", *got.CancelReason)
	f.assertExpectations(t)
}

func TestCancelMatchesLabelExactly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The stored label is "8h-9h30" but the grid only carries the
	// normalized form; cancel does not normalize, so no slot is touched.
	b := model.Booking{ID: 9, FieldID: 3, Date: "2026-09-01", TimeLabel: "8h-9h30", Status: model.BookingConfirmed}
	f.bookings.On("GetByID", ctx, uint64(9)).Return(b, nil)
	f.bookings.On("MarkCancelled", ctx, uint64(9), mock.AnythingOfType("time.Time"), "storm").Return(nil)
	f.statuses.On("GetByFieldAndDate", ctx, uint64(3), "2026-09-01").
		Return(grid(3, "2026-09-01", slot("s1", "08:00-09:30", model.SlotBooked)), nil)

	got, err := f.svc.Cancel(ctx, 9, "storm")
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	f.assertExpectations(t)
}

func TestCancelAlreadyCancelledRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, uint64(9)).Return(model.Booking{ID: 9, Status: model.BookingCancelled}, nil)

	_, err := f.svc.Cancel(ctx, 9, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.assertExpectations(t)
}

func TestDeleteLeavesGridAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bookings.On("Delete", ctx, uint64(9)).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, 9))
	// No field-status expectations were set; AssertExpectations would
	// flag any grid access.
	f.assertExpectations(t)
}

func TestConfirmMissingBookingPropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, uint64(404)).Return(model.Booking{}, repository.ErrBookingNotFound)

	_, err := f.svc.Confirm(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
	f.assertExpectations(t)
}
