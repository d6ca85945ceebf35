package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
	"github.com/sanbong/field-booking/internal/service"
	"github.com/sanbong/field-booking/internal/timeslot"
)

type stubBookingStore struct{ mock.Mock }

func (m *stubBookingStore) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *stubBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Booking), args.Error(1)
}

func (m *stubBookingStore) HasConfirmed(ctx context.Context, fieldID uint64, date, timeLabel string) (bool, error) {
	args := m.Called(ctx, fieldID, date, timeLabel)
	return args.Bool(0), args.Error(1)
}

func (m *stubBookingStore) MarkConfirmed(ctx context.Context, id uint64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *stubBookingStore) MarkCancelled(ctx context.Context, id uint64, at time.Time, reason string) error {
	return m.Called(ctx, id, at, reason).Error(0)
}

func (m *stubBookingStore) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type stubFieldStatusStore struct{ mock.Mock }

func (m *stubFieldStatusStore) GetByFieldAndDate(ctx context.Context, fieldID uint64, date string) (model.FieldStatus, error) {
	args := m.Called(ctx, fieldID, date)
	return args.Get(0).(model.FieldStatus), args.Error(1)
}

func (m *stubFieldStatusStore) CreateOrUpdate(ctx context.Context, fieldID uint64, date string, slots []model.TimeSlot) (model.FieldStatus, bool, error) {
	args := m.Called(ctx, fieldID, date, slots)
	return args.Get(0).(model.FieldStatus), args.Bool(1), args.Error(2)
}

func (m *stubFieldStatusStore) UpdateSlot(ctx context.Context, fieldID uint64, date, slotID string, patch model.SlotPatch) (model.FieldStatus, error) {
	args := m.Called(ctx, fieldID, date, slotID, patch)
	return args.Get(0).(model.FieldStatus), args.Error(1)
}

type stubFieldStore struct{ mock.Mock }

func (m *stubFieldStore) GetByID(ctx context.Context, id uint64) (model.Field, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Field), args.Error(1)
}

func (m *stubFieldStore) Template(ctx context.Context, fieldID uint64) ([]model.TemplateSlot, error) {
	args := m.Called(ctx, fieldID)
	if v := args.Get(0); v != nil {
		return v.([]model.TemplateSlot), args.Error(1)
	}
	return nil, args.Error(1)
}

type fieldStatusEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    fieldStatusResp `json:"data"`
}

func putFieldStatusRequest(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/field-status/7/2026-09-01", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("fieldId", "date")
	c.SetParamValues("7", "2026-09-01")
	return c, rec
}

// An empty timeSlots payload on a day with no record must build the
// grid from the field's template, never persist an empty one.
func TestPutEmptySlotsBuildsDefaultGrid(t *testing.T) {
	statuses := new(stubFieldStatusStore)
	fields := new(stubFieldStore)
	bookings := new(stubBookingStore)

	statuses.On("GetByFieldAndDate", mock.Anything, uint64(7), "2026-09-01").
		Return(model.FieldStatus{}, repository.ErrStatusRecordNotFound).Once()
	fields.On("GetByID", mock.Anything, uint64(7)).
		Return(model.Field{ID: 7, Name: "San 7A", Price: 250000}, nil).Once()
	fields.On("Template", mock.Anything, uint64(7)).Return(nil, nil).Once()

	created := model.FieldStatus{
		ID:        31,
		FieldID:   7,
		Date:      "2026-09-01",
		TimeSlots: timeslot.DefaultTemplate(250000),
	}
	statuses.On("CreateOrUpdate", mock.Anything, uint64(7), "2026-09-01",
		mock.MatchedBy(func(slots []model.TimeSlot) bool { return len(slots) == 8 })).
		Return(created, true, nil).Once()

	h := NewFieldStatusHandler(service.NewBookingService(bookings, statuses, fields, nil), nil)
	c, rec := putFieldStatusRequest(t, `{"timeSlots":[]}`)

	require.NoError(t, h.Put(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var out fieldStatusEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "field status created", out.Message)
	assert.Len(t, out.Data.TimeSlots, 8)
	for _, s := range out.Data.TimeSlots {
		assert.Equal(t, string(model.SlotAvailable), s.Status)
		assert.Equal(t, int64(250000), s.Price)
	}

	statuses.AssertExpectations(t)
	fields.AssertExpectations(t)
}

// An empty timeSlots payload on an existing record must not rewrite its
// slot list.
func TestPutEmptySlotsLeavesExistingGridAlone(t *testing.T) {
	statuses := new(stubFieldStatusStore)
	fields := new(stubFieldStore)
	bookings := new(stubBookingStore)

	user := "user-9"
	existing := model.FieldStatus{
		ID:      31,
		FieldID: 7,
		Date:    "2026-09-01",
		TimeSlots: []model.TimeSlot{
			{ID: "s1", TimeLabel: "8h-9h30", Status: model.SlotAvailable, Price: 250000, Position: 0},
			{ID: "s2", TimeLabel: "9h30-11h", Status: model.SlotBooked, Price: 250000, BookedBy: &user, Position: 1},
		},
	}
	statuses.On("GetByFieldAndDate", mock.Anything, uint64(7), "2026-09-01").
		Return(existing, nil).Once()

	h := NewFieldStatusHandler(service.NewBookingService(bookings, statuses, fields, nil), nil)
	c, rec := putFieldStatusRequest(t, `{}`)

	require.NoError(t, h.Put(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var out fieldStatusEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "field status updated", out.Message)
	require.Len(t, out.Data.TimeSlots, 2)
	assert.Equal(t, string(model.SlotBooked), out.Data.TimeSlots[1].Status)
	require.NotNil(t, out.Data.TimeSlots[1].BookedBy)
	assert.Equal(t, "user-9", *out.Data.TimeSlots[1].BookedBy)

	statuses.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	statuses.AssertExpectations(t)
}
