package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
	"github.com/sanbong/field-booking/internal/service"
	"github.com/sanbong/field-booking/internal/timeslot"
)

// FieldStatusHandler exposes the per-day slot grids.  Reads are public;
// grid and slot edits are for admins and managers.
type FieldStatusHandler struct {
	Svc      *service.BookingService
	Statuses *repository.FieldStatusRepo
}

func NewFieldStatusHandler(svc *service.BookingService, s *repository.FieldStatusRepo) *FieldStatusHandler {
	return &FieldStatusHandler{Svc: svc, Statuses: s}
}

type slotResp struct {
	ID        string  `json:"id"`
	TimeLabel string  `json:"time"`
	Status    string  `json:"status"`
	Price     int64   `json:"price"`
	BookedBy  *string `json:"bookedBy,omitempty"`
	BookingID *uint64 `json:"bookingId,omitempty"`
	Note      *string `json:"note,omitempty"`
}

type fieldStatusResp struct {
	ID        uint64     `json:"id"`
	FieldID   uint64     `json:"fieldId"`
	Date      string     `json:"date"`
	TimeSlots []slotResp `json:"timeSlots"`
}

func toFieldStatusResp(fs model.FieldStatus) fieldStatusResp {
	slots := make([]slotResp, 0, len(fs.TimeSlots))
	for _, s := range fs.TimeSlots {
		slots = append(slots, slotResp{
			ID:        s.ID,
			TimeLabel: s.TimeLabel,
			Status:    string(s.Status),
			Price:     s.Price,
			BookedBy:  s.BookedBy,
			BookingID: s.BookingID,
			Note:      s.Note,
		})
	}
	return fieldStatusResp{ID: fs.ID, FieldID: fs.FieldID, Date: fs.Date, TimeSlots: slots}
}

// validDate enforces the canonical YYYY-MM-DD path format.
func validDate(s string) bool {
	_, err := time.Parse(timeslot.DateLayout, s)
	return err == nil
}

// ListByDate returns every field's grid for one day.  Public.
func (h *FieldStatusHandler) ListByDate(c echo.Context) error {
	date := c.Param("date")
	if !validDate(date) {
		return respond(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	statuses, err := h.Statuses.ListByDate(ctx, date)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to load field status", nil)
	}
	out := make([]fieldStatusResp, 0, len(statuses))
	for _, fs := range statuses {
		out = append(out, toFieldStatusResp(fs))
	}
	return respond(c, http.StatusOK, "field status", out)
}

// Get returns one field's grid for one day, creating it from the
// field's template when it does not exist yet.  Public.
func (h *FieldStatusHandler) Get(c echo.Context) error {
	fieldID, ok := paramID(c, "fieldId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid field id", nil)
	}
	date := c.Param("date")
	if !validDate(date) {
		return respond(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	fs, _, err := h.Svc.EnsureDay(ctx, fieldID, date)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return respond(c, http.StatusNotFound, "field not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load field status", nil)
	}
	return respond(c, http.StatusOK, "field status", toFieldStatusResp(fs))
}

type putSlotsReq struct {
	TimeSlots []struct {
		ID        string  `json:"id"`
		TimeLabel string  `json:"time"`
		Status    string  `json:"status"`
		Price     int64   `json:"price"`
		BookedBy  *string `json:"bookedBy"`
		BookingID *uint64 `json:"bookingId"`
		Note      *string `json:"note"`
	} `json:"timeSlots"`
}

// Put creates or replaces a day's grid.  Sending no slots leaves an
// existing record untouched and instantiates a missing one from the
// field's template.  Admin and manager only.
func (h *FieldStatusHandler) Put(c echo.Context) error {
	fieldID, ok := paramID(c, "fieldId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid field id", nil)
	}
	date := c.Param("date")
	if !validDate(date) {
		return respond(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
	}
	var req putSlotsReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}

	slots := make([]model.TimeSlot, 0, len(req.TimeSlots))
	for i, s := range req.TimeSlots {
		status := model.SlotStatus(s.Status)
		if status == "" {
			status = model.SlotAvailable
		}
		if !status.Valid() {
			return respond(c, http.StatusBadRequest, "invalid slot status", nil)
		}
		slots = append(slots, model.TimeSlot{
			ID:        s.ID,
			TimeLabel: s.TimeLabel,
			Status:    status,
			Price:     s.Price,
			BookedBy:  s.BookedBy,
			BookingID: s.BookingID,
			Note:      s.Note,
			Position:  i,
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	var (
		fs      model.FieldStatus
		created bool
		err     error
	)
	if len(slots) == 0 {
		// No slots supplied: an existing record stays untouched, and a
		// missing one is instantiated from the field's template rather
		// than created empty.
		fs, created, err = h.Svc.EnsureDay(ctx, fieldID, date)
	} else {
		fs, created, err = h.Statuses.CreateOrUpdate(ctx, fieldID, date, slots)
	}
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return respond(c, http.StatusNotFound, "field not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to save field status", nil)
	}
	status := http.StatusOK
	message := "field status updated"
	if created {
		status = http.StatusCreated
		message = "field status created"
	}
	return respond(c, status, message, toFieldStatusResp(fs))
}

type patchSlotReq struct {
	Status    *string `json:"status"`
	BookedBy  *string `json:"bookedBy"`
	BookingID *uint64 `json:"bookingId"`
	Note      *string `json:"note"`
	Price     *int64  `json:"price"`
}

// PutSlot patches a single slot in place.  Only the fields present in
// the body change; setting status to available clears the occupant and
// booking reference.  Admin and manager only.
func (h *FieldStatusHandler) PutSlot(c echo.Context) error {
	fieldID, ok := paramID(c, "fieldId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid field id", nil)
	}
	date := c.Param("date")
	if !validDate(date) {
		return respond(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
	}
	slotID := c.Param("slotId")
	if slotID == "" {
		return respond(c, http.StatusBadRequest, "invalid slot id", nil)
	}
	var req patchSlotReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}

	patch := model.SlotPatch{
		BookedBy:  req.BookedBy,
		BookingID: req.BookingID,
		Note:      req.Note,
		Price:     req.Price,
	}
	if req.Status != nil {
		status := model.SlotStatus(*req.Status)
		if !status.Valid() {
			return respond(c, http.StatusBadRequest, "invalid slot status", nil)
		}
		patch.Status = &status
		if status == model.SlotAvailable {
			patch.ClearBooking = true
		}
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	fs, err := h.Statuses.UpdateSlot(ctx, fieldID, date, slotID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrStatusRecordNotFound) {
			return respond(c, http.StatusNotFound, "field status or slot not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to update slot", nil)
	}
	return respond(c, http.StatusOK, "slot updated", toFieldStatusResp(fs))
}
