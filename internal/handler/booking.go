package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
	"github.com/sanbong/field-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle.  State transitions go
// through the service; plain reads hit the repository directly.
type BookingHandler struct {
	Svc      *service.BookingService
	Bookings *repository.BookingRepo
}

func NewBookingHandler(svc *service.BookingService, b *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Svc: svc, Bookings: b}
}

type createBookingReq struct {
	TeamName   string `json:"teamName"`
	TeamLeader string `json:"teamLeader"`
	Contact    string `json:"contact"`
	FieldID    uint64 `json:"fieldId"`
	Date       string `json:"date"`
	TimeLabel  string `json:"time"`
	Price      int64  `json:"price"`
	Notes      string `json:"notes"`
}

type updateBookingReq struct {
	TeamName   string `json:"teamName"`
	TeamLeader string `json:"teamLeader"`
	Contact    string `json:"contact"`
	Notes      string `json:"notes"`
	Price      int64  `json:"price"`
}

type cancelBookingReq struct {
	Reason string `json:"reason"`
}

type bookingResp struct {
	ID           uint64     `json:"id"`
	TeamName     string     `json:"teamName"`
	TeamLeader   string     `json:"teamLeader,omitempty"`
	Contact      string     `json:"contact,omitempty"`
	FieldID      uint64     `json:"fieldId"`
	FieldName    string     `json:"fieldName"`
	Date         string     `json:"date"`
	TimeLabel    string     `json:"time"`
	Price        int64      `json:"price"`
	Notes        string     `json:"notes,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CancelReason *string    `json:"cancelReason,omitempty"`
	UserID       uint64     `json:"userId"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:           b.ID,
		TeamName:     b.TeamName,
		TeamLeader:   b.TeamLeader,
		Contact:      b.Contact,
		FieldID:      b.FieldID,
		FieldName:    b.FieldName,
		Date:         b.Date,
		TimeLabel:    b.TimeLabel,
		Price:        b.Price,
		Notes:        b.Notes,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		ConfirmedAt:  b.ConfirmedAt,
		CancelledAt:  b.CancelledAt,
		CancelReason: b.CancelReason,
		UserID:       b.UserID,
	}
}

func bookingList(bookings []model.Booking) []bookingResp {
	out := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResp(b))
	}
	return out
}

// parseStatusFilter validates the optional ?status= query value.
func parseStatusFilter(c echo.Context) (model.BookingStatus, bool) {
	s := model.BookingStatus(c.QueryParam("status"))
	if s == "" || s.Valid() {
		return s, true
	}
	return "", false
}

func isStaff(c echo.Context) bool {
	role := authRole(c)
	return role == string(model.RoleAdmin) || role == string(model.RoleManager)
}

// List returns all bookings, paginated and optionally filtered by
// status.  Admin and manager only.
func (h *BookingHandler) List(c echo.Context) error {
	status, ok := parseStatusFilter(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid status filter", nil)
	}
	page, limit, offset := queryPage(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	bookings, total, err := h.Bookings.List(ctx, status, limit, offset)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list bookings", nil)
	}
	return respond(c, http.StatusOK, "bookings", echo.Map{
		"bookings":   bookingList(bookings),
		"pagination": newPagination(total, limit, page),
	})
}

// Get returns one booking.  Owners see their own; staff see all.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid booking id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respond(c, http.StatusNotFound, "booking not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load booking", nil)
	}
	if !isStaff(c) && b.UserID != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}
	return respond(c, http.StatusOK, "booking", toBookingResp(b))
}

// ListByUser returns a user's bookings.  Users may only list their own;
// staff may list anyone's.
func (h *BookingHandler) ListByUser(c echo.Context) error {
	uid, ok := paramID(c, "userId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid user id", nil)
	}
	if !isStaff(c) && uid != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}
	status, ok := parseStatusFilter(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid status filter", nil)
	}
	page, limit, offset := queryPage(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	bookings, total, err := h.Bookings.ListByUser(ctx, uid, status, limit, offset)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list bookings", nil)
	}
	return respond(c, http.StatusOK, "bookings", echo.Map{
		"bookings":   bookingList(bookings),
		"pagination": newPagination(total, limit, page),
	})
}

// Create registers a pending booking for the authenticated user.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	req.TeamName = strings.TrimSpace(req.TeamName)
	if req.TeamName == "" || req.FieldID == 0 || req.Date == "" || req.TimeLabel == "" {
		return respond(c, http.StatusBadRequest, "teamName, fieldId, date and time are required", nil)
	}

	b := model.Booking{
		TeamName:   req.TeamName,
		TeamLeader: req.TeamLeader,
		Contact:    req.Contact,
		FieldID:    req.FieldID,
		Date:       req.Date,
		TimeLabel:  req.TimeLabel,
		Price:      req.Price,
		Notes:      req.Notes,
		UserID:     authUserID(c),
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Svc.Create(ctx, &b); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return respond(c, http.StatusBadRequest, "this slot already has a confirmed booking", nil)
		case errors.Is(err, repository.ErrFieldNotFound):
			return respond(c, http.StatusNotFound, "field not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to create booking", nil)
	}
	return respond(c, http.StatusCreated, "booking created", toBookingResp(b))
}

// Update edits booking metadata without touching its lifecycle state.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid booking id", nil)
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	existing, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respond(c, http.StatusNotFound, "booking not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load booking", nil)
	}
	if !isStaff(c) && existing.UserID != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}

	b, err := h.Bookings.UpdateMeta(ctx, id, req.TeamName, req.TeamLeader, req.Contact, req.Notes, req.Price)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to update booking", nil)
	}
	return respond(c, http.StatusOK, "booking updated", toBookingResp(b))
}

// Confirm moves a pending booking to confirmed.  Admin and manager only.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid booking id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Svc.Confirm(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return respond(c, http.StatusNotFound, "booking not found", nil)
		case errors.Is(err, service.ErrInvalidTransition):
			return respond(c, http.StatusBadRequest, "booking cannot be confirmed from its current status", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to confirm booking", nil)
	}
	return respond(c, http.StatusOK, "booking confirmed", toBookingResp(b))
}

// Cancel moves a booking to cancelled.  The reason is mandatory.
// Owners may cancel their own bookings; staff may cancel any.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid booking id", nil)
	}
	var req cancelBookingReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return respond(c, http.StatusBadRequest, "cancellation reason is required", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	existing, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respond(c, http.StatusNotFound, "booking not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load booking", nil)
	}
	if !isStaff(c) && existing.UserID != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}

	b, err := h.Svc.Cancel(ctx, id, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			return respond(c, http.StatusBadRequest, "booking is already cancelled", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to cancel booking", nil)
	}
	return respond(c, http.StatusOK, "booking cancelled", toBookingResp(b))
}

// Delete removes the booking row.  The slot grid is left as is; this is
// an administrative correction, not a cancellation.  Admin only.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid booking id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respond(c, http.StatusNotFound, "booking not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to delete booking", nil)
	}
	return respond(c, http.StatusOK, "booking deleted", nil)
}
