package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
)

// PaymentHandler records deposits and payments against bookings.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
	Bookings *repository.BookingRepo
}

func NewPaymentHandler(p *repository.PaymentRepo, b *repository.BookingRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p, Bookings: b}
}

type depositReq struct {
	BookingID     uint64  `json:"bookingId"`
	Amount        int64   `json:"amount"`
	Method        string  `json:"method"`
	TransactionID *string `json:"transactionId"`
}

type updatePaymentReq struct {
	Status        string  `json:"status"`
	TransactionID *string `json:"transactionId"`
}

type paymentResp struct {
	ID            uint64    `json:"id"`
	BookingID     uint64    `json:"bookingId"`
	UserID        uint64    `json:"userId"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID *string   `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toPaymentResp(p model.Payment) paymentResp {
	return paymentResp{
		ID:            p.ID,
		BookingID:     p.BookingID,
		UserID:        p.UserID,
		Type:          string(p.Type),
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}

// List returns all payments with optional status/type/method filters.
// Admin and manager only.
func (h *PaymentHandler) List(c echo.Context) error {
	status := model.PaymentStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return respond(c, http.StatusBadRequest, "invalid status filter", nil)
	}
	ptype := model.PaymentType(c.QueryParam("type"))
	if ptype != "" && !ptype.Valid() {
		return respond(c, http.StatusBadRequest, "invalid type filter", nil)
	}
	method := model.PaymentMethod(c.QueryParam("method"))
	if method != "" && !method.Valid() {
		return respond(c, http.StatusBadRequest, "invalid method filter", nil)
	}
	page, limit, offset := queryPage(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	payments, total, err := h.Payments.List(ctx, status, ptype, method, limit, offset)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list payments", nil)
	}
	out := make([]paymentResp, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResp(p))
	}
	return respond(c, http.StatusOK, "payments", echo.Map{
		"payments":   out,
		"pagination": newPagination(total, limit, page),
	})
}

// Get returns one payment.  Owners see their own; staff see all.
func (h *PaymentHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "paymentId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid payment id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return respond(c, http.StatusNotFound, "payment not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load payment", nil)
	}
	if !isStaff(c) && p.UserID != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}
	return respond(c, http.StatusOK, "payment", toPaymentResp(p))
}

// ListByBooking returns the payments recorded against one booking.
func (h *PaymentHandler) ListByBooking(c echo.Context) error {
	bookingID, ok := paramID(c, "bookingId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid booking id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respond(c, http.StatusNotFound, "booking not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load booking", nil)
	}
	if !isStaff(c) && b.UserID != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}

	payments, err := h.Payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list payments", nil)
	}
	out := make([]paymentResp, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResp(p))
	}
	return respond(c, http.StatusOK, "payments", out)
}

// Deposit records a deposit payment for a booking.  A booking carries
// at most one non-failed deposit.
func (h *PaymentHandler) Deposit(c echo.Context) error {
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	if req.BookingID == 0 || req.Amount <= 0 {
		return respond(c, http.StatusBadRequest, "bookingId and a positive amount are required", nil)
	}
	method := model.PaymentMethod(req.Method)
	if !method.Valid() {
		return respond(c, http.StatusBadRequest, "method must be cash, bank_transfer or credit_card", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return respond(c, http.StatusNotFound, "booking not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load booking", nil)
	}
	if !isStaff(c) && b.UserID != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}

	p := model.Payment{
		BookingID:     req.BookingID,
		UserID:        authUserID(c),
		Type:          model.PaymentDeposit,
		Amount:        req.Amount,
		Method:        method,
		Status:        model.PaymentPending,
		TransactionID: req.TransactionID,
	}
	if err := h.Payments.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDepositPaid) {
			return respond(c, http.StatusBadRequest, "Deposit already paid for this booking", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to record deposit", nil)
	}
	return respond(c, http.StatusCreated, "deposit recorded", toPaymentResp(p))
}

// UpdateStatus moves a payment through its processing states.  Admin
// and manager only.
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	id, ok := paramID(c, "paymentId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid payment id", nil)
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	status := model.PaymentStatus(req.Status)
	if !status.Valid() {
		return respond(c, http.StatusBadRequest, "invalid payment status", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	p, err := h.Payments.UpdateStatus(ctx, id, status, req.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return respond(c, http.StatusNotFound, "payment not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to update payment", nil)
	}
	return respond(c, http.StatusOK, "payment updated", toPaymentResp(p))
}
