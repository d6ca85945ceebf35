// Package repository implements persistence over MySQL for the
// field-booking domain.  This file defines sentinel errors reused across
// the repositories so that handlers can translate failure kinds into
// HTTP status codes without string matching.
package repository

import "errors"

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrFieldNotFound is returned when a field lookup matches no row.
var ErrFieldNotFound = errors.New("field not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrStatusRecordNotFound is returned when no field-status record exists
// for a (field, date) pair, or when a slot id is absent from the day's
// grid.
var ErrStatusRecordNotFound = errors.New("field status not found")

// ErrPaymentNotFound is returned when a payment lookup matches no row.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrApplicationNotFound is returned when a club application lookup
// matches no row.
var ErrApplicationNotFound = errors.New("club application not found")

// ErrSlotTaken is returned when a booking is created for a (field, date,
// time) that already has a confirmed booking.  Handlers translate this
// into a 400 response.
var ErrSlotTaken = errors.New("slot already has a confirmed booking")

// ErrDepositPaid is returned when a deposit payment already exists for a
// booking.  Handlers translate this into a 400 response.
var ErrDepositPaid = errors.New("deposit already paid")

// ErrDuplicate is returned on unique-key violations such as registering
// an email or phone that is already taken.  Handlers should translate
// this into a 409 response.
var ErrDuplicate = errors.New("duplicate entry")
