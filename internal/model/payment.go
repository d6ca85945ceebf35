package model

import "time"

// PaymentType distinguishes a deposit from full payment of a booking.
type PaymentType string

const (
	PaymentDeposit PaymentType = "deposit"
	PaymentFull    PaymentType = "full"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	return t == PaymentDeposit || t == PaymentFull
}

// PaymentMethod is how the money changed hands.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCreditCard   PaymentMethod = "credit_card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCreditCard:
		return true
	}
	return false
}

// PaymentStatus is the processing state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment records money movement against a booking.  A booking has at
// most one non-failed deposit; attempting a second one is rejected.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking the payment belongs to.
//  UserID        – user who paid.
//  Type          – deposit or full payment.
//  Amount        – amount in VND.
//  Method        – cash, bank_transfer or credit_card.
//  Status        – processing state.
//  TransactionID – external transaction reference, optional.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Payment struct {
	ID            uint64        // payments.id
	BookingID     uint64        // payments.booking_id
	UserID        uint64        // payments.user_id
	Type          PaymentType   // payments.type
	Amount        int64         // payments.amount
	Method        PaymentMethod // payments.method
	Status        PaymentStatus // payments.status
	TransactionID *string       // payments.transaction_id (nullable)
	CreatedAt     time.Time     // payments.created_at
	UpdatedAt     time.Time     // payments.updated_at
}
