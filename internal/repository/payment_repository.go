package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sanbong/field-booking/internal/model"
)

// PaymentRepo provides CRUD operations over the `payments` table.
type PaymentRepo struct{ DB *sql.DB }

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentColumns = "id, booking_id, user_id, type, amount, method, status, transaction_id, created_at, updated_at"

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	var txID sql.NullString
	err := row.Scan(&p.ID, &p.BookingID, &p.UserID, &p.Type, &p.Amount,
		&p.Method, &p.Status, &txID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Payment{}, err
	}
	if txID.Valid {
		v := txID.String
		p.TransactionID = &v
	}
	return p, nil
}

// Create inserts a payment and populates the generated ID.  A deposit
// is refused with ErrDepositPaid when the booking already carries a
// non-failed one.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	if p.Type == model.PaymentDeposit {
		taken, err := r.HasDeposit(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDepositPaid
		}
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO payments (booking_id, user_id, type, amount, method, status, transaction_id)
		 VALUES (?,?,?,?,?,?,?)`,
		p.BookingID, p.UserID, string(p.Type), p.Amount, string(p.Method),
		string(p.Status), p.TransactionID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a payment by id.  Returns ErrPaymentNotFound when
// absent.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id=? LIMIT 1", id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// List returns payments newest first with optional status/type/method
// filters, plus the total count for the same filter.
func (r *PaymentRepo) List(ctx context.Context, status model.PaymentStatus, ptype model.PaymentType, method model.PaymentMethod, limit, offset int) ([]model.Payment, int, error) {
	where := ""
	args := []any{}
	add := func(cond string, v any) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
		args = append(args, v)
	}
	if status != "" {
		add("status=?", string(status))
	}
	if ptype != "" {
		add("type=?", string(ptype))
	}
	if method != "" {
		add("method=?", string(method))
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments"+where+" ORDER BY created_at DESC LIMIT ? OFFSET ?",
		append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM payments"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// ListByBooking returns all payments of a booking, oldest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE booking_id=? ORDER BY created_at", bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// HasDeposit reports whether a non-failed deposit already exists for the
// booking.
func (r *PaymentRepo) HasDeposit(ctx context.Context, bookingID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM payments WHERE booking_id=? AND type=? AND status<>? LIMIT 1",
		bookingID, string(model.PaymentDeposit), string(model.PaymentFailed)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateStatus sets a payment's processing state and optionally records
// the external transaction reference.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status model.PaymentStatus, transactionID *string) (model.Payment, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE payments SET status=?, transaction_id=COALESCE(?, transaction_id), updated_at=NOW() WHERE id=?",
		string(status), transactionID, id)
	if err != nil {
		return model.Payment{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return model.Payment{}, getErr
		}
	}
	return r.GetByID(ctx, id)
}
