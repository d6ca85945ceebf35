package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/timeslot"
)

// BookingRepo provides CRUD operations over the `bookings` table.  All
// timestamps are stored in UTC; dates are canonicalized to YYYY-MM-DD.
type BookingRepo struct{ DB *sql.DB }

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = `id, team_name, team_leader, contact, field_id, field_name,
	DATE_FORMAT(date, '%Y-%m-%d'), time_label, price, notes, status,
	created_at, confirmed_at, cancelled_at, cancel_reason, user_id`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	var notes, reason sql.NullString
	var confirmedAt, cancelledAt sql.NullTime
	err := row.Scan(&b.ID, &b.TeamName, &b.TeamLeader, &b.Contact, &b.FieldID, &b.FieldName,
		&b.Date, &b.TimeLabel, &b.Price, &notes, &b.Status,
		&b.CreatedAt, &confirmedAt, &cancelledAt, &reason, &b.UserID)
	if err != nil {
		return model.Booking{}, err
	}
	b.Notes = notes.String
	if confirmedAt.Valid {
		t := confirmedAt.Time
		b.ConfirmedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	if reason.Valid {
		v := reason.String
		b.CancelReason = &v
	}
	return b, nil
}

// Create inserts a booking in pending state and populates the generated
// ID and creation timestamp on the given struct.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.Date = timeslot.CanonicalDate(b.Date)
	b.Status = model.BookingPending
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO bookings (team_name, team_leader, contact, field_id, field_name, date, time_label, price, notes, status, user_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		b.TeamName, b.TeamLeader, b.Contact, b.FieldID, b.FieldName, b.Date,
		b.TimeLabel, b.Price, b.Notes, string(b.Status), b.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM bookings WHERE id=?", b.ID).Scan(&b.CreatedAt)
}

// GetByID fetches a booking by id.  Returns ErrBookingNotFound when
// absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// List returns bookings newest first, optionally filtered by status,
// with limit/offset pagination plus the total count for the filter.
func (r *BookingRepo) List(ctx context.Context, status model.BookingStatus, limit, offset int) ([]model.Booking, int, error) {
	query := "SELECT " + bookingColumns + " FROM bookings"
	countQuery := "SELECT COUNT(*) FROM bookings"
	args := []any{}
	countArgs := []any{}
	if status != "" {
		query += " WHERE status=?"
		countQuery += " WHERE status=?"
		args = append(args, string(status))
		countArgs = append(countArgs, string(status))
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListByUser returns a user's bookings newest first, optionally filtered
// by status, with pagination plus the total count.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status model.BookingStatus, limit, offset int) ([]model.Booking, int, error) {
	query := "SELECT " + bookingColumns + " FROM bookings WHERE user_id=?"
	countQuery := "SELECT COUNT(*) FROM bookings WHERE user_id=?"
	args := []any{userID}
	countArgs := []any{userID}
	if status != "" {
		query += " AND status=?"
		countQuery += " AND status=?"
		args = append(args, string(status))
		countArgs = append(countArgs, string(status))
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// HasConfirmed reports whether a confirmed booking already exists for
// the (field, date, time) triple.  This read-then-write check is the
// sole guard against double booking; two near-simultaneous creates can
// both pass it and land as pending.
func (r *BookingRepo) HasConfirmed(ctx context.Context, fieldID uint64, date, timeLabel string) (bool, error) {
	date = timeslot.CanonicalDate(date)
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE field_id=? AND date=? AND time_label=? AND status=? LIMIT 1`,
		fieldID, date, timeLabel, string(model.BookingConfirmed)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateMeta patches the booking's editable metadata without touching
// its lifecycle state.
func (r *BookingRepo) UpdateMeta(ctx context.Context, id uint64, teamName, teamLeader, contact, notes string, price int64) (model.Booking, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET team_name=?, team_leader=?, contact=?, notes=?, price=? WHERE id=?",
		teamName, teamLeader, contact, notes, price, id)
	if err != nil {
		return model.Booking{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return model.Booking{}, getErr
		}
	}
	return r.GetByID(ctx, id)
}

// MarkConfirmed sets the booking to confirmed with the given timestamp.
func (r *BookingRepo) MarkConfirmed(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=?, confirmed_at=? WHERE id=?",
		string(model.BookingConfirmed), at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

// MarkCancelled sets the booking to cancelled with a timestamp and reason.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64, at time.Time, reason string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=?, cancelled_at=?, cancel_reason=? WHERE id=?",
		string(model.BookingCancelled), at, reason, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Delete hard-removes a booking row.  Returns ErrBookingNotFound when
// nothing was deleted.  The field-status grid is intentionally left
// untouched; deletion is an administrative correction, not a
// cancellation.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
