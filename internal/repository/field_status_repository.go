package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/timeslot"
)

// FieldStatusRepo manages the per-(field, date) slot grids stored in
// `field_status` and `field_status_slots`.  Dates are canonicalized to
// YYYY-MM-DD before every query so string and time.Time callers agree on
// the key.
//
// Slot status changes go through UpdateSlot, which patches exactly one
// slot row in a single UPDATE.  Two concurrent confirmations targeting
// different slots of the same day therefore cannot clobber each other's
// write; only a whole-grid overwrite through CreateOrUpdate replaces the
// slot set wholesale.
type FieldStatusRepo struct{ DB *sql.DB }

// NewFieldStatusRepo returns a FieldStatusRepo bound to the given database.
func NewFieldStatusRepo(db *sql.DB) *FieldStatusRepo { return &FieldStatusRepo{DB: db} }

// GetByFieldAndDate returns the day's grid for a field, slots ordered by
// position.  Returns ErrStatusRecordNotFound when no record exists.
func (r *FieldStatusRepo) GetByFieldAndDate(ctx context.Context, fieldID uint64, date string) (model.FieldStatus, error) {
	date = timeslot.CanonicalDate(date)
	var fs model.FieldStatus
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, field_id, DATE_FORMAT(date, '%Y-%m-%d'), created_at, updated_at
		 FROM field_status WHERE field_id=? AND date=? LIMIT 1`,
		fieldID, date).Scan(&fs.ID, &fs.FieldID, &fs.Date, &fs.CreatedAt, &fs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FieldStatus{}, ErrStatusRecordNotFound
	}
	if err != nil {
		return model.FieldStatus{}, err
	}
	fs.TimeSlots, err = r.loadSlots(ctx, fs.ID)
	return fs, err
}

// ListByDate returns every field's grid for one day.
func (r *FieldStatusRepo) ListByDate(ctx context.Context, date string) ([]model.FieldStatus, error) {
	date = timeslot.CanonicalDate(date)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, field_id, DATE_FORMAT(date, '%Y-%m-%d'), created_at, updated_at
		 FROM field_status WHERE date=? ORDER BY field_id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]model.FieldStatus, 0)
	for rows.Next() {
		var fs model.FieldStatus
		if err := rows.Scan(&fs.ID, &fs.FieldID, &fs.Date, &fs.CreatedAt, &fs.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range records {
		records[i].TimeSlots, err = r.loadSlots(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// CreateOrUpdate ensures a grid exists for (fieldID, date) and reports
// whether it was created by this call.
//
// When no record exists one is created from the given slots.  When a
// record exists, a non-empty slot list overwrites the stored grid
// wholesale; an empty or nil list is an explicit no-op that returns the
// existing record unchanged, so an accidental empty submission cannot
// wipe a day's bookings.  Slots missing an ID are assigned a fresh UUID.
func (r *FieldStatusRepo) CreateOrUpdate(ctx context.Context, fieldID uint64, date string, slots []model.TimeSlot) (model.FieldStatus, bool, error) {
	date = timeslot.CanonicalDate(date)

	existing, err := r.GetByFieldAndDate(ctx, fieldID, date)
	switch {
	case err == nil:
		if len(slots) == 0 {
			return existing, false, nil
		}
		if err := r.replaceSlots(ctx, existing.ID, slots); err != nil {
			return model.FieldStatus{}, false, err
		}
		fs, err := r.GetByFieldAndDate(ctx, fieldID, date)
		return fs, false, err
	case errors.Is(err, ErrStatusRecordNotFound):
		// fall through to insert
	default:
		return model.FieldStatus{}, false, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.FieldStatus{}, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO field_status (field_id, date) VALUES (?,?)", fieldID, date)
	if err != nil {
		// Unique (field_id, date): a concurrent create won the race, reuse its row.
		if strings.Contains(err.Error(), "1062") {
			_ = tx.Rollback()
			committed = true
			fs, err := r.GetByFieldAndDate(ctx, fieldID, date)
			return fs, false, err
		}
		return model.FieldStatus{}, false, err
	}
	statusID, err := res.LastInsertId()
	if err != nil {
		return model.FieldStatus{}, false, err
	}
	if err := insertSlotsTx(ctx, tx, uint64(statusID), slots); err != nil {
		return model.FieldStatus{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return model.FieldStatus{}, false, err
	}
	committed = true
	fs, err := r.GetByFieldAndDate(ctx, fieldID, date)
	return fs, true, err
}

// UpdateSlot merges a patch into one slot of the day's grid and returns
// the refreshed record.  The write is a single UPDATE keyed by slot id,
// so it cannot disturb sibling slots.  Returns ErrStatusRecordNotFound
// when the (field, date) record or the slot id is absent.
func (r *FieldStatusRepo) UpdateSlot(ctx context.Context, fieldID uint64, date, slotID string, patch model.SlotPatch) (model.FieldStatus, error) {
	date = timeslot.CanonicalDate(date)
	var statusID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM field_status WHERE field_id=? AND date=? LIMIT 1",
		fieldID, date).Scan(&statusID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FieldStatus{}, ErrStatusRecordNotFound
	}
	if err != nil {
		return model.FieldStatus{}, err
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if patch.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, string(*patch.Status))
	}
	if patch.ClearBooking {
		sets = append(sets, "booked_by=NULL", "booking_id=NULL")
	} else {
		if patch.BookedBy != nil {
			sets = append(sets, "booked_by=?")
			args = append(args, *patch.BookedBy)
		}
		if patch.BookingID != nil {
			sets = append(sets, "booking_id=?")
			args = append(args, *patch.BookingID)
		}
	}
	if patch.Note != nil {
		sets = append(sets, "note=?")
		args = append(args, *patch.Note)
	}
	if patch.Price != nil {
		sets = append(sets, "price=?")
		args = append(args, *patch.Price)
	}
	if len(sets) > 0 {
		args = append(args, statusID, slotID)
		res, err := r.DB.ExecContext(ctx,
			"UPDATE field_status_slots SET "+strings.Join(sets, ", ")+" WHERE field_status_id=? AND id=?",
			args...)
		if err != nil {
			return model.FieldStatus{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Affected 0 also happens when the patch equals current values;
			// distinguish by checking the slot exists at all.
			var exists int
			err := r.DB.QueryRowContext(ctx,
				"SELECT 1 FROM field_status_slots WHERE field_status_id=? AND id=? LIMIT 1",
				statusID, slotID).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return model.FieldStatus{}, ErrStatusRecordNotFound
			}
			if err != nil {
				return model.FieldStatus{}, err
			}
		}
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE field_status SET updated_at=NOW() WHERE id=?", statusID); err != nil {
			return model.FieldStatus{}, err
		}
	}
	return r.GetByFieldAndDate(ctx, fieldID, date)
}

// replaceSlots overwrites the slot set of an existing record wholesale.
func (r *FieldStatusRepo) replaceSlots(ctx context.Context, statusID uint64, slots []model.TimeSlot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM field_status_slots WHERE field_status_id=?", statusID); err != nil {
		return err
	}
	if err := insertSlotsTx(ctx, tx, statusID, slots); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE field_status SET updated_at=NOW() WHERE id=?", statusID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func insertSlotsTx(ctx context.Context, tx *sql.Tx, statusID uint64, slots []model.TimeSlot) error {
	for i, s := range slots {
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}
		status := s.Status
		if status == "" {
			status = model.SlotAvailable
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO field_status_slots (id, field_status_id, time_label, status, price, booked_by, booking_id, note, position)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			id, statusID, s.TimeLabel, string(status), s.Price, s.BookedBy, s.BookingID, s.Note, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *FieldStatusRepo) loadSlots(ctx context.Context, statusID uint64) ([]model.TimeSlot, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, time_label, status, price, booked_by, booking_id, note, position
		 FROM field_status_slots WHERE field_status_id=? ORDER BY position`, statusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		var bookedBy, note sql.NullString
		var bookingID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.TimeLabel, &s.Status, &s.Price, &bookedBy, &bookingID, &note, &s.Position); err != nil {
			return nil, err
		}
		if bookedBy.Valid {
			v := bookedBy.String
			s.BookedBy = &v
		}
		if bookingID.Valid {
			v := uint64(bookingID.Int64)
			s.BookingID = &v
		}
		if note.Valid {
			v := note.String
			s.Note = &v
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
