package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sanbong/field-booking/internal/model"
)

// ClubApplicationRepo provides CRUD operations over the
// `club_applications` table.
type ClubApplicationRepo struct{ DB *sql.DB }

// NewClubApplicationRepo returns a ClubApplicationRepo bound to the
// given database.
func NewClubApplicationRepo(db *sql.DB) *ClubApplicationRepo { return &ClubApplicationRepo{DB: db} }

const applicationColumns = "id, user_id, club_name, description, contact, status, created_at, approved_at, rejected_at"

func scanApplication(row interface{ Scan(...any) error }) (model.ClubApplication, error) {
	var a model.ClubApplication
	var desc sql.NullString
	var approvedAt, rejectedAt sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.ClubName, &desc, &a.Contact, &a.Status,
		&a.CreatedAt, &approvedAt, &rejectedAt)
	if err != nil {
		return model.ClubApplication{}, err
	}
	a.Description = desc.String
	if approvedAt.Valid {
		t := approvedAt.Time
		a.ApprovedAt = &t
	}
	if rejectedAt.Valid {
		t := rejectedAt.Time
		a.RejectedAt = &t
	}
	return a, nil
}

// Create inserts an application in pending state and populates the
// generated ID.
func (r *ClubApplicationRepo) Create(ctx context.Context, a *model.ClubApplication) error {
	a.Status = model.ApplicationPending
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO club_applications (user_id, club_name, description, contact, status) VALUES (?,?,?,?,?)",
		a.UserID, a.ClubName, a.Description, a.Contact, string(a.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID fetches an application by id.  Returns ErrApplicationNotFound
// when absent.
func (r *ClubApplicationRepo) GetByID(ctx context.Context, id uint64) (model.ClubApplication, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+applicationColumns+" FROM club_applications WHERE id=? LIMIT 1", id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ClubApplication{}, ErrApplicationNotFound
	}
	return a, err
}

// List returns applications newest first, optionally filtered by status.
func (r *ClubApplicationRepo) List(ctx context.Context, status model.ApplicationStatus) ([]model.ClubApplication, error) {
	query := "SELECT " + applicationColumns + " FROM club_applications"
	args := []any{}
	if status != "" {
		query += " WHERE status=?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	apps := make([]model.ClubApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListByUser returns a user's applications newest first.
func (r *ClubApplicationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ClubApplication, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+applicationColumns+" FROM club_applications WHERE user_id=? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	apps := make([]model.ClubApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// SetStatus transitions an application to approved or rejected with the
// matching timestamp and returns the refreshed row.
func (r *ClubApplicationRepo) SetStatus(ctx context.Context, id uint64, status model.ApplicationStatus, at time.Time) (model.ClubApplication, error) {
	column := "approved_at"
	if status == model.ApplicationRejected {
		column = "rejected_at"
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE club_applications SET status=?, "+column+"=? WHERE id=?",
		string(status), at, id)
	if err != nil {
		return model.ClubApplication{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return model.ClubApplication{}, getErr
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes an application row.  Returns ErrApplicationNotFound
// when nothing was deleted.
func (r *ClubApplicationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM club_applications WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
