package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sanbong/field-booking/internal/model"
)

// FieldRepo provides CRUD operations over the `fields` table and access
// to each field's default slot template in `field_template_slots`.
type FieldRepo struct{ DB *sql.DB }

// NewFieldRepo returns a FieldRepo bound to the given database.
func NewFieldRepo(db *sql.DB) *FieldRepo { return &FieldRepo{DB: db} }

const fieldColumns = "id, name, location, manager, description, type, price, image_src, image_alt, title, created_at, updated_at"

func scanField(row interface{ Scan(...any) error }) (model.Field, error) {
	var f model.Field
	var desc, src, alt, title sql.NullString
	err := row.Scan(&f.ID, &f.Name, &f.Location, &f.Manager, &desc, &f.Type,
		&f.Price, &src, &alt, &title, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return model.Field{}, err
	}
	f.Description = desc.String
	f.ImageSrc = src.String
	f.ImageAlt = alt.String
	f.Title = title.String
	return f, nil
}

// Create inserts a field together with its template slots (if any) and
// populates the generated ID on the given struct.
func (r *FieldRepo) Create(ctx context.Context, f *model.Field, template []model.TemplateSlot) error {
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
	res, err := tx.ExecContext(ctx,
		`INSERT INTO fields (name, location, manager, description, type, price, image_src, image_alt, title)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		f.Name, f.Location, f.Manager, f.Description, string(f.Type), f.Price,
		f.ImageSrc, f.ImageAlt, f.Title)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	for i, ts := range template {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO field_template_slots (field_id, time_label, price, position) VALUES (?,?,?,?)`,
			f.ID, ts.TimeLabel, ts.Price, i); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a field by id.  Returns ErrFieldNotFound when absent.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (model.Field, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+fieldColumns+" FROM fields WHERE id=? LIMIT 1", id)
	f, err := scanField(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Field{}, ErrFieldNotFound
	}
	return f, err
}

// List returns all fields ordered by name.
func (r *FieldRepo) List(ctx context.Context) ([]model.Field, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+fieldColumns+" FROM fields ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	fields := make([]model.Field, 0)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// Template returns a field's default slot template ordered by position.
// An empty slice means the field has no template of its own and callers
// should fall back to the standard grid.
func (r *FieldRepo) Template(ctx context.Context, fieldID uint64) ([]model.TemplateSlot, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, field_id, time_label, price, position
		 FROM field_template_slots WHERE field_id=? ORDER BY position`, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.TemplateSlot, 0)
	for rows.Next() {
		var e model.TemplateSlot
		if err := rows.Scan(&e.ID, &e.FieldID, &e.TimeLabel, &e.Price, &e.Position); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Update overwrites a field's mutable columns and, when template is
// non-nil, replaces the template slots wholesale.
func (r *FieldRepo) Update(ctx context.Context, f *model.Field, template []model.TemplateSlot) error {
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
	res, err := tx.ExecContext(ctx,
		`UPDATE fields SET name=?, location=?, manager=?, description=?, type=?, price=?,
		        image_src=?, image_alt=?, title=? WHERE id=?`,
		f.Name, f.Location, f.Manager, f.Description, string(f.Type), f.Price,
		f.ImageSrc, f.ImageAlt, f.Title, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM fields WHERE id=?", f.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFieldNotFound
			}
			return err
		}
	}
	if template != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM field_template_slots WHERE field_id=?", f.ID); err != nil {
			return err
		}
		for i, ts := range template {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO field_template_slots (field_id, time_label, price, position) VALUES (?,?,?,?)`,
				f.ID, ts.TimeLabel, ts.Price, i); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a field and its template slots.  Returns
// ErrFieldNotFound when nothing was deleted.
func (r *FieldRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err := tx.ExecContext(ctx, "DELETE FROM field_template_slots WHERE field_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM fields WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFieldNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
