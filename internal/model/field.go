package model

import "time"

// FieldType is the capacity class of a football field.
type FieldType string

const (
	FieldType5v5   FieldType = "5v5"
	FieldType7v7   FieldType = "7v7"
	FieldType11v11 FieldType = "11v11"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldType5v5, FieldType7v7, FieldType11v11:
		return true
	}
	return false
}

// Field describes a bookable football field.  Fields are created and
// maintained by administrators; everyone else sees them read-only.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – field name shown to users.
//  Location    – street address or area description.
//  Manager     – contact of the person managing the field.
//  Description – free-text description.
//  Type        – capacity class (5v5, 7v7, 11v11).
//  Price       – base price per slot in VND.
//  ImageSrc    – field photo URL.
//  ImageAlt    – alt text for the photo.
//  Title       – display title used by listing pages.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Field struct {
	ID          uint64    // fields.id
	Name        string    // fields.name
	Location    string    // fields.location
	Manager     string    // fields.manager
	Description string    // fields.description
	Type        FieldType // fields.type
	Price       int64     // fields.price
	ImageSrc    string    // fields.image_src
	ImageAlt    string    // fields.image_alt
	Title       string    // fields.title
	CreatedAt   time.Time // fields.created_at
	UpdatedAt   time.Time // fields.updated_at
}

// TemplateSlot is one entry of a field's default day template.  When a
// field-status record is lazily created for a day, its slot grid is
// instantiated from these entries in Position order.
//
// Fields:
//  ID        – primary key identifier.
//  FieldID   – field this template entry belongs to.
//  TimeLabel – slot label, e.g. "8h-9h30".
//  Price     – default price for this slot in VND.
//  Position  – ordering index within the template.
type TemplateSlot struct {
	ID        uint64 // field_template_slots.id
	FieldID   uint64 // field_template_slots.field_id
	TimeLabel string // field_template_slots.time_label
	Price     int64  // field_template_slots.price
	Position  int    // field_template_slots.position
}
