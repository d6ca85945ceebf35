// Package timeslot holds the label and date normalization helpers used by
// the booking reconciliation logic plus the default slot template applied
// when a day's grid is created lazily.
//
// Slot labels arrive in inconsistent shapes ("17:00-18:30", "17h-18h30",
// "17h30 - 19h").  Before a booking's requested time can be matched
// against a day's grid, both sides are reduced to one canonical form so
// that equality comparison is meaningful.
package timeslot

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanbong/field-booking/internal/model"
)

// DateLayout is the canonical calendar-day form used as part of the
// (field, date) key.  All date comparisons happen on this string so that
// callers passing time.Time values and callers passing raw strings agree.
const DateLayout = "2006-01-02"

// CanonicalDate reduces a date input to YYYY-MM-DD.  Accepted inputs are
// the canonical form itself, an RFC 3339 timestamp, or a "YYYY-MM-DD
// HH:MM:SS" database string; the timestamp variants are interpreted at
// UTC.  Unparseable input is returned unchanged so a malformed date fails
// lookup rather than the request.
func CanonicalDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == len(DateLayout) {
		if _, err := time.Parse(DateLayout, s); err == nil {
			return s
		}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(DateLayout)
		}
	}
	return s
}

// Normalize reduces a time-range label to a canonical comparable key.
// The two endpoints are split on a dash, each endpoint's hour and
// optional minutes are extracted (accepting "17", "17h", "17h30" and
// "17:30" as equivalent spellings), minutes default to "00" and are
// left-padded to two digits, and the endpoints are rejoined with "-".
//
//	Normalize("17h-18h30")    == "17:00-18:30"
//	Normalize("17:00-18:30")  == "17:00-18:30"
//
// Input that does not split into exactly two parts degrades to a
// digits-only key instead of failing; the function never panics and is
// idempotent over its own output.
func Normalize(label string) string {
	parts := splitRange(label)
	if len(parts) != 2 {
		return digitsOnly(label)
	}
	return normalizeEndpoint(parts[0]) + "-" + normalizeEndpoint(parts[1])
}

// splitRange splits on ASCII hyphen or en dash and drops empty pieces so
// that "17h - 18h30" and "17h–18h30" both yield two endpoints.
func splitRange(label string) []string {
	fields := strings.FieldsFunc(label, func(r rune) bool {
		return r == '-' || r == '–'
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// normalizeEndpoint turns one endpoint into "HH:MM".  The first digit run
// is the hour, the second (if any) the minutes.  A missing minute part
// becomes "00"; a single-digit part is padded.
func normalizeEndpoint(s string) string {
	runs := digitRuns(s)
	if len(runs) == 0 {
		return digitsOnly(s)
	}
	hour := runs[0]
	min := "00"
	if len(runs) > 1 {
		min = runs[1]
	}
	if len(hour) == 1 {
		hour = "0" + hour
	}
	if len(min) == 1 {
		min = "0" + min
	}
	return hour + ":" + min
}

// digitRuns returns the consecutive digit groups of s in order.
func digitRuns(s string) []string {
	var runs []string
	var cur strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			runs = append(runs, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		runs = append(runs, cur.String())
	}
	return runs
}

// digitsOnly strips everything but digits; the loose fallback key for
// malformed labels.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// defaultLabels is the standard eight-block day grid running 8h to 20h in
// 90-minute slots.  Fields without their own template get this grid.
var defaultLabels = []string{
	"8h-9h30",
	"9h30-11h",
	"11h-12h30",
	"12h30-14h",
	"14h-15h30",
	"15h30-17h",
	"17h-18h30",
	"18h30-20h",
}

// DefaultTemplate returns a fresh slot grid using the standard labels,
// every slot available at the given price.  Each call assigns new UUIDs.
func DefaultTemplate(price int64) []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, len(defaultLabels))
	for i, label := range defaultLabels {
		slots = append(slots, model.TimeSlot{
			ID:        uuid.NewString(),
			TimeLabel: label,
			Status:    model.SlotAvailable,
			Price:     price,
			Position:  i,
		})
	}
	return slots
}

// FromTemplate instantiates a slot grid from a field's template entries.
// Entries are honored in the order given; each slot gets a fresh UUID and
// starts available with no occupant.
func FromTemplate(entries []model.TemplateSlot) []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, len(entries))
	for i, e := range entries {
		slots = append(slots, model.TimeSlot{
			ID:        uuid.NewString(),
			TimeLabel: e.TimeLabel,
			Status:    model.SlotAvailable,
			Price:     e.Price,
			Position:  i,
		})
	}
	return slots
}
