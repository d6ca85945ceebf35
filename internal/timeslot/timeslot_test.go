package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanbong/field-booking/internal/model"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"17h-18h30", "17:00-18:30"},
		{"17:00-18:30", "17:00-18:30"},
		{"17-18h30", "17:00-18:30"},
		{"8h-9h30", "08:00-09:30"},
		{"8:00 - 9:30", "08:00-09:30"},
		{"9h30-11h", "09:30-11:00"},
		{"17h30 – 19h", "17:30-19:00"}, // en dash with spaces
		{"18h30-20h", "18:30-20:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeEquivalentSpellings(t *testing.T) {
	assert.Equal(t, Normalize("17h-18h30"), Normalize("17:00-18:30"))
	assert.Equal(t, Normalize("8h-9h30"), Normalize("08:00-09:30"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"17h-18h30", "8h-9h30", "17:00-18:30", "whatever", "", "17h", "9-10-11"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeMalformedFallsBack(t *testing.T) {
	// No dash at all: loose digits-only key, never a panic.
	assert.Equal(t, "1700", Normalize("17h00"))
	// Three parts: also degrades to digits.
	assert.Equal(t, "91011", Normalize("9-10-11"))
	assert.Equal(t, "", Normalize("no digits here"))
	assert.Equal(t, "", Normalize(""))
}

func TestCanonicalDate(t *testing.T) {
	assert.Equal(t, "2024-06-01", CanonicalDate("2024-06-01"))
	assert.Equal(t, "2024-06-01", CanonicalDate("2024-06-01T10:30:00Z"))
	assert.Equal(t, "2024-06-01", CanonicalDate("2024-06-01 00:00:00"))
	assert.Equal(t, "2024-06-01", CanonicalDate("  2024-06-01 "))
	// Garbage passes through unchanged so lookups fail instead of requests.
	assert.Equal(t, "junk", CanonicalDate("junk"))
}

func TestDefaultTemplate(t *testing.T) {
	slots := DefaultTemplate(300000)
	require.Len(t, slots, 8)
	assert.Equal(t, "8h-9h30", slots[0].TimeLabel)
	assert.Equal(t, "18h30-20h", slots[7].TimeLabel)

	seen := make(map[string]bool)
	for i, s := range slots {
		assert.Equal(t, model.SlotAvailable, s.Status)
		assert.EqualValues(t, 300000, s.Price)
		assert.Equal(t, i, s.Position)
		assert.Nil(t, s.BookedBy)
		require.NotEmpty(t, s.ID)
		assert.False(t, seen[s.ID], "duplicate slot id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestFromTemplate(t *testing.T) {
	entries := []model.TemplateSlot{
		{TimeLabel: "8h-9h30", Price: 300000, Position: 0},
		{TimeLabel: "9h30-11h", Price: 350000, Position: 1},
	}
	slots := FromTemplate(entries)
	require.Len(t, slots, 2)
	assert.Equal(t, "8h-9h30", slots[0].TimeLabel)
	assert.EqualValues(t, 350000, slots[1].Price)
	assert.NotEqual(t, slots[0].ID, slots[1].ID)
}
