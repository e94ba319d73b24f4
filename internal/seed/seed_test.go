package seed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routineos/internal/models"
)

func TestDefault(t *testing.T) {
	blocks, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, blocks)

	slugs := make(map[string]bool)
	for _, b := range blocks {
		assert.False(t, slugs[b.Slug], "duplicate slug %s", b.Slug)
		slugs[b.Slug] = true
		assert.NotEmpty(t, b.Label)
		assert.True(t, b.Category.Valid(), "block %s has category %q", b.Slug, b.Category)
		if b.IsAnchor {
			assert.NotEmpty(t, b.AnchorTime, "anchor %s has no time", b.Slug)
		} else {
			assert.Empty(t, b.AnchorTime, "block %s is not an anchor", b.Slug)
		}
	}
	assert.True(t, slugs["wake-up"])
}

func TestEncodeDecode(t *testing.T) {
	blocks := []models.Block{{
		Slug:               "walk",
		Label:              "Walk",
		Icon:               "🚶",
		Color:              "#10b981",
		Category:           models.CategoryFlexible,
		DefaultDurationMin: 25,
		Order:              10,
		DaysOfWeek:         []time.Weekday{time.Saturday, time.Sunday},
		IsSkippable:        true,
		CutPriority:        30,
	}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, blocks))
	assert.Contains(t, buf.String(), "version: 1")
	assert.Contains(t, buf.String(), "days_of_week:")
	assert.NotContains(t, buf.String(), "created_at")

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, blocks, got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown field", "version: 1\nblocks:\n  - slug: a\n    colour: red\n"},
		{"future version", "version: 2\nblocks: []\n"},
		{"not yaml", "blocks: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	blocks, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
