package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTimeProgress(t *testing.T) {
	// Sunday 2026-01-04 at noon.
	now := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)
	got := CalculateTimeProgress(now)

	assert.Equal(t, 50.0, got.Day)
	// half a day into a 7 day week
	assert.Equal(t, 7.1, got.Week)
	// 3.5 days into a 31 day month
	assert.Equal(t, 11.3, got.Month)
	// 3.5 days into a 365 day year
	assert.Equal(t, 1.0, got.Year)
}

func TestCalculateTimeProgress_StartOfPeriods(t *testing.T) {
	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC) // a Sunday
	got := CalculateTimeProgress(now)
	assert.Equal(t, TimeProgress{}, got)
}
