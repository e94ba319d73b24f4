package utils

import (
	"math"
	"time"
)

// TimeProgress is the elapsed share, in percent, of each calendar period
// containing a moment.
type TimeProgress struct {
	Year  float64 `json:"year"`
	Month float64 `json:"month"`
	Week  float64 `json:"week"` // weeks start on Sunday
	Day   float64 `json:"day"`
}

// CalculateTimeProgress computes TimeProgress for now, in now's location.
func CalculateTimeProgress(now time.Time) TimeProgress {
	loc := now.Location()
	y, m, d := now.Date()

	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, loc)
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	startOfYear := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)

	return TimeProgress{
		Year:  percentElapsed(now, startOfYear, startOfYear.AddDate(1, 0, 0).Sub(startOfYear)),
		Month: percentElapsed(now, startOfMonth, startOfMonth.AddDate(0, 1, 0).Sub(startOfMonth)),
		Week:  percentElapsed(now, startOfWeek, 7*24*time.Hour),
		Day:   percentElapsed(now, startOfDay, 24*time.Hour),
	}
}

func percentElapsed(now, start time.Time, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(now.Sub(start)) / float64(total) * 100
	return math.Round(pct*10) / 10
}
