package models

import "time"

// DayLog groups all entries for a single date.
type DayLog struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DayItem pairs a block with its entry for the day. It is never persisted.
type DayItem struct {
	Block Block      `json:"block"`
	Entry BlockEntry `json:"entry"`
}

// DayView is everything needed to show a single day.
type DayView struct {
	DayLog DayLog    `json:"day_log"`
	Items  []DayItem `json:"items"`
}

// ProgressSnapshot counts how far along a day is.
type ProgressSnapshot struct {
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// Remaining is the number of entries neither completed nor skipped.
func (p ProgressSnapshot) Remaining() int {
	return p.Total - p.Completed - p.Skipped
}
