package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type BlockStatus string

const (
	StatusPending   BlockStatus = "pending"
	StatusActive    BlockStatus = "active"
	StatusCompleted BlockStatus = "completed"
	StatusSkipped   BlockStatus = "skipped"
)

var (
	ErrInvalidStatus      = errors.New("invalid entry status")
	ErrInvalidEntryRecord = errors.New("invalid entry record")
)

// ParseStatus converts a user supplied string to a BlockStatus.
func ParseStatus(s string) (BlockStatus, error) {
	switch st := BlockStatus(s); st {
	case StatusPending, StatusActive, StatusCompleted, StatusSkipped:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// EntryState is the status of an entry together with the fields that only
// exist in that status. The concrete types are Pending, Active, Completed
// and Skipped.
type EntryState interface {
	Status() BlockStatus
	isEntryState()
}

type Pending struct{}

type Active struct {
	StartedAt time.Time
}

type Completed struct {
	StartedAt   time.Time
	CompletedAt time.Time
	DurationMin int
	Notes       string
}

type Skipped struct {
	StartedAt *time.Time // kept when an active entry is skipped
	SkippedAt time.Time
}

func (Pending) Status() BlockStatus   { return StatusPending }
func (Active) Status() BlockStatus    { return StatusActive }
func (Completed) Status() BlockStatus { return StatusCompleted }
func (Skipped) Status() BlockStatus   { return StatusSkipped }

func (Pending) isEntryState()   {}
func (Active) isEntryState()    {}
func (Completed) isEntryState() {}
func (Skipped) isEntryState()   {}

// BlockEntry is a specific instance of a block on a specific day.
type BlockEntry struct {
	ID       string
	DayLogID string
	BlockID  string
	Order    int
	State    EntryState
}

// Status returns the entry status. A zero entry is pending.
func (e BlockEntry) Status() BlockStatus {
	if e.State == nil {
		return StatusPending
	}
	return e.State.Status()
}

// StartedAt returns when the entry was started, if it was.
func (e BlockEntry) StartedAt() (time.Time, bool) {
	switch s := e.State.(type) {
	case Active:
		return s.StartedAt, true
	case Completed:
		return s.StartedAt, true
	case Skipped:
		if s.StartedAt != nil {
			return *s.StartedAt, true
		}
	}
	return time.Time{}, false
}

// DurationMin returns the recorded duration of a completed entry. A
// duration of zero or less counts as not recorded. The service never writes
// less than one minute, so only hand-edited or imported rows hold zero.
func (e BlockEntry) DurationMin() (int, bool) {
	if c, ok := e.State.(Completed); ok && c.DurationMin > 0 {
		return c.DurationMin, true
	}
	return 0, false
}

// Notes returns the notes recorded at completion, or "".
func (e BlockEntry) Notes() string {
	if c, ok := e.State.(Completed); ok {
		return c.Notes
	}
	return ""
}

// EntryRecord is the flat, storable form of a BlockEntry.
type EntryRecord struct {
	ID          string     `json:"id"`
	DayLogID    string     `json:"day_log_id"`
	BlockID     string     `json:"block_id"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	SkippedAt   *time.Time `json:"skipped_at,omitempty"`
	DurationMin *int       `json:"duration_min,omitempty"`
	Order       int        `json:"order"`
	Notes       *string    `json:"notes,omitempty"`
}

// Record flattens the entry for storage.
func (e BlockEntry) Record() EntryRecord {
	rec := EntryRecord{
		ID:       e.ID,
		DayLogID: e.DayLogID,
		BlockID:  e.BlockID,
		Status:   string(e.Status()),
		Order:    e.Order,
	}
	switch s := e.State.(type) {
	case Active:
		rec.StartedAt = ptr(s.StartedAt)
	case Completed:
		rec.StartedAt = ptr(s.StartedAt)
		rec.CompletedAt = ptr(s.CompletedAt)
		rec.DurationMin = ptr(s.DurationMin)
		if s.Notes != "" {
			rec.Notes = ptr(s.Notes)
		}
	case Skipped:
		if s.StartedAt != nil {
			rec.StartedAt = ptr(*s.StartedAt)
		}
		rec.SkippedAt = ptr(s.SkippedAt)
	}
	return rec
}

// EntryFromRecord rebuilds an entry from its stored form. Rows whose fields
// contradict their status are rejected with ErrInvalidEntryRecord.
func EntryFromRecord(rec EntryRecord) (BlockEntry, error) {
	e := BlockEntry{
		ID:       rec.ID,
		DayLogID: rec.DayLogID,
		BlockID:  rec.BlockID,
		Order:    rec.Order,
	}

	status, err := ParseStatus(rec.Status)
	if err != nil {
		return BlockEntry{}, fmt.Errorf("%w: entry %s: %v", ErrInvalidEntryRecord, rec.ID, err)
	}

	invalid := func(reason string) error {
		return fmt.Errorf("%w: entry %s is %s but %s", ErrInvalidEntryRecord, rec.ID, status, reason)
	}

	switch status {
	case StatusPending:
		if rec.StartedAt != nil || rec.CompletedAt != nil || rec.SkippedAt != nil || rec.DurationMin != nil {
			return BlockEntry{}, invalid("has timing fields")
		}
		e.State = Pending{}
	case StatusActive:
		if rec.StartedAt == nil {
			return BlockEntry{}, invalid("has no start time")
		}
		if rec.CompletedAt != nil || rec.SkippedAt != nil || rec.DurationMin != nil {
			return BlockEntry{}, invalid("has completion fields")
		}
		e.State = Active{StartedAt: *rec.StartedAt}
	case StatusCompleted:
		if rec.StartedAt == nil || rec.CompletedAt == nil || rec.DurationMin == nil {
			return BlockEntry{}, invalid("is missing timing fields")
		}
		if rec.SkippedAt != nil {
			return BlockEntry{}, invalid("has a skip time")
		}
		c := Completed{
			StartedAt:   *rec.StartedAt,
			CompletedAt: *rec.CompletedAt,
			DurationMin: *rec.DurationMin,
		}
		if rec.Notes != nil {
			c.Notes = *rec.Notes
		}
		e.State = c
	case StatusSkipped:
		if rec.SkippedAt == nil {
			return BlockEntry{}, invalid("has no skip time")
		}
		if rec.CompletedAt != nil || rec.DurationMin != nil {
			return BlockEntry{}, invalid("has completion fields")
		}
		s := Skipped{SkippedAt: *rec.SkippedAt}
		if rec.StartedAt != nil {
			s.StartedAt = ptr(*rec.StartedAt)
		}
		e.State = s
	}

	return e, nil
}

func (e BlockEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}

func (e *BlockEntry) UnmarshalJSON(data []byte) error {
	var rec EntryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	entry, err := EntryFromRecord(rec)
	if err != nil {
		return err
	}
	*e = entry
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
