package models

import (
	"fmt"
	"slices"
	"time"
)

type BlockCategory string

const (
	CategoryAnchor   BlockCategory = "anchor"
	CategorySequence BlockCategory = "sequence"
	CategoryFlexible BlockCategory = "flexible"
)

// Valid reports whether c is one of the known block categories.
func (c BlockCategory) Valid() bool {
	switch c {
	case CategoryAnchor, CategorySequence, CategoryFlexible:
		return true
	}
	return false
}

// ParseCategory converts a user supplied string to a BlockCategory.
func ParseCategory(s string) (BlockCategory, error) {
	c := BlockCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q (expected anchor, sequence or flexible)", s)
	}
	return c, nil
}

// AllWeekdays is the normalized schedule of a block that applies every day.
var AllWeekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// Block is a recurring task template. Entries are copies of a block for a
// specific day.
type Block struct {
	ID                 string         `json:"id" yaml:"-"`
	Slug               string         `json:"slug" yaml:"slug"`
	Label              string         `json:"label" yaml:"label"`
	Icon               string         `json:"icon" yaml:"icon"`
	Color              string         `json:"color" yaml:"color"` // #rrggbb
	Category           BlockCategory  `json:"category" yaml:"category"`
	DefaultDurationMin int            `json:"default_duration_min" yaml:"default_duration_min"`
	Order              int            `json:"order" yaml:"order"`
	DaysOfWeek         []time.Weekday `json:"days_of_week" yaml:"days_of_week"` // 0=Sunday
	IsAnchor           bool           `json:"is_anchor" yaml:"is_anchor"`
	AnchorTime         string         `json:"anchor_time,omitempty" yaml:"anchor_time,omitempty"` // HH:MM, set iff IsAnchor
	IsSkippable        bool           `json:"is_skippable" yaml:"is_skippable"`
	CutPriority        int            `json:"cut_priority" yaml:"cut_priority"` // 1-99
	CreatedAt          time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt          time.Time      `json:"updated_at" yaml:"-"`
}

// AppliesOn reports whether the block is scheduled on the given weekday.
func (b Block) AppliesOn(day time.Weekday) bool {
	return slices.Contains(b.DaysOfWeek, day)
}
