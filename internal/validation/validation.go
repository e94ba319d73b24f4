package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateSlug     ConflictType = "duplicate_slug"
	ConflictInvalidAnchorTime ConflictType = "invalid_anchor_time"
	ConflictAnchorsOutOfOrder ConflictType = "anchors_out_of_order"
	ConflictOvercommitted     ConflictType = "overcommitted"
	ConflictStrayAnchorTime   ConflictType = "stray_anchor_time"
)

// Conflict represents a detected problem in the block catalog
type Conflict struct {
	Type        ConflictType
	Description string
	Day         string   // weekday name (if applicable)
	Items       []string // block labels involved
	BlockIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks the block catalog for problems the sanitizers cannot fix
// on their own, such as rows written by an older version or edited by hand.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateCatalog checks blocks for conflicts.
func (v *Validator) ValidateCatalog(blocks []models.Block) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	// Duplicate slugs, reported in first-seen order
	bySlug := make(map[string][]models.Block)
	var slugs []string
	for _, b := range blocks {
		if _, seen := bySlug[b.Slug]; !seen {
			slugs = append(slugs, b.Slug)
		}
		bySlug[b.Slug] = append(bySlug[b.Slug], b)
	}
	for _, slug := range slugs {
		dupes := bySlug[slug]
		if len(dupes) < 2 {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateSlug,
			Description: fmt.Sprintf("Duplicate slug %q used by %d blocks", slug, len(dupes)),
			Items:       labels(dupes),
			BlockIDs:    ids(dupes),
		})
	}

	for _, b := range blocks {
		switch {
		case b.IsAnchor && !utils.ValidateTimeFormat(b.AnchorTime):
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidAnchorTime,
				Description: fmt.Sprintf("Anchor block %q has invalid anchor time %q", b.Label, b.AnchorTime),
				Items:       []string{b.Label},
				BlockIDs:    []string{b.ID},
			})
		case !b.IsAnchor && b.AnchorTime != "":
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStrayAnchorTime,
				Description: fmt.Sprintf("Block %q is not an anchor but has anchor time %s", b.Label, b.AnchorTime),
				Items:       []string{b.Label},
				BlockIDs:    []string{b.ID},
			})
		}
	}

	for _, day := range models.AllWeekdays {
		var scheduled []models.Block
		for _, b := range blocks {
			if b.AppliesOn(day) {
				scheduled = append(scheduled, b)
			}
		}
		sort.SliceStable(scheduled, func(i, j int) bool {
			return scheduled[i].Order < scheduled[j].Order
		})

		// Anchors must not go back in time as the day progresses
		var prev *models.Block
		prevMin := -1
		for i := range scheduled {
			b := scheduled[i]
			if !b.IsAnchor || !utils.ValidateTimeFormat(b.AnchorTime) {
				continue
			}
			m, _ := utils.ParseClockToMinutes(b.AnchorTime)
			if prev != nil && m < prevMin {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictAnchorsOutOfOrder,
					Description: fmt.Sprintf("On %s, anchor %q (%s) comes after %q (%s) but starts earlier",
						day, b.Label, b.AnchorTime, prev.Label, prev.AnchorTime),
					Day:      day.String(),
					Items:    []string{prev.Label, b.Label},
					BlockIDs: []string{prev.ID, b.ID},
				})
			}
			prev = &scheduled[i]
			prevMin = m
		}

		total := 0
		for _, b := range scheduled {
			total += b.DefaultDurationMin
		}
		if total > constants.MinutesPerDay {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictOvercommitted,
				Description: fmt.Sprintf("On %s, blocks total %dh%02dm, more than a full day",
					day, total/60, total%60),
				Day:      day.String(),
				Items:    labels(scheduled),
				BlockIDs: ids(scheduled),
			})
		}
	}

	return result
}

func labels(blocks []models.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Label
	}
	return out
}

func ids(blocks []models.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}
