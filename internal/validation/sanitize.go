package validation

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
)

var (
	hexColorPattern   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	anchorTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
	slugSeparators    = regexp.MustCompile(`[^a-z0-9]+`)
)

// SanitizeDuration rounds to whole minutes and floors at zero.
func SanitizeDuration(v float64) int {
	return max(0, int(math.Round(v)))
}

// SanitizeCutPriority rounds and clamps into the 1-99 range.
func SanitizeCutPriority(v float64) int {
	return min(constants.MaxCutPriority, max(constants.MinCutPriority, int(math.Round(v))))
}

// SanitizeColor returns the trimmed value when it is a #rrggbb color and the
// default block color otherwise.
func SanitizeColor(v string) string {
	trimmed := strings.TrimSpace(v)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return constants.DefaultBlockColor
}

// SanitizeIcon trims the icon and keeps its first few runes.
func SanitizeIcon(v string) string {
	trimmed := []rune(strings.TrimSpace(v))
	if len(trimmed) == 0 {
		return constants.DefaultBlockIcon
	}
	if len(trimmed) > constants.MaxIconRunes {
		trimmed = trimmed[:constants.MaxIconRunes]
	}
	return string(trimmed)
}

// SanitizeDays dedupes, drops values outside 0-6 and sorts. An empty result
// means every day.
func SanitizeDays(days []int) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		if wd := time.Weekday(d); !slices.Contains(out, wd) {
			out = append(out, wd)
		}
	}
	if len(out) == 0 {
		return slices.Clone(models.AllWeekdays)
	}
	slices.Sort(out)
	return out
}

// SanitizeAnchorTime returns "" for non-anchors. Anchors keep a well-formed
// HH:MM value and fall back to the default anchor time otherwise.
func SanitizeAnchorTime(isAnchor bool, anchorTime string) string {
	if !isAnchor {
		return ""
	}
	if anchorTimePattern.MatchString(anchorTime) {
		return anchorTime
	}
	return constants.DefaultAnchorTime
}

// NormalizeSlug lowercases the value and collapses every run of characters
// outside [a-z0-9] into a single hyphen.
func NormalizeSlug(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	s = strings.Trim(slugSeparators.ReplaceAllString(s, "-"), "-")
	if s != "" {
		return s
	}
	return constants.SlugFallbackBase + "-" + randomSuffix(6)
}

// UniqueSlug normalizes base and appends -2, -3, ... until it no longer
// collides with an existing slug.
func UniqueSlug(base string, existing []string) string {
	slug := NormalizeSlug(base)
	if !slices.Contains(existing, slug) {
		return slug
	}
	for n := 2; ; n++ {
		candidate := slug + "-" + strconv.Itoa(n)
		if !slices.Contains(existing, candidate) {
			return candidate
		}
	}
}

func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
