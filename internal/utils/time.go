package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/routineos/internal/constants"
)

// GetTodayInTimezone returns today's date key (YYYY-MM-DD) in the specified timezone.
// "Today" follows the user's configured timezone, not the system timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return DateKey(now), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseClockToMinutes converts an "HH:MM" label to minutes since midnight.
// Components are not range checked: "25:70" gives 1570.
func ParseClockToMinutes(clock string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: missing ':'", clock)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	return hours*60 + minutes, nil
}

// MinutesToClock formats minutes since midnight as "HH:MM", wrapping around
// midnight in both directions.
func MinutesToClock(total int) string {
	n := ((total % constants.MinutesPerDay) + constants.MinutesPerDay) % constants.MinutesPerDay
	return fmt.Sprintf("%02d:%02d", n/60, n%60)
}

// AddMinutes shifts a clock label by delta minutes.
func AddMinutes(clock string, delta int) (string, error) {
	m, err := ParseClockToMinutes(clock)
	if err != nil {
		return "", err
	}
	return MinutesToClock(m + delta), nil
}

// DiffMinutes returns the whole minutes between two instants, rounded, and
// never less than one. A negative span counts as zero before the floor.
func DiffMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		d = 0
	}
	return max(1, int(math.Round(d.Minutes())))
}

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(constants.DateFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// Weekday returns the day of week of a date key on the local calendar.
func Weekday(key string) (time.Weekday, error) {
	t, err := ParseDateKey(key, time.Local)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ValidateTimeFormat checks if the string is a valid 24h HH:MM clock.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
