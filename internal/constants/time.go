package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MinutesPerDay bounds clock labels; values outside wrap around midnight
	MinutesPerDay = 24 * 60

	// DefaultAnchorTime is used for anchor blocks saved without a valid time
	DefaultAnchorTime = "06:00"

	// DefaultScheduleStart seeds the schedule cursor when no anchor precedes a block
	DefaultScheduleStart = "06:00"
)
