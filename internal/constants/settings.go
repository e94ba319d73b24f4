package constants

const (
	// General Settings
	SettingAskCompletionCheckIn = "ask_completion_checkin"
	SettingShowFeedbackOnHome   = "show_feedback_on_home"
	SettingDefaultViewMode      = "default_view_mode"
	SettingShowOnboarding       = "show_onboarding"
	SettingCompactHeader        = "compact_header"
	SettingTimezone             = "timezone"

	// Sensory Settings
	SettingSoundEnabled      = "sound_enabled"
	SettingSoundVolume       = "sound_volume"
	SettingCompletionSound   = "completion_sound"
	SettingHapticEnabled     = "haptic_enabled"
	SettingHapticIntensity   = "haptic_intensity"
	SettingAnimationsEnabled = "animations_enabled"
	SettingAnimationSpeed    = "animation_speed"
	SettingCelebrationStyle  = "celebration_style"
	SettingColorTheme        = "color_theme"
	SettingHighContrastMode  = "high_contrast_mode"

	// Default Settings Values
	DefaultAskCompletionCheckIn = true
	DefaultShowFeedbackOnHome   = true
	DefaultViewMode             = "focus"
	DefaultShowOnboarding       = true
	DefaultCompactHeader        = false
	DefaultTimezone             = "Local" // Use system local timezone by default

	DefaultSoundEnabled      = false
	DefaultSoundVolume       = 50
	DefaultCompletionSound   = "chime"
	DefaultHapticEnabled     = true
	DefaultHapticIntensity   = "medium"
	DefaultAnimationsEnabled = true
	DefaultAnimationSpeed    = "normal"
	DefaultCelebrationStyle  = "particles"
	DefaultColorTheme        = "vibrant"
	DefaultHighContrastMode  = false
)
