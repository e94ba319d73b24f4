package models

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/julianstephens/routineos/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	AskCompletionCheckIn bool            `json:"ask_completion_checkin"` // prompt for a check-in when a task is done
	ShowFeedbackOnHome   bool            `json:"show_feedback_on_home"`
	DefaultViewMode      string          `json:"default_view_mode"` // focus or overview
	ShowOnboarding       bool            `json:"show_onboarding"`
	CompactHeader        bool            `json:"compact_header"`
	Timezone             string          `json:"timezone"` // IANA name or "Local"
	Sensory              SensorySettings `json:"sensory"`
}

// SensorySettings holds sound, haptic, animation and visual preferences.
type SensorySettings struct {
	SoundEnabled      bool   `json:"sound_enabled"`
	SoundVolume       int    `json:"sound_volume"` // 0-100
	CompletionSound   string `json:"completion_sound"`
	HapticEnabled     bool   `json:"haptic_enabled"`
	HapticIntensity   string `json:"haptic_intensity"`
	AnimationsEnabled bool   `json:"animations_enabled"`
	AnimationSpeed    string `json:"animation_speed"`
	CelebrationStyle  string `json:"celebration_style"`
	ColorTheme        string `json:"color_theme"`
	HighContrastMode  bool   `json:"high_contrast_mode"`
}

var (
	ViewModes         = []string{"focus", "overview"}
	CompletionSounds  = []string{"chime", "bell", "pop", "none"}
	HapticIntensities = []string{"light", "medium", "strong"}
	AnimationSpeeds   = []string{"slow", "normal", "fast"}
	CelebrationStyles = []string{"confetti", "particles", "minimal", "none"}
	ColorThemes       = []string{"vibrant", "muted", "monochrome"}
)

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	return Settings{
		AskCompletionCheckIn: constants.DefaultAskCompletionCheckIn,
		ShowFeedbackOnHome:   constants.DefaultShowFeedbackOnHome,
		DefaultViewMode:      constants.DefaultViewMode,
		ShowOnboarding:       constants.DefaultShowOnboarding,
		CompactHeader:        constants.DefaultCompactHeader,
		Timezone:             constants.DefaultTimezone,
		Sensory: SensorySettings{
			SoundEnabled:      constants.DefaultSoundEnabled,
			SoundVolume:       constants.DefaultSoundVolume,
			CompletionSound:   constants.DefaultCompletionSound,
			HapticEnabled:     constants.DefaultHapticEnabled,
			HapticIntensity:   constants.DefaultHapticIntensity,
			AnimationsEnabled: constants.DefaultAnimationsEnabled,
			AnimationSpeed:    constants.DefaultAnimationSpeed,
			CelebrationStyle:  constants.DefaultCelebrationStyle,
			ColorTheme:        constants.DefaultColorTheme,
			HighContrastMode:  constants.DefaultHighContrastMode,
		},
	}
}

// MapToSettings reconciles persisted key/value pairs onto the defaults, one
// field at a time. Unknown keys are ignored and a value that does not parse
// leaves that field at its default.
func MapToSettings(data map[string]string) Settings {
	settings := DefaultSettings()
	for key, value := range data {
		_ = SetSetting(&settings, key, value)
	}
	return settings
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(s Settings) map[string]string {
	return map[string]string{
		constants.SettingAskCompletionCheckIn: strconv.FormatBool(s.AskCompletionCheckIn),
		constants.SettingShowFeedbackOnHome:   strconv.FormatBool(s.ShowFeedbackOnHome),
		constants.SettingDefaultViewMode:      s.DefaultViewMode,
		constants.SettingShowOnboarding:       strconv.FormatBool(s.ShowOnboarding),
		constants.SettingCompactHeader:        strconv.FormatBool(s.CompactHeader),
		constants.SettingTimezone:             s.Timezone,
		constants.SettingSoundEnabled:         strconv.FormatBool(s.Sensory.SoundEnabled),
		constants.SettingSoundVolume:          strconv.Itoa(s.Sensory.SoundVolume),
		constants.SettingCompletionSound:      s.Sensory.CompletionSound,
		constants.SettingHapticEnabled:        strconv.FormatBool(s.Sensory.HapticEnabled),
		constants.SettingHapticIntensity:      s.Sensory.HapticIntensity,
		constants.SettingAnimationsEnabled:    strconv.FormatBool(s.Sensory.AnimationsEnabled),
		constants.SettingAnimationSpeed:       s.Sensory.AnimationSpeed,
		constants.SettingCelebrationStyle:     s.Sensory.CelebrationStyle,
		constants.SettingColorTheme:           s.Sensory.ColorTheme,
		constants.SettingHighContrastMode:     strconv.FormatBool(s.Sensory.HighContrastMode),
	}
}

// SetSetting parses value and assigns it to the field named by key. The
// settings are left unchanged when the key is unknown or the value invalid.
func SetSetting(s *Settings, key, value string) error {
	switch key {
	case constants.SettingAskCompletionCheckIn:
		return setBool(&s.AskCompletionCheckIn, key, value)
	case constants.SettingShowFeedbackOnHome:
		return setBool(&s.ShowFeedbackOnHome, key, value)
	case constants.SettingDefaultViewMode:
		return setEnum(&s.DefaultViewMode, key, value, ViewModes)
	case constants.SettingShowOnboarding:
		return setBool(&s.ShowOnboarding, key, value)
	case constants.SettingCompactHeader:
		return setBool(&s.CompactHeader, key, value)
	case constants.SettingTimezone:
		if value == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
		s.Timezone = value
		return nil
	case constants.SettingSoundEnabled:
		return setBool(&s.Sensory.SoundEnabled, key, value)
	case constants.SettingSoundVolume:
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", key, v)
		}
		s.Sensory.SoundVolume = v
		return nil
	case constants.SettingCompletionSound:
		return setEnum(&s.Sensory.CompletionSound, key, value, CompletionSounds)
	case constants.SettingHapticEnabled:
		return setBool(&s.Sensory.HapticEnabled, key, value)
	case constants.SettingHapticIntensity:
		return setEnum(&s.Sensory.HapticIntensity, key, value, HapticIntensities)
	case constants.SettingAnimationsEnabled:
		return setBool(&s.Sensory.AnimationsEnabled, key, value)
	case constants.SettingAnimationSpeed:
		return setEnum(&s.Sensory.AnimationSpeed, key, value, AnimationSpeeds)
	case constants.SettingCelebrationStyle:
		return setEnum(&s.Sensory.CelebrationStyle, key, value, CelebrationStyles)
	case constants.SettingColorTheme:
		return setEnum(&s.Sensory.ColorTheme, key, value, ColorThemes)
	case constants.SettingHighContrastMode:
		return setBool(&s.Sensory.HighContrastMode, key, value)
	}
	return fmt.Errorf("unknown setting %q", key)
}

func setBool(dst *bool, key, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	*dst = v
	return nil
}

func setEnum(dst *string, key, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q (expected one of %v)", key, value, allowed)
	}
	*dst = value
	return nil
}
