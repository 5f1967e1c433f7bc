package driving

import "github.com/custodia-labs/vitae-cli/internal/core/domain"

// SettingInfo describes one configuration key for display.
type SettingInfo struct {
	Key         string
	Value       string
	Default     string
	Description string
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings. Invalid or missing values fall
	// back to defaults.
	Get() domain.EditorSettings

	// GetDefaults returns default settings.
	GetDefaults() domain.EditorSettings

	// Set validates and persists a single key.
	Set(key, value string) error

	// Unset removes a key so the default applies.
	Unset(key string) error

	// Describe lists every known key with its effective value.
	Describe() []SettingInfo
}
