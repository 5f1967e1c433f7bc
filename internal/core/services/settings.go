package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyAutosaveDelay   = "autosave.delay"
	KeyAutosaveTimeout = "autosave.timeout"
	KeyHistoryLimit    = "history.limit"
	KeyDefaultTemplate = "editor.default_template"
	KeyStorageBackend  = "storage.backend"
	KeyStorageDataDir  = "storage.data_dir"
	KeyRemoteBaseURL   = "remote.base_url"
	KeyRemoteToken     = "remote.token"
	KeyRemoteRate      = "remote.rate"
	KeyExportPaper     = "export.paper"
)

// maxHistoryLimit bounds history.limit.
const maxHistoryLimit = 1000

// settingDef describes one config key.
type settingDef struct {
	key         string
	description string
	format      func(domain.EditorSettings) string
	parse       func(s *SettingsService, raw string) (any, error)
}

var settingDefs = []settingDef{
	{
		key:         KeyAutosaveDelay,
		description: "Debounce delay before autosave, in milliseconds",
		format:      func(e domain.EditorSettings) string { return formatMillis(e.Autosave.Delay) },
		parse:       parsePositiveInt,
	},
	{
		key:         KeyAutosaveTimeout,
		description: "Timeout for one save request, in milliseconds",
		format:      func(e domain.EditorSettings) string { return formatMillis(e.Autosave.Timeout) },
		parse:       parsePositiveInt,
	},
	{
		key:         KeyHistoryLimit,
		description: "Maximum number of undo steps",
		format:      func(e domain.EditorSettings) string { return strconv.Itoa(e.HistoryLimit) },
		parse: func(_ *SettingsService, raw string) (any, error) {
			v, err := parsePositiveInt(nil, raw)
			if err != nil {
				return nil, err
			}
			if v.(int) > maxHistoryLimit {
				return nil, fmt.Errorf("%w: at most %d", domain.ErrInvalidInput, maxHistoryLimit)
			}
			return v, nil
		},
	},
	{
		key:         KeyDefaultTemplate,
		description: "Template for new documents",
		format:      func(e domain.EditorSettings) string { return e.DefaultTemplate },
		parse: func(s *SettingsService, raw string) (any, error) {
			if s.catalog != nil && !s.catalog.Has(raw) {
				return nil, fmt.Errorf("template %q: %w", raw, domain.ErrUnsupportedType)
			}
			return raw, nil
		},
	},
	{
		key:         KeyStorageBackend,
		description: "Where builds are stored (sqlite, memory, remote)",
		format:      func(e domain.EditorSettings) string { return e.Storage.Backend.String() },
		parse: func(_ *SettingsService, raw string) (any, error) {
			if !domain.StorageBackend(raw).IsValid() {
				return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, raw)
			}
			return raw, nil
		},
	},
	{
		key:         KeyStorageDataDir,
		description: "Directory for the SQLite database",
		format:      func(e domain.EditorSettings) string { return e.Storage.DataDir },
		parse:       parseAny,
	},
	{
		key:         KeyRemoteBaseURL,
		description: "Base URL of the builds API",
		format:      func(e domain.EditorSettings) string { return e.Remote.BaseURL },
		parse: func(_ *SettingsService, raw string) (any, error) {
			u, err := url.Parse(raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, fmt.Errorf("%w: %q is not an http(s) URL", domain.ErrInvalidInput, raw)
			}
			return strings.TrimRight(raw, "/"), nil
		},
	},
	{
		key:         KeyRemoteToken,
		description: "Bearer token for the builds API",
		format: func(e domain.EditorSettings) string {
			if e.Remote.Token == "" {
				return ""
			}
			return "********"
		},
		parse: parseAny,
	},
	{
		key:         KeyRemoteRate,
		description: "Maximum builds API requests per second",
		format:      func(e domain.EditorSettings) string { return strconv.FormatFloat(e.Remote.Rate, 'f', -1, 64) },
		parse: func(_ *SettingsService, raw string) (any, error) {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("%w: rate must be a positive number", domain.ErrInvalidInput)
			}
			return v, nil
		},
	},
	{
		key:         KeyExportPaper,
		description: "Export paper size (a4, letter)",
		format:      func(e domain.EditorSettings) string { return e.Paper },
		parse: func(_ *SettingsService, raw string) (any, error) {
			p := strings.ToLower(raw)
			if p != "a4" && p != "letter" {
				return nil, fmt.Errorf("%w: unknown paper size %q", domain.ErrInvalidInput, raw)
			}
			return p, nil
		},
	},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	catalog     driven.TemplateCatalog
}

// NewSettingsService creates a new settings service. catalog may be nil,
// in which case editor.default_template is not validated.
func NewSettingsService(configStore driven.ConfigStore, catalog driven.TemplateCatalog) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		catalog:     catalog,
	}
}

// Get returns the effective settings.
func (s *SettingsService) Get() domain.EditorSettings {
	defaults := domain.DefaultEditorSettings()

	return domain.EditorSettings{
		Autosave: domain.AutosaveSettings{
			Delay:   s.getMillis(KeyAutosaveDelay, defaults.Autosave.Delay),
			Timeout: s.getMillis(KeyAutosaveTimeout, defaults.Autosave.Timeout),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
		Remote: domain.RemoteSettings{
			BaseURL: s.configStore.GetString(KeyRemoteBaseURL),
			Token:   s.configStore.GetString(KeyRemoteToken),
			Rate:    s.getFloat(KeyRemoteRate, defaults.Remote.Rate),
		},
		HistoryLimit:    s.getHistoryLimit(defaults.HistoryLimit),
		DefaultTemplate: s.getTemplate(defaults.DefaultTemplate),
		Paper:           s.getPaper(defaults.Paper),
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.EditorSettings {
	return domain.DefaultEditorSettings()
}

// Set validates and persists a single key.
func (s *SettingsService) Set(key, value string) error {
	def, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	parsed, err := def.parse(s, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Unset removes a key so its default applies.
func (s *SettingsService) Unset(key string) error {
	if _, ok := lookupSetting(key); !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Describe lists every known key with its effective and default values.
func (s *SettingsService) Describe() []driving.SettingInfo {
	current := s.Get()
	defaults := s.GetDefaults()
	out := make([]driving.SettingInfo, 0, len(settingDefs))
	for _, def := range settingDefs {
		out = append(out, driving.SettingInfo{
			Key:         def.key,
			Value:       def.format(current),
			Default:     def.format(defaults),
			Description: def.description,
		})
	}
	return out
}

func lookupSetting(key string) (settingDef, bool) {
	for _, def := range settingDefs {
		if def.key == key {
			return def, true
		}
	}
	return settingDef{}, false
}

func parsePositiveInt(_ *SettingsService, raw string) (any, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: %q is not a positive integer", domain.ErrInvalidInput, raw)
	}
	return v, nil
}

func parseAny(_ *SettingsService, raw string) (any, error) {
	return raw, nil
}

func formatMillis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	ms := s.configStore.GetInt(key)
	if ms <= 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	v := s.configStore.GetFloat(key)
	if v <= 0 {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getHistoryLimit(defaultVal int) int {
	v := s.configStore.GetInt(KeyHistoryLimit)
	if v <= 0 || v > maxHistoryLimit {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getTemplate(defaultVal string) string {
	val := s.configStore.GetString(KeyDefaultTemplate)
	if val == "" || (s.catalog != nil && !s.catalog.Has(val)) {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPaper(defaultVal string) string {
	switch val := strings.ToLower(s.configStore.GetString(KeyExportPaper)); val {
	case "a4", "letter":
		return val
	default:
		return defaultVal
	}
}
