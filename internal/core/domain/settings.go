package domain

import "time"

const unknownDescription = "Unknown"

// StorageBackend selects where builds are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite stores builds in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps builds in memory for the lifetime of the process.
	StorageMemory StorageBackend = "memory"

	// StorageRemote talks to the hosted builds API.
	StorageRemote StorageBackend = "remote"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory, StorageRemote:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (local file)"
	case StorageMemory:
		return "Memory (not persisted)"
	case StorageRemote:
		return "Remote (builds API)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageSQLite, StorageMemory, StorageRemote}
}

// PaperFor returns the paper size for a config name, A4 when unknown.
func PaperFor(name string) PaperSize {
	switch name {
	case "letter", "Letter":
		return PaperLetter
	default:
		return PaperA4
	}
}

// AutosaveSettings controls the autosave controller.
type AutosaveSettings struct {
	// Delay is the debounce window between the last edit and the save.
	Delay time.Duration

	// Timeout bounds a single save request.
	Timeout time.Duration
}

// StorageSettings selects and configures the build store.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the SQLite database. Empty means ~/.vitae/data.
	DataDir string
}

// RemoteSettings configures the hosted builds API.
type RemoteSettings struct {
	BaseURL string

	// Token is sent as a bearer token.
	Token string

	// Rate is the proactive request rate in requests per second.
	Rate float64
}

// IsConfigured returns true if the remote store can be used.
func (r RemoteSettings) IsConfigured() bool {
	return r.BaseURL != ""
}

// EditorSettings holds all application settings.
type EditorSettings struct {
	Autosave AutosaveSettings
	Storage  StorageSettings
	Remote   RemoteSettings

	// HistoryLimit bounds the undo stack depth.
	HistoryLimit int

	// DefaultTemplate is used for new documents.
	DefaultTemplate string

	// Paper is the export paper size name (a4, letter).
	Paper string
}

// DefaultEditorSettings returns settings with sensible defaults.
func DefaultEditorSettings() EditorSettings {
	return EditorSettings{
		Autosave: AutosaveSettings{
			Delay:   1500 * time.Millisecond,
			Timeout: 15 * time.Second,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Remote: RemoteSettings{
			Rate: 5,
		},
		HistoryLimit:    50,
		DefaultTemplate: "classic",
		Paper:           "a4",
	}
}
