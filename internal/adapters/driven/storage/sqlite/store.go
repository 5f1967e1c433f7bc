package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vitae-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "builds.db"

// Store owns the SQLite connection and hands out store interfaces.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.vitae/data/builds.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vitae", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// BuildStore returns a BuildStore interface backed by this store.
func (s *Store) BuildStore() driven.BuildStore {
	return &buildStore{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Build Store ====================

// buildStore implements driven.BuildStore.
type buildStore struct {
	store *Store
}

var _ driven.BuildStore = (*buildStore)(nil)

// Create stores a new build under a fresh ID.
func (s *buildStore) Create(ctx context.Context, payload domain.Payload) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", &domain.PersistenceError{Op: "create", Err: fmt.Errorf("marshalling payload: %w", err)}
	}

	id := uuid.NewString()
	now := s.stamp()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO builds (id, title, template_id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, payload.Title, payload.Template, string(encoded), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return "", &domain.PersistenceError{Op: "create", Err: err}
	}
	return id, nil
}

// Update replaces the payload of an existing build.
func (s *buildStore) Update(ctx context.Context, buildID string, payload domain.Payload) (time.Time, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: buildID, Err: fmt.Errorf("marshalling payload: %w", err)}
	}

	now := s.stamp()
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE builds SET title = ?, template_id = ?, payload = ?, updated_at = ?
		WHERE id = ?
	`, payload.Title, payload.Template, string(encoded), now.UnixMilli(), buildID)
	if err != nil {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: buildID, Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: buildID, Err: err}
	}
	if rows == 0 {
		return time.Time{}, &domain.PersistenceError{Op: "update", BuildID: buildID, Err: domain.ErrNotFound}
	}
	return now, nil
}

// Get retrieves a build payload by ID.
func (s *buildStore) Get(ctx context.Context, buildID string) (*domain.Payload, error) {
	var encoded string
	err := s.store.db.QueryRowContext(ctx, "SELECT payload FROM builds WHERE id = ?", buildID).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying build: %w", err)
	}

	var payload domain.Payload
	if err := json.Unmarshal([]byte(encoded), &payload); err != nil {
		return nil, fmt.Errorf("unmarshalling build %s: %w", buildID, err)
	}
	return &payload, nil
}

// List returns summaries of all builds, most recently updated first.
func (s *buildStore) List(ctx context.Context) ([]domain.BuildSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, template_id, thumbnail, updated_at
		FROM builds ORDER BY updated_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.BuildSummary, 0)
	for rows.Next() {
		var (
			summary   domain.BuildSummary
			thumbnail sql.NullString
			updatedAt int64
		)
		if err := rows.Scan(&summary.BuildID, &summary.Title, &summary.TemplateID, &thumbnail, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		summary.Thumbnail = thumbnail.String
		summary.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Delete removes a build.
func (s *buildStore) Delete(ctx context.Context, buildID string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM builds WHERE id = ?", buildID)
	if err != nil {
		return fmt.Errorf("deleting build: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting build: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// stamp returns the current time at the precision stored in the database.
func (s *buildStore) stamp() time.Time {
	return s.store.now().UTC().Truncate(time.Millisecond)
}
