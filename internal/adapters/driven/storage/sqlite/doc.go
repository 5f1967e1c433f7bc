// Package sqlite provides a SQLite-based implementation of driven.BuildStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.vitae/data/builds.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite in WAL mode with a
// busy timeout, so the editor's autosave and a second CLI process can share a file.
package sqlite
