// Package sqlite provides the SQLite-backed implementation of the
// DocumentStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Documents and their chunk
// sequences share a single database connection.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and applied in version order on startup.
//
// # Data Location
//
// By default, the database is stored at ~/.lectern/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
