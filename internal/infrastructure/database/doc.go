// Package database provides SQLite connectivity for Scenecraft Core.
//
// This package manages:
//   - The connection, opened in WAL mode with a busy timeout
//   - Embedded, versioned schema migrations
//   - Health checks and lifecycle
//
// The only schema today is the key-value mirror used by the persistence
// package. All queries use parameterised statements and the database file
// is created with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql, and are registered by the migrations package.
package database
