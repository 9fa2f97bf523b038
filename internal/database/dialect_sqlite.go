package database

import (
	"context"
	"database/sql"
)

// sqliteDialect targets embedded SQLite database files.
type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite" }

// DSN treats the database name as a file path. The busy timeout keeps a
// second opener of the same file from failing immediately with SQLITE_BUSY.
func (sqliteDialect) DSN(_ Credentials, dbName string) string {
	return dbName + "?_pragma=busy_timeout(5000)"
}

func (sqliteDialect) ServerDSN(Credentials) string { return "" }

// EnsureDatabase is a no-op: opening the file creates it.
func (sqliteDialect) EnsureDatabase(context.Context, *sql.DB, string) error { return nil }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) InsertReturnsID() bool { return false }

// SQLite LIKE ignores case for ASCII by default.
func (sqliteDialect) SubstringMatch() string { return "LIKE" }
