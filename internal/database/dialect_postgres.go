package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
)

// postgresDialect targets PostgreSQL servers through the pgx stdlib driver.
type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }

func (postgresDialect) DSN(cred Credentials, dbName string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cred.User, cred.Password),
		Host:   cred.Addr(),
		Path:   "/" + dbName,
	}
	return u.String()
}

// ServerDSN connects to the maintenance database, which always exists.
func (d postgresDialect) ServerDSN(cred Credentials) string {
	return d.DSN(cred, "postgres")
}

func (postgresDialect) EnsureDatabase(ctx context.Context, conn *sql.DB, name string) error {
	if err := validIdentifier(name); err != nil {
		return err
	}
	var exists bool
	err := conn.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check database %s: %w", name, err)
	}
	if exists {
		return nil
	}
	// CREATE DATABASE does not accept bind parameters and cannot run
	// inside a transaction.
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %q", name)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}

func (postgresDialect) Rebind(query string) string { return rebindPositional(query) }

func (postgresDialect) InsertReturnsID() bool { return true }

func (postgresDialect) SubstringMatch() string { return "ILIKE" }
