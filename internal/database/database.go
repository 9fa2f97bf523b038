package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	// Drivers for the sqlite and postgres dialects. The mysql driver is
	// registered through the non-blank import in dialect_mysql.go.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB is a live connection to the student database. It wraps database/sql
// with the dialect that opened it.
type DB struct {
	*sql.DB
	dialect Dialect
	mu      sync.Mutex
}

// open dials dsn and verifies the server answers before handing the
// connection out.
func open(ctx context.Context, d Dialect, dsn string) (*DB, error) {
	conn, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// The interactive session drives a single handle from prompt to exit;
	// the pool never needs a second connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	log.Debug().Str("dialect", d.Name()).Msg("Database connection established")

	return &DB{DB: conn, dialect: d}, nil
}

// Dialect returns the dialect this connection was opened with.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	log.Debug().Str("dialect", db.dialect.Name()).Msg("Closing database connection")
	return db.DB.Close()
}

// rebind adapts ? placeholders to the dialect's notation.
func (db *DB) rebind(query string) string {
	return db.dialect.Rebind(query)
}

// Transaction wraps a function in a database transaction
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
