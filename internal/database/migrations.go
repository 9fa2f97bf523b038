package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migrate runs all pending schema migrations for the connected dialect.
func (db *DB) Migrate(ctx context.Context) error {
	log.Info().Msg("Running database migrations")

	// The migrations table itself uses types every engine accepts.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	log.Debug().Int("current_version", currentVersion).Msg("Current schema version")

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}
		script, ok := m.SQL[db.dialect.Name()]
		if !ok {
			return fmt.Errorf("migration %d has no script for dialect %s", m.Version, db.dialect.Name())
		}

		log.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applying migration")

		if err := db.Transaction(ctx, func(tx *sql.Tx) error {
			// Drivers take one statement per Exec call.
			for i, stmt := range splitStatements(script) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d statement %d failed: %w", m.Version, i+1, err)
				}
			}

			record := db.rebind("INSERT INTO schema_migrations (version) VALUES (?)")
			if _, err := tx.ExecContext(ctx, record, m.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}

			return nil
		}); err != nil {
			return err
		}
	}

	log.Info().Msg("Database migrations complete")
	return nil
}

type migration struct {
	Version int
	Name    string
	// SQL holds the migration script keyed by dialect name.
	SQL map[string]string
}

// splitStatements breaks a migration script into executable statements,
// dropping comment lines.
func splitStatements(script string) []string {
	var stmts []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" && s != ";" {
			stmts = append(stmts, s)
		}
		b.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()

	return stmts
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "create_students",
		SQL: map[string]string{
			"mysql": `
				-- Student records with audit timestamps
				CREATE TABLE IF NOT EXISTS students (
					id INT AUTO_INCREMENT PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					age INT NOT NULL,
					class VARCHAR(50) NOT NULL,
					marks DECIMAL(5,2) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
				);
			`,
			"sqlite": `
				-- AUTOINCREMENT keeps ids strictly increasing even after deletes
				CREATE TABLE IF NOT EXISTS students (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name VARCHAR(100) NOT NULL,
					age INTEGER NOT NULL,
					class VARCHAR(50) NOT NULL,
					marks DECIMAL(5,2) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`,
			"postgres": `
				CREATE TABLE IF NOT EXISTS students (
					id SERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					age INT NOT NULL,
					class VARCHAR(50) NOT NULL,
					marks DECIMAL(5,2) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`,
		},
	},
}
