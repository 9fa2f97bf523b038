package database

import (
	"context"
	"fmt"
)

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats before
// the session ends. Server engines manage their own statistics, so it is
// a no-op for them.
func (db *DB) Optimize(ctx context.Context) error {
	if db.dialect.Name() != "sqlite" {
		return nil
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	return nil
}
