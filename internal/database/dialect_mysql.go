package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// mysqlDialect targets MySQL and MariaDB servers.
type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return "mysql" }
func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) DSN(cred Credentials, dbName string) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = cred.Addr()
	cfg.User = cred.User
	cfg.Passwd = cred.Password
	cfg.DBName = dbName
	// TIMESTAMP columns scan into time.Time instead of []byte.
	cfg.ParseTime = true
	// RowsAffected must report matched rows, not changed rows, so a
	// same-value update is not mistaken for a missing id.
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

// ServerDSN omits the database so provisioning can run before it exists.
func (d mysqlDialect) ServerDSN(cred Credentials) string {
	return d.DSN(cred, "")
}

func (mysqlDialect) EnsureDatabase(ctx context.Context, conn *sql.DB, name string) error {
	if err := validIdentifier(name); err != nil {
		return err
	}
	// CREATE DATABASE does not accept bind parameters.
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}

func (mysqlDialect) Rebind(query string) string { return query }

func (mysqlDialect) InsertReturnsID() bool { return false }

// LIKE is case-insensitive under the default utf8mb4 collation.
func (mysqlDialect) SubstringMatch() string { return "LIKE" }
