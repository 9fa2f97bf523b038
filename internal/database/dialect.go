package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// Credentials identifies one server login to try while connecting.
type Credentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
}

// Addr returns the host:port pair for the server.
func (c Credentials) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Dialect captures the engine-specific corners of SQL and connection
// handling so the rest of the package can stay engine-neutral.
type Dialect interface {
	// Name identifies the dialect: "mysql", "sqlite" or "postgres".
	Name() string
	// DriverName is the database/sql driver used to open connections.
	DriverName() string
	// DSN builds the data source name for the named database. For
	// sqlite the database name is a file path.
	DSN(cred Credentials, dbName string) string
	// ServerDSN builds a data source name with no database selected,
	// used while provisioning. Empty when the engine has no server
	// level to speak of.
	ServerDSN(cred Credentials) string
	// EnsureDatabase creates the named database if it does not exist,
	// using a server-level connection.
	EnsureDatabase(ctx context.Context, conn *sql.DB, name string) error
	// Rebind rewrites ? placeholders into the engine's notation.
	Rebind(query string) string
	// InsertReturnsID reports whether inserts must append RETURNING id
	// instead of reading LastInsertId from the result.
	InsertReturnsID() bool
	// SubstringMatch is the operator for case-insensitive LIKE matching.
	SubstringMatch() string
}

// dialectFor resolves the dialect for a configured driver name.
func dialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "mysql", "mariadb":
		return mysqlDialect{}, nil
	case "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	case "postgres", "postgresql", "pg":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q (must be one of: mysql, sqlite, postgres)", driver)
	}
}

// rebindPositional rewrites ? placeholders to $1..$n.
func rebindPositional(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdentifier guards names that end up inside CREATE DATABASE
// statements, where bind parameters cannot be used.
func validIdentifier(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid database name %q", name)
	}
	return nil
}
