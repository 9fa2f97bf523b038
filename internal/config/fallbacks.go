package config

import (
	"strings"

	"github.com/mahima-jayshri/studentdb/internal/database"
)

// defaultLogins are the conventional local development logins tried when
// no explicit login was configured, in order.
var defaultLogins = []struct {
	host, user, password string
}{
	{"localhost", "root", ""},
	{"localhost", "root", "root"},
	{"127.0.0.1", "root", ""},
}

// defaultPort returns the engine's conventional port.
func defaultPort(driver string) int {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pg":
		return 5432
	default:
		return 3306
	}
}

// isSQLite reports whether the driver names the embedded engine.
func isSQLite(driver string) bool {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return true
	}
	return false
}

// EffectivePort resolves the configured port or the driver's default.
func (c *Config) EffectivePort() int {
	if c.Port > 0 {
		return c.Port
	}
	return defaultPort(c.Driver)
}

// HasExplicitLogin reports whether any part of the login was pinned.
func (c *Config) HasExplicitLogin() bool {
	return c.Host != "" || c.User != "" || c.Password != ""
}

// StoragePath resolves the sqlite file. A bare database name becomes a
// .db file in the working directory; anything that already looks like a
// path is used as-is.
func (c *Config) StoragePath() string {
	if strings.ContainsAny(c.Database, `/\.`) {
		return c.Database
	}
	return c.Database + ".db"
}

// Fallbacks returns the credential sequence to walk when connecting: the
// explicit login first when one was given, then the well-known local
// defaults.
func (c *Config) Fallbacks() []database.Credentials {
	port := c.EffectivePort()

	creds := make([]database.Credentials, 0, len(defaultLogins)+1)
	if c.HasExplicitLogin() {
		host := c.Host
		if host == "" {
			host = "localhost"
		}
		user := c.User
		if user == "" {
			user = "root"
		}
		creds = append(creds, database.Credentials{
			Host: host, Port: port, User: user, Password: c.Password,
		})
	}
	for _, l := range defaultLogins {
		creds = append(creds, database.Credentials{
			Host: l.host, Port: port, User: l.user, Password: l.password,
		})
	}
	return creds
}

// DatabaseConfig assembles the connection settings for database.Connect.
// The interactive credential prompt is wired up by the caller.
func (c *Config) DatabaseConfig() database.Config {
	if isSQLite(c.Driver) {
		return database.Config{
			Driver:         c.Driver,
			Database:       c.StoragePath(),
			ConnectTimeout: c.ConnectTimeout,
		}
	}
	return database.Config{
		Driver:         c.Driver,
		Database:       c.Database,
		Credentials:    c.Fallbacks(),
		ConnectTimeout: c.ConnectTimeout,
	}
}
