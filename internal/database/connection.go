package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// PromptFunc supplies credentials interactively after every configured
// attempt has failed. A non-empty database name overrides the configured
// one.
type PromptFunc func() (Credentials, string, error)

// Config describes how to reach the student database.
type Config struct {
	// Driver selects the dialect: mysql, sqlite or postgres.
	Driver string
	// Database is the database name, or the file path for sqlite.
	Database string
	// Credentials are tried in order until one answers.
	Credentials []Credentials
	// ConnectTimeout bounds each individual attempt.
	ConnectTimeout time.Duration
	// Prompt, when set, is consulted once after the credential list is
	// exhausted.
	Prompt PromptFunc
}

const defaultConnectTimeout = 5 * time.Second

// Connect walks the credential list, provisions the database and schema,
// and returns a ready connection. When every attempt fails the returned
// error is a *ConnectError carrying the last failure, unless the context
// was cancelled first.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	tryOne := func(cred Credentials, dbName string) (*DB, error) {
		db, err := attempt(ctx, dialect, cred, dbName, timeout)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("dialect", dialect.Name()).Str("database", dbName).Msg("Database ready")
		return db, nil
	}

	// sqlite has no credentials to speak of; run the loop once with an
	// empty set so every dialect takes the same path.
	creds := cfg.Credentials
	if len(creds) == 0 {
		creds = []Credentials{{}}
	}

	var lastErr error
	attempts := 0
	for _, cred := range creds {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		attempts++
		db, err := tryOne(cred, cfg.Database)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Debug().Err(err).Str("host", cred.Host).Str("user", cred.User).Msg("Connection attempt failed")
	}

	if cfg.Prompt != nil && ctx.Err() == nil {
		cred, dbName, err := cfg.Prompt()
		if err != nil {
			return nil, &ConnectError{Attempts: attempts, Err: err}
		}
		if dbName == "" {
			dbName = cfg.Database
		}
		attempts++
		db, err := tryOne(cred, dbName)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Debug().Err(err).Str("host", cred.Host).Str("user", cred.User).Msg("Connection attempt failed")
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, &ConnectError{Attempts: attempts, Err: lastErr}
}

// attempt provisions the target database through a server-level connection
// when the dialect has one, then opens the database itself.
func attempt(ctx context.Context, d Dialect, cred Credentials, dbName string, timeout time.Duration) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if serverDSN := d.ServerDSN(cred); serverDSN != "" {
		server, err := open(ctx, d, serverDSN)
		if err != nil {
			return nil, err
		}
		err = d.EnsureDatabase(ctx, server.DB, dbName)
		server.Close()
		if err != nil {
			return nil, err
		}
	}

	return open(ctx, d, d.DSN(cred, dbName))
}
