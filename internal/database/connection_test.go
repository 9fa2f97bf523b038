package database

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// unreachable points at a local port nothing listens on, so attempts fail
// fast without touching the network.
var unreachable = Credentials{Host: "127.0.0.1", Port: 1, User: "root"}

func TestConnectCreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")

	db, err := Connect(context.Background(), Config{Driver: "sqlite", Database: path})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}
	if db.Dialect().Name() != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %q", db.Dialect().Name())
	}
}

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect(context.Background(), Config{Driver: "oracle", Database: "student_db"})
	if err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "unsupported database driver") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConnectExhaustsCredentialList(t *testing.T) {
	_, err := Connect(context.Background(), Config{
		Driver:         "mysql",
		Database:       "student_db",
		Credentials:    []Credentials{unreachable, unreachable},
		ConnectTimeout: 2 * time.Second,
	})

	var cerr *ConnectError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConnectError, got %v", err)
	}
	if cerr.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", cerr.Attempts)
	}
	if cerr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
}

func TestConnectConsultsPromptAfterFailures(t *testing.T) {
	prompted := false
	_, err := Connect(context.Background(), Config{
		Driver:         "mysql",
		Database:       "student_db",
		Credentials:    []Credentials{unreachable},
		ConnectTimeout: 2 * time.Second,
		Prompt: func() (Credentials, string, error) {
			prompted = true
			return unreachable, "", nil
		},
	})

	if !prompted {
		t.Fatalf("expected prompt to be consulted")
	}
	var cerr *ConnectError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConnectError, got %v", err)
	}
	if cerr.Attempts != 2 {
		t.Fatalf("expected prompted attempt to be counted, got %d attempts", cerr.Attempts)
	}
}

func TestConnectPromptFailure(t *testing.T) {
	_, err := Connect(context.Background(), Config{
		Driver:         "mysql",
		Database:       "student_db",
		Credentials:    []Credentials{unreachable},
		ConnectTimeout: 2 * time.Second,
		Prompt: func() (Credentials, string, error) {
			return Credentials{}, "", io.EOF
		},
	})

	var cerr *ConnectError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConnectError, got %v", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected prompt failure to be wrapped, got %v", err)
	}
}

func TestConnectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prompted := false
	_, err := Connect(ctx, Config{
		Driver:      "mysql",
		Database:    "student_db",
		Credentials: []Credentials{unreachable},
		Prompt: func() (Credentials, string, error) {
			prompted = true
			return Credentials{}, "", nil
		},
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if prompted {
		t.Fatalf("expected prompt to be skipped after cancellation")
	}
}
