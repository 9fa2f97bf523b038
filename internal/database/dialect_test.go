package database

import (
	"strings"
	"testing"
)

func TestDialectFor(t *testing.T) {
	cases := []struct {
		driver string
		name   string
	}{
		{"mysql", "mysql"},
		{"mariadb", "mysql"},
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"pg", "postgres"},
	}

	for _, tc := range cases {
		d, err := dialectFor(tc.driver)
		if err != nil {
			t.Fatalf("failed to resolve driver %q: %v", tc.driver, err)
		}
		if d.Name() != tc.name {
			t.Fatalf("expected driver %q to resolve to %q, got %q", tc.driver, tc.name, d.Name())
		}
	}

	if _, err := dialectFor("oracle"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestMySQLDSN(t *testing.T) {
	d := mysqlDialect{}
	cred := Credentials{Host: "localhost", Port: 3306, User: "root", Password: "secret"}

	dsn := d.DSN(cred, "student_db")
	for _, want := range []string{"root:secret@", "tcp(localhost:3306)", "/student_db", "parseTime=true", "clientFoundRows=true"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("expected DSN to contain %q, got %q", want, dsn)
		}
	}

	server := d.ServerDSN(cred)
	if strings.Contains(server, "student_db") {
		t.Fatalf("expected server DSN without a database, got %q", server)
	}
}

func TestPostgresDSN(t *testing.T) {
	d := postgresDialect{}
	cred := Credentials{Host: "127.0.0.1", Port: 5432, User: "root", Password: "secret"}

	dsn := d.DSN(cred, "student_db")
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Fatalf("expected postgres URL, got %q", dsn)
	}
	for _, want := range []string{"root:secret@", "127.0.0.1:5432", "/student_db"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("expected DSN to contain %q, got %q", want, dsn)
		}
	}

	server := d.ServerDSN(cred)
	if !strings.HasSuffix(server, "/postgres") {
		t.Fatalf("expected server DSN to target the maintenance database, got %q", server)
	}
}

func TestSQLiteDSN(t *testing.T) {
	d := sqliteDialect{}

	dsn := d.DSN(Credentials{}, "students.db")
	if !strings.HasPrefix(dsn, "students.db") {
		t.Fatalf("expected DSN to start with the file path, got %q", dsn)
	}
	if !strings.Contains(dsn, "busy_timeout") {
		t.Fatalf("expected DSN to set a busy timeout, got %q", dsn)
	}

	if server := d.ServerDSN(Credentials{}); server != "" {
		t.Fatalf("expected no server DSN for sqlite, got %q", server)
	}
}

func TestRebindPositional(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM students WHERE id = ?", "SELECT * FROM students WHERE id = $1"},
		{"INSERT INTO students (name, age) VALUES (?, ?)", "INSERT INTO students (name, age) VALUES ($1, $2)"},
		{"UPDATE students SET name = ?, age = ? WHERE id = ?", "UPDATE students SET name = $1, age = $2 WHERE id = $3"},
	}

	for _, tc := range cases {
		if got := rebindPositional(tc.in); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestValidIdentifier(t *testing.T) {
	for _, name := range []string{"student_db", "StudentDB", "_private", "db2"} {
		if err := validIdentifier(name); err != nil {
			t.Fatalf("expected %q to be a valid identifier, got %v", name, err)
		}
	}
	for _, name := range []string{"", "2fast", "bad-name", "drop table", "db;--"} {
		if err := validIdentifier(name); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestSubstringMatchOperator(t *testing.T) {
	if op := (mysqlDialect{}).SubstringMatch(); op != "LIKE" {
		t.Fatalf("expected LIKE for mysql, got %q", op)
	}
	if op := (sqliteDialect{}).SubstringMatch(); op != "LIKE" {
		t.Fatalf("expected LIKE for sqlite, got %q", op)
	}
	// Postgres LIKE is case sensitive, lookups need ILIKE.
	if op := (postgresDialect{}).SubstringMatch(); op != "ILIKE" {
		t.Fatalf("expected ILIKE for postgres, got %q", op)
	}
}
