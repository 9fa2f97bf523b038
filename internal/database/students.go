package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate caches the struct validator; it is safe for concurrent use.
var validate = validator.New()

// Student represents one record in the students table
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Class     string    `json:"class"`
	Marks     float64   `json:"marks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddStudentParams carries the fields for a new student record
type AddStudentParams struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Age   int     `json:"age" validate:"gte=5,lte=25"`
	Class string  `json:"class" validate:"required,max=50"`
	Marks float64 `json:"marks" validate:"gte=0,lte=100"`
}

// UpdateStudentParams carries the fields to change on an existing record.
// Nil fields keep their current value.
type UpdateStudentParams struct {
	Name  *string  `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	Age   *int     `json:"age,omitempty" validate:"omitnil,gte=5,lte=25"`
	Class *string  `json:"class,omitempty" validate:"omitnil,min=1,max=50"`
	Marks *float64 `json:"marks,omitempty" validate:"omitnil,gte=0,lte=100"`
}

// IsZero reports whether no field was supplied.
func (p UpdateStudentParams) IsZero() bool {
	return p.Name == nil && p.Age == nil && p.Class == nil && p.Marks == nil
}

// checkParams runs struct validation and converts failures into a
// *ValidationError the caller can show to the user.
func checkParams(params any) error {
	if err := validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newValidationError(verrs)
		}
		return fmt.Errorf("failed to validate input: %w", err)
	}
	return nil
}

// roundMarks normalizes marks to the two decimal places the column stores.
func roundMarks(marks float64) float64 {
	return math.Round(marks*100) / 100
}

const studentColumns = "id, name, age, class, marks, created_at, updated_at"

// AddStudent validates and inserts a new student record, returning the id
// the database assigned.
func (db *DB) AddStudent(ctx context.Context, params AddStudentParams) (int64, error) {
	if err := checkParams(params); err != nil {
		return 0, err
	}
	params.Marks = roundMarks(params.Marks)

	query := db.rebind("INSERT INTO students (name, age, class, marks) VALUES (?, ?, ?, ?)")

	var id int64
	if db.dialect.InsertReturnsID() {
		err := db.QueryRowContext(ctx, query+" RETURNING id",
			params.Name, params.Age, params.Class, params.Marks).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to add student: %w", err)
		}
	} else {
		result, err := db.ExecContext(ctx, query,
			params.Name, params.Age, params.Class, params.Marks)
		if err != nil {
			return 0, fmt.Errorf("failed to add student: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get last insert id: %w", err)
		}
	}

	return id, nil
}

// GetStudent retrieves a student by ID
func (db *DB) GetStudent(ctx context.Context, id int64) (*Student, error) {
	query := db.rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")

	student := &Student{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&student.ID, &student.Name, &student.Age, &student.Class,
		&student.Marks, &student.CreatedAt, &student.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// UpdateStudent applies the supplied fields to an existing record. The
// statement is built from exactly the fields present. updated_at is always
// advanced, so engines without an ON UPDATE clause behave the same as MySQL.
func (db *DB) UpdateStudent(ctx context.Context, id int64, params UpdateStudentParams) error {
	if params.IsZero() {
		return ErrNoFields
	}
	if err := checkParams(params); err != nil {
		return err
	}

	assignments := make([]string, 0, 5)
	args := make([]any, 0, 5)
	if params.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *params.Name)
	}
	if params.Age != nil {
		assignments = append(assignments, "age = ?")
		args = append(args, *params.Age)
	}
	if params.Class != nil {
		assignments = append(assignments, "class = ?")
		args = append(args, *params.Class)
	}
	if params.Marks != nil {
		assignments = append(assignments, "marks = ?")
		args = append(args, roundMarks(*params.Marks))
	}
	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := db.rebind("UPDATE students SET " + strings.Join(assignments, ", ") + " WHERE id = ?")
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteStudent removes a student record by ID
func (db *DB) DeleteStudent(ctx context.Context, id int64) error {
	query := db.rebind("DELETE FROM students WHERE id = ?")
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListStudents returns every student ordered by id
func (db *DB) ListStudents(ctx context.Context) ([]*Student, error) {
	rows, err := db.QueryContext(ctx, "SELECT "+studentColumns+" FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return scanRowsToStudents(rows)
}

// SearchStudentsByName returns students whose name contains the term,
// ignoring case, ordered by name.
func (db *DB) SearchStudentsByName(ctx context.Context, term string) ([]*Student, error) {
	query := db.rebind(fmt.Sprintf(
		"SELECT %s FROM students WHERE name %s ? ORDER BY name",
		studentColumns, db.dialect.SubstringMatch()))

	rows, err := db.QueryContext(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	defer rows.Close()

	return scanRowsToStudents(rows)
}

// CountStudents returns the number of student records
func (db *DB) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// scanRowsToStudents converts sql.Rows to a slice of Student. The slice is
// non-nil even when nothing matched.
func scanRowsToStudents(rows *sql.Rows) ([]*Student, error) {
	students := make([]*Student, 0)
	for rows.Next() {
		student := &Student{}
		if err := rows.Scan(
			&student.ID, &student.Name, &student.Age, &student.Class,
			&student.Marks, &student.CreatedAt, &student.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return students, nil
}
