// Package menu drives the interactive session: it renders the numbered
// menu on stdout, reads choices and field values from stdin, and calls
// into the student store. All terminal output goes through the controller
// so tests can script a whole session against a buffer.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mahima-jayshri/studentdb/internal/database"
)

var menuRule = strings.Repeat("=", 60)

// Controller drives the menu loop over a student store.
type Controller struct {
	store *database.DB
	in    *lineReader
	out   io.Writer
}

// New creates a controller reading from in and rendering to out.
func New(store *database.DB, in io.Reader, out io.Writer) *Controller {
	return &Controller{store: store, in: newLineReader(in), out: out}
}

// Run shows the menu until the user exits, the input ends, or the context
// is cancelled. End of input and cancellation both count as a normal exit,
// so the caller can treat any returned error as fatal.
func (c *Controller) Run(ctx context.Context) error {
	fmt.Fprintf(c.out, "\n%s\n", menuRule)
	fmt.Fprintln(c.out, "WELCOME TO STUDENT MANAGEMENT SYSTEM")
	fmt.Fprintln(c.out, menuRule)

	for {
		c.printMenu()

		choice, err := c.prompt(ctx, "\nEnter your choice (1-8): ")
		if err != nil {
			return c.finish(err)
		}

		var opErr error
		switch choice {
		case "1":
			opErr = c.addStudent(ctx)
		case "2":
			opErr = c.updateStudent(ctx)
		case "3":
			opErr = c.deleteStudent(ctx)
		case "4":
			opErr = c.viewAllStudents(ctx)
		case "5":
			opErr = c.searchByName(ctx)
		case "6":
			opErr = c.searchByID(ctx)
		case "7":
			opErr = c.showCount(ctx)
		case "8":
			fmt.Fprintln(c.out, "\nThank you for using Student Management System. Goodbye!")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please enter a number between 1 and 8.")
		}
		if opErr != nil {
			return c.finish(opErr)
		}
	}
}

// finish maps end-of-input conditions onto a clean exit.
func (c *Controller) finish(err error) error {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(c.out, "\n\nProgram interrupted by user")
		return nil
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out)
		return nil
	}
	return err
}

func (c *Controller) printMenu() {
	fmt.Fprintf(c.out, "\n%s\n", menuRule)
	fmt.Fprintln(c.out, "STUDENT MANAGEMENT SYSTEM")
	fmt.Fprintln(c.out, menuRule)
	fmt.Fprintln(c.out, "1. Add New Student")
	fmt.Fprintln(c.out, "2. Update Student Information")
	fmt.Fprintln(c.out, "3. Delete Student")
	fmt.Fprintln(c.out, "4. View All Students")
	fmt.Fprintln(c.out, "5. Search Student by Name")
	fmt.Fprintln(c.out, "6. Search Student by ID")
	fmt.Fprintln(c.out, "7. Display Student Count")
	fmt.Fprintln(c.out, "8. Exit")
	fmt.Fprintln(c.out, menuRule)
}

// renderError reports a failed operation without breaking the session.
func (c *Controller) renderError(err error) {
	var verr *database.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			fmt.Fprintln(c.out, "Invalid input: "+f.Message)
		}
		return
	}

	log.Error().Err(err).Msg("Operation failed")
	fmt.Fprintf(c.out, "An error occurred: %v\n", err)
}

func (c *Controller) addStudent(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nEnter Student Details:")

	name, err := c.prompt(ctx, "Name: ")
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Fprintln(c.out, "Name cannot be empty!")
		return nil
	}

	age, err := c.promptAge(ctx)
	if err != nil {
		return err
	}

	class, err := c.prompt(ctx, "Class: ")
	if err != nil {
		return err
	}
	if class == "" {
		fmt.Fprintln(c.out, "Class cannot be empty!")
		return nil
	}

	marks, err := c.promptMarks(ctx)
	if err != nil {
		return err
	}

	id, err := c.store.AddStudent(ctx, database.AddStudentParams{
		Name:  name,
		Age:   age,
		Class: class,
		Marks: marks,
	})
	if err != nil {
		c.renderError(err)
		return nil
	}

	log.Info().Int64("id", id).Str("name", name).Msg("Student added")
	fmt.Fprintf(c.out, "Student added successfully with ID: %d\n", id)
	return nil
}

func (c *Controller) updateStudent(ctx context.Context) error {
	id, ok, err := c.promptID(ctx, "Enter student ID to update: ")
	if err != nil || !ok {
		return err
	}

	fmt.Fprintln(c.out, "\nEnter new information (leave blank to keep current value):")

	var params database.UpdateStudentParams

	name, err := c.prompt(ctx, "Name: ")
	if err != nil {
		return err
	}
	if name != "" {
		params.Name = database.Ptr(name)
	}

	ageRaw, err := c.prompt(ctx, "Age: ")
	if err != nil {
		return err
	}
	if ageRaw != "" {
		age, convErr := strconv.Atoi(ageRaw)
		if convErr != nil {
			fmt.Fprintln(c.out, "Please enter valid numeric values for ID, age, and marks")
			return nil
		}
		params.Age = database.Ptr(age)
	}

	class, err := c.prompt(ctx, "Class: ")
	if err != nil {
		return err
	}
	if class != "" {
		params.Class = database.Ptr(class)
	}

	marksRaw, err := c.prompt(ctx, "Marks: ")
	if err != nil {
		return err
	}
	if marksRaw != "" {
		marks, convErr := strconv.ParseFloat(marksRaw, 64)
		if convErr != nil {
			fmt.Fprintln(c.out, "Please enter valid numeric values for ID, age, and marks")
			return nil
		}
		params.Marks = database.Ptr(marks)
	}

	if params.IsZero() {
		fmt.Fprintln(c.out, "No changes provided")
		return nil
	}

	switch err := c.store.UpdateStudent(ctx, id, params); {
	case errors.Is(err, database.ErrNotFound):
		fmt.Fprintf(c.out, "No student found with ID %d\n", id)
	case errors.Is(err, database.ErrNoFields):
		fmt.Fprintln(c.out, "No changes provided")
	case err != nil:
		c.renderError(err)
	default:
		log.Info().Int64("id", id).Msg("Student updated")
		fmt.Fprintf(c.out, "Student with ID %d updated successfully\n", id)
	}
	return nil
}

func (c *Controller) deleteStudent(ctx context.Context) error {
	id, ok, err := c.promptID(ctx, "Enter student ID to delete: ")
	if err != nil || !ok {
		return err
	}

	confirm, err := c.prompt(ctx, fmt.Sprintf("Are you sure you want to delete student with ID %d? (yes/no): ", id))
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "yes") {
		fmt.Fprintln(c.out, "Deletion cancelled")
		return nil
	}

	switch err := c.store.DeleteStudent(ctx, id); {
	case errors.Is(err, database.ErrNotFound):
		fmt.Fprintf(c.out, "No student found with ID %d\n", id)
	case err != nil:
		c.renderError(err)
	default:
		log.Info().Int64("id", id).Msg("Student deleted")
		fmt.Fprintf(c.out, "Student with ID %d deleted successfully\n", id)
	}
	return nil
}

func (c *Controller) viewAllStudents(ctx context.Context) error {
	students, err := c.store.ListStudents(ctx)
	if err != nil {
		c.renderError(err)
		return nil
	}
	if len(students) == 0 {
		fmt.Fprintln(c.out, "No students found in the database")
		return nil
	}

	c.renderTable(students, timeColumnCreated)
	fmt.Fprintf(c.out, "Total students: %d\n", len(students))
	return nil
}

func (c *Controller) searchByName(ctx context.Context) error {
	term, err := c.prompt(ctx, "Enter student name or part of name to search: ")
	if err != nil {
		return err
	}
	if term == "" {
		fmt.Fprintln(c.out, "Please enter a search term")
		return nil
	}

	students, err := c.store.SearchStudentsByName(ctx, term)
	if err != nil {
		c.renderError(err)
		return nil
	}
	if len(students) == 0 {
		fmt.Fprintf(c.out, "No students found matching '%s'\n", term)
		return nil
	}

	c.renderTable(students, timeColumnUpdated)
	fmt.Fprintf(c.out, "Found %d matching student(s)\n", len(students))
	return nil
}

func (c *Controller) searchByID(ctx context.Context) error {
	id, ok, err := c.promptID(ctx, "Enter student ID to search: ")
	if err != nil || !ok {
		return err
	}

	student, err := c.store.GetStudent(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintf(c.out, "No student found with ID %d\n", id)
		return nil
	}
	if err != nil {
		c.renderError(err)
		return nil
	}

	c.renderTable([]*database.Student{student}, timeColumnUpdated)
	fmt.Fprintln(c.out, "Found 1 matching student(s)")
	return nil
}

func (c *Controller) showCount(ctx context.Context) error {
	count, err := c.store.CountStudents(ctx)
	if err != nil {
		c.renderError(err)
		return nil
	}
	fmt.Fprintf(c.out, "\nTotal students in database: %d\n", count)
	return nil
}
