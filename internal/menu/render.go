package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mahima-jayshri/studentdb/internal/database"
)

type timeColumn int

const (
	timeColumnCreated timeColumn = iota
	timeColumnUpdated
)

const timestampFormat = "2006-01-02 15:04:05"

var tableRule = strings.Repeat("=", 90)

// renderTable prints students in the fixed-width layout. Listings show the
// created timestamp, search results show the updated one.
func (c *Controller) renderTable(students []*database.Student, col timeColumn) {
	header := "Created"
	if col == timeColumnUpdated {
		header = "Updated"
	}

	fmt.Fprintf(c.out, "\n%s\n", tableRule)
	fmt.Fprintf(c.out, "%-5s %-25s %-5s %-15s %-10s %-20s\n", "ID", "Name", "Age", "Class", "Marks", header)
	fmt.Fprintln(c.out, tableRule)

	for _, s := range students {
		ts := s.CreatedAt
		if col == timeColumnUpdated {
			ts = s.UpdatedAt
		}
		fmt.Fprintf(c.out, "%-5d %-25s %-5d %-15s %-10s %-20s\n",
			s.ID, s.Name, s.Age, s.Class,
			strconv.FormatFloat(s.Marks, 'f', 2, 64),
			ts.Format(timestampFormat))
	}
	fmt.Fprintln(c.out, tableRule)
}
