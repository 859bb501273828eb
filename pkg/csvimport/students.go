// Package csvimport reads student rosters uploaded as CSV.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Template is the sample roster offered for download.
const Template = "name,email,class\nJohn Doe,john@example.com,Math 101\nJane Smith,jane@example.com,Math 101\n"

var (
	// ErrEmpty is returned when the upload has no header row.
	ErrEmpty = errors.New("csv is empty")
	// ErrMissingNameColumn is returned when no header mentions a name.
	ErrMissingNameColumn = errors.New(`csv must contain a "name" column`)
)

// StudentRow is one roster line. ClassName is the raw class label and still
// has to be matched against existing classes.
type StudentRow struct {
	Name      string
	Email     *string
	ClassName string
}

type columns struct {
	name, email, class int
}

// locate picks the first header containing each keyword, case-insensitively.
func locate(headers []string) columns {
	cols := columns{name: -1, email: -1, class: -1}
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if cols.name < 0 && strings.Contains(h, "name") {
			cols.name = i
		}
		if cols.email < 0 && strings.Contains(h, "email") {
			cols.email = i
		}
		if cols.class < 0 && strings.Contains(h, "class") {
			cols.class = i
		}
	}
	return cols
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ParseStudents reads a roster. Rows without a name are skipped.
func ParseStudents(r io.Reader) ([]StudentRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := locate(headers)
	if cols.name < 0 {
		return nil, ErrMissingNameColumn
	}

	rows := make([]StudentRow, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		name := field(record, cols.name)
		if name == "" {
			continue
		}
		row := StudentRow{Name: name, ClassName: field(record, cols.class)}
		if email := field(record, cols.email); email != "" {
			row.Email = &email
		}
		rows = append(rows, row)
	}
	return rows, nil
}
