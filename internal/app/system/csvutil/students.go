package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dalemusser/thinkedge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/thinkedge/internal/app/system/inputval"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
)

// ErrTooManyRows is returned when the file has more data rows than allowed.
var ErrTooManyRows = errors.New("csv has too many rows")

// StudentRow is one normalized row of a student roster.
type StudentRow struct {
	Name  string
	Email string // lower-cased
}

// RowError describes a rejected row. Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Reason string
	Raw    []string
}

// ParseOptions tunes ParseStudentCSV.
type ParseOptions struct {
	MaxRows int // 0 means unlimited
}

// DefaultParseOptions returns options with no row limit.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{}
}

// ParseResult holds valid rows and per-row errors.
type ParseResult struct {
	Rows   []StudentRow
	Errors []RowError
}

// HasErrors reports whether any row was rejected.
func (r *ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// ParseStudentCSV reads a "name,email" roster. A header row is detected
// and skipped, blank rows are ignored, and a UTF-8 BOM is tolerated.
// Rows with a missing name, a bad email, or an email already seen earlier
// in the file are reported in Errors and left out of Rows. It never
// touches storage.
func ParseStudentCSV(r io.Reader, opts ParseOptions) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	res := &ParseResult{}
	seen := make(map[string]int)
	line := 0
	dataRows := 0

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			if isHeader(rec) {
				continue
			}
		}
		if blank(rec) {
			continue
		}

		dataRows++
		if opts.MaxRows > 0 && dataRows > opts.MaxRows {
			return nil, ErrTooManyRows
		}

		var name, email string
		if len(rec) > 0 {
			name = htmlsanitize.StripTags(normalize.Name(rec[0]))
		}
		if len(rec) > 1 {
			email = normalize.Email(rec[1])
		}

		var reason string
		switch {
		case name == "":
			reason = "missing name"
		case email == "":
			reason = "missing email"
		case !inputval.IsValidEmail(email):
			reason = "invalid email"
		}
		if reason == "" {
			if first, dup := seen[email]; dup {
				reason = fmt.Sprintf("duplicate email (first seen on line %d)", first)
			}
		}
		if reason != "" {
			res.Errors = append(res.Errors, RowError{Line: line, Reason: reason, Raw: rec})
			continue
		}
		seen[email] = line
		res.Rows = append(res.Rows, StudentRow{Name: name, Email: email})
	}
	return res, nil
}

// FormatErrorsHTML summarizes up to maxShow errors for display. It
// returns "" when there are none.
func (r *ParseResult) FormatErrorsHTML(maxShow int) template.HTML {
	if len(r.Errors) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Upload rejected: %d row(s) are invalid.<br>", len(r.Errors))
	b.WriteString("Each row must have a Name and a valid Email.<br>")

	show := min(maxShow, len(r.Errors))
	for _, e := range r.Errors[:show] {
		raw := "(empty row)"
		if len(e.Raw) > 0 {
			raw = strings.Join(e.Raw, " | ")
		}
		fmt.Fprintf(&b, "• line %d: %s → %s<br>",
			e.Line,
			template.HTMLEscapeString(raw),
			template.HTMLEscapeString(e.Reason))
	}
	if rest := len(r.Errors) - show; rest > 0 {
		fmt.Fprintf(&b, "…and %d more.<br>", rest)
	}
	return template.HTML(b.String())
}

func isHeader(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return (first == "name" || first == "full name" || first == "student name") &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "email")
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
