// Package csvdoc answers single-cell lookups against an in-memory CSV
// document. The first line is the header; cells are addressed by column
// name and a row selector. Parsing is byte-oriented: commas split fields
// unless inside double quotes, and non-ASCII content passes through
// untouched. Multi-line quoted fields are out of scope.
package csvdoc

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultMaxColumns caps header column discovery.
	DefaultMaxColumns = 256

	// DefaultMaxValueLen caps the length of a returned cell value.
	DefaultMaxValueLen = 1024
)

var (
	// ErrColumnNotFound reports that the header holds no such column.
	ErrColumnNotFound = errors.New("column not found")

	// ErrRowNotFound reports that the selected row does not exist.
	ErrRowNotFound = errors.New("row not found")

	// ErrColumnNotFoundInRow reports that the selected row has fewer
	// columns than the header promised for the target column.
	ErrColumnNotFoundInRow = errors.New("column not found in row")

	// ErrTooManyColumns reports a header wider than the configured cap.
	ErrTooManyColumns = errors.New("too many columns in header")

	// ErrValueTooLong reports a cell longer than the configured cap.
	// Values are never silently truncated.
	ErrValueTooLong = errors.New("cell value too long")
)

// Document is an immutable in-memory CSV document.
type Document struct {
	data       string
	maxColumns int
	maxValue   int
}

// Option adjusts document limits.
type Option func(*Document)

// WithMaxColumns overrides the header column cap.
func WithMaxColumns(n int) Option {
	return func(d *Document) { d.maxColumns = n }
}

// WithMaxValueLen overrides the cell value length cap.
func WithMaxValueLen(n int) Option {
	return func(d *Document) { d.maxValue = n }
}

// New wraps raw CSV bytes in a Document. The bytes are copied into an
// immutable string, so the caller may reuse its buffer afterwards.
func New(data []byte, opts ...Option) *Document {
	d := &Document{
		data:       string(data),
		maxColumns: DefaultMaxColumns,
		maxValue:   DefaultMaxValueLen,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RowSelector picks a data row: the nth row after the header, or the
// final non-empty row.
type RowSelector struct {
	last  bool
	index int
}

// ByIndex selects the nth data row after the header, starting at 0.
func ByIndex(n int) RowSelector { return RowSelector{index: n} }

// LastRow selects the final non-empty data row.
func LastRow() RowSelector { return RowSelector{last: true} }

// Lookup returns the cell at the selected row under the named column.
// Column names match by trimmed exact equality; duplicates resolve to the
// first occurrence. Header misses, missing rows, and short rows fail with
// distinct errors.
func (d *Document) Lookup(sel RowSelector, column string) (string, error) {
	headerEnd := strings.IndexByte(d.data, '\n')
	header := d.data
	if headerEnd >= 0 {
		header = d.data[:headerEnd]
	}

	target, err := d.columnIndex(header, column)
	if err != nil {
		return "", err
	}

	if headerEnd < 0 {
		return "", errors.Wrapf(ErrRowNotFound, "document has no data rows")
	}

	row, err := selectRow(d.data[headerEnd+1:], sel)
	if err != nil {
		return "", err
	}

	value, ok := fieldAt(row, target)
	if !ok {
		return "", errors.Wrapf(ErrColumnNotFoundInRow, "column %q (index %d)", column, target)
	}
	if len(value) > d.maxValue {
		return "", errors.Wrapf(ErrValueTooLong, "%d bytes exceeds cap %d", len(value), d.maxValue)
	}
	return value, nil
}

// columnIndex resolves a column name to its position in the header line.
// A header wider than the cap fails loudly rather than silently stopping
// discovery at the cap.
func (d *Document) columnIndex(header, column string) (int, error) {
	idx := 0
	found := -1
	splitFields(header, func(i int, field string) bool {
		idx = i + 1
		if found < 0 && trimCell(field) == column {
			found = i
		}
		return true
	})
	if idx > d.maxColumns {
		return 0, errors.Wrapf(ErrTooManyColumns, "%d columns exceeds cap %d", idx, d.maxColumns)
	}
	if found < 0 {
		return 0, errors.Wrapf(ErrColumnNotFound, "column %q", column)
	}
	return found, nil
}

// selectRow returns the selected data row from the body (everything after
// the header line's newline), without its line terminator.
func selectRow(body string, sel RowSelector) (string, error) {
	if sel.last {
		last := ""
		for off := 0; off < len(body); {
			end := strings.IndexByte(body[off:], '\n')
			var line string
			if end < 0 {
				line = body[off:]
				off = len(body)
			} else {
				line = body[off : off+end]
				off += end + 1
			}
			if strings.TrimSuffix(line, "\r") != "" {
				last = line
			}
		}
		if strings.TrimSuffix(last, "\r") == "" {
			return "", errors.Wrap(ErrRowNotFound, "document has no data rows")
		}
		return last, nil
	}

	off := 0
	for n := sel.index; n > 0; n-- {
		end := strings.IndexByte(body[off:], '\n')
		if end < 0 {
			return "", errors.Wrapf(ErrRowNotFound, "row index %d", sel.index)
		}
		off += end + 1
	}
	if off >= len(body) {
		return "", errors.Wrapf(ErrRowNotFound, "row index %d", sel.index)
	}
	if end := strings.IndexByte(body[off:], '\n'); end >= 0 {
		return body[off : off+end], nil
	}
	return body[off:], nil
}

// fieldAt walks the row's fields until the target index and returns the
// trimmed cell. ok is false when the row has fewer fields.
func fieldAt(row string, target int) (value string, ok bool) {
	splitFields(row, func(i int, field string) bool {
		if i == target {
			value = trimCell(field)
			ok = true
			return false
		}
		return true
	})
	return value, ok
}

// splitFields runs fn over the comma-separated fields of one line. A
// double quote toggles quoted state; commas inside quotes do not split.
// fn returning false stops the scan.
func splitFields(line string, fn func(i int, field string) bool) {
	inQuotes := false
	start := 0
	idx := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if inQuotes {
				continue
			}
			if !fn(idx, line[start:i]) {
				return
			}
			idx++
			start = i + 1
		}
	}
	fn(idx, line[start:])
}

// trimCell strips the surrounding junk a cell may carry: spaces, tabs,
// wrapping quotes, and a trailing carriage return.
func trimCell(s string) string {
	s = strings.TrimLeft(s, " \t\"")
	return strings.TrimRight(s, " \t\"\r")
}
