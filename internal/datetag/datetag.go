// Package datetag parses the fixed-layout timestamp that daily log
// filenames embed, `YYYY-MM-DD_HH:MM:SS`, into a comparable instant.
package datetag

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrMalformed reports that the six integers could not be extracted
	// in the expected order and punctuation.
	ErrMalformed = errors.New("malformed date string")

	// ErrOutOfRange reports a calendar component outside its valid range.
	ErrOutOfRange = errors.New("date component out of range")

	// ErrConversion reports a calendar tuple with no defined epoch
	// instant.
	ErrConversion = errors.New("timestamp conversion failed")
)

// Tag is a parsed filename timestamp. Tags compare by their epoch
// instant, computed in local time the way the log writer stamped them.
type Tag struct {
	Year, Month, Day     int
	Hour, Minute, Second int

	instant time.Time
}

// Parse extracts a Tag from s. Trailing bytes after the seconds field
// (such as a file extension) are ignored.
func Parse(s string) (Tag, error) {
	var t Tag
	n, err := fmt.Sscanf(s, "%d-%d-%d_%d:%d:%d",
		&t.Year, &t.Month, &t.Day, &t.Hour, &t.Minute, &t.Second)
	if err != nil || n != 6 {
		return Tag{}, errors.Wrapf(ErrMalformed, "%q", s)
	}

	if t.Year < 1970 || t.Year > 2100 ||
		t.Month < 1 || t.Month > 12 ||
		t.Day < 1 || t.Day > 31 ||
		t.Hour < 0 || t.Hour > 23 ||
		t.Minute < 0 || t.Minute > 59 ||
		t.Second < 0 || t.Second > 59 {
		return Tag{}, errors.Wrapf(ErrOutOfRange, "%q", s)
	}

	t.instant = time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, time.Local)
	if t.instant.Unix() < 0 {
		return Tag{}, errors.Wrapf(ErrConversion, "%q", s)
	}
	return t, nil
}

// Instant returns the tag's absolute time.
func (t Tag) Instant() time.Time { return t.instant }

// After reports whether t is strictly later than o.
func (t Tag) After(o Tag) bool { return t.instant.After(o.instant) }

// String renders the tag back in its filename layout.
func (t Tag) String() string {
	return fmt.Sprintf("%04d-%02d-%02d_%02d:%02d:%02d",
		t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}
