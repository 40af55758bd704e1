package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ErrInvalidTime is returned when a string is not a recognizable date or time
var ErrInvalidTime = errors.New("invalid time format")

// localLayouts are tried in local time before falling back to cast
var localLayouts = []string{
	DefaultLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04",
	"2006/01/02",
}

// ParseTime parses a timestamp as found in a record or passed on the command line.
// Extra layouts are tried first, then the common local layouts, then
// anything cast understands (RFC3339, RFC1123, ...).
func ParseTime(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTime
	}

	for _, layout := range slices.Concat(layouts, localLayouts) {
		if layout == "" {
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	t, err := cast.ToTimeInDefaultLocationE(s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t, nil
}

// ValidateLayout checks that layout formats and parses back to the same minute
func ValidateLayout(layout string) error {
	if layout == "" {
		return fmt.Errorf("empty time layout")
	}
	ref := time.Date(2024, time.March, 9, 17, 45, 0, 0, time.Local)
	parsed, err := time.ParseInLocation(layout, ref.Format(layout), time.Local)
	if err != nil {
		return fmt.Errorf("time layout %q: %w", layout, err)
	}
	if !parsed.Equal(ref) {
		return fmt.Errorf("time layout %q does not keep minute precision", layout)
	}
	return nil
}
