package utils

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	herrors "github.com/julianstephens/habitual/internal/errors"
)

// Day keys are YYYY-MM-DD strings naming a calendar day. "Today" is the date
// of the current instant in the caller's location, truncated; it never rolls
// over through a UTC conversion.

// Today returns the day key of the current instant in loc.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return DayKey(time.Now().In(loc))
}

// DayKey returns the day key of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses a day key into UTC midnight of that date.
func ParseDay(key string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, &herrors.InvalidDateError{Value: key}
	}
	return t, nil
}

// ValidDay reports whether key names a real calendar day.
func ValidDay(key string) bool {
	_, err := ParseDay(key)
	return err == nil
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns b minus a in whole calendar days.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDay(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDay(b)
	if err != nil {
		return 0, err
	}
	// Both are UTC midnights. Unix seconds do not saturate the way Duration does.
	return int((tb.Unix() - ta.Unix()) / secondsPerDay), nil
}

// AddDays returns the day key n days after key (n may be negative).
func AddDays(key string, n int) (string, error) {
	t, err := ParseDay(key)
	if err != nil {
		return "", err
	}
	return DayKey(t.AddDate(0, 0, n)), nil
}

// Weekday returns the day of the week of key.
func Weekday(key string) (time.Weekday, error) {
	t, err := ParseDay(key)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// IsAfter reports whether day a comes strictly after day b.
func IsAfter(a, b string) (bool, error) {
	d, err := DaysBetween(b, a)
	if err != nil {
		return false, err
	}
	return d > 0, nil
}
