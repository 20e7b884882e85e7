// Package datetime provides calendar date and month utilities that never depend
// on the local time zone: every value is built from year/month/day components.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/outlet-analytics/pkg/constants"
)

// Date is a calendar date without a time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// acceptedLayouts lists every textual date shape a record may carry, tried in
// order. Layouts with a time component keep the components as written.
var acceptedLayouts = []string{
	constants.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 02 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	constants.MonthKeyLayout,
}

// NewDate builds a Date, normalizing out-of-range components the same way
// time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime takes the calendar components of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse reads a date in any accepted layout. The second return is false when
// the value is empty or not a date.
func Parse(value string) (Date, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Date{}, false
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return FromTime(t), true
		}
	}
	return Date{}, false
}

// MustParse parses a date and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParse(value string) Date {
	d, ok := Parse(value)
	if !ok {
		panic(fmt.Sprintf("datetime: invalid date %q", value))
	}
	return d
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(constants.DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("invalid date %q", string(text))
	}
	*d = parsed
	return nil
}

// Compare returns -1, 0 or +1 as d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// MonthKey returns the calendar month containing d.
func (d Date) MonthKey() MonthKey {
	return MonthKey{Year: d.Year, Month: d.Month}
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// AddMonths moves d by the given number of months. The day is clamped to the
// length of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func (d Date) AddMonths(months int) Date {
	target := d.MonthKey().AddMonths(months)
	day := d.Day
	if last := DaysIn(target.Year, target.Month); day > last {
		day = last
	}
	return Date{Year: target.Year, Month: target.Month, Day: day}
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	return FromTime(now)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
