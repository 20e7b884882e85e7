package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/outlet-analytics/pkg/constants"
)

// MonthKey identifies one calendar month. Its text form is "YYYY-MM".
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses a "YYYY-MM" month key.
func ParseMonthKey(value string) (MonthKey, error) {
	t, err := time.Parse(constants.MonthKeyLayout, strings.TrimSpace(value))
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q: %w", value, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseMonthKey parses a month key and panics on error.
// This is intended for use in tests where the key is known to be valid.
func MustParseMonthKey(value string) MonthKey {
	m, err := ParseMonthKey(value)
	if err != nil {
		panic(err)
	}
	return m
}

// IsZero reports whether m is the zero MonthKey.
func (m MonthKey) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String formats m as YYYY-MM with a zero-padded month.
func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label formats m for display, e.g. "Mar 2024".
func (m MonthKey) Label() string {
	return m.FirstDay().Time().Format(constants.MonthLabelLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (m MonthKey) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MonthKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMonthKey(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Index counts months since year zero; consecutive months differ by one.
func (m MonthKey) Index() int {
	return m.Year*constants.MonthsPerYear + int(m.Month) - 1
}

// AddMonths returns the month offset by the given number of months.
func (m MonthKey) AddMonths(months int) MonthKey {
	idx := m.Index() + months
	year := idx / constants.MonthsPerYear
	month := idx % constants.MonthsPerYear
	if month < 0 {
		month += constants.MonthsPerYear
		year--
	}
	return MonthKey{Year: year, Month: time.Month(month + 1)}
}

// Next returns the following month.
func (m MonthKey) Next() MonthKey {
	return m.AddMonths(1)
}

// Compare returns -1, 0 or +1 as m is before, equal to or after other.
func (m MonthKey) Compare(other MonthKey) int {
	return sign(m.Index() - other.Index())
}

// Before reports whether m is strictly before other.
func (m MonthKey) Before(other MonthKey) bool {
	return m.Index() < other.Index()
}

// FirstDay returns the first calendar day of m.
func (m MonthKey) FirstDay() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}
