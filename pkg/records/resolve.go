package records

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Row is one loosely-typed input record as delivered by a collaborator, e.g. a
// decoded JSON object or a YAML mapping.
type Row = map[string]interface{}

// Field resolves one logical field from a Row by trying its keys in order. A
// key counts as absent when it is missing, nil or a blank string; zero numbers
// are present values and stop the search.
type Field struct {
	Keys []string
}

// Keys builds a Field from keys in precedence order.
func Keys(keys ...string) Field {
	return Field{Keys: keys}
}

// Lookup returns the first present value.
func (f Field) Lookup(row Row) (interface{}, bool) {
	if row == nil {
		return nil, false
	}
	for _, key := range f.Keys {
		value, ok := row[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

// String returns the trimmed text of the field, or "" when absent.
func (f Field) String(row Row) string {
	value, ok := f.Lookup(row)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Decimal returns the numeric value of the field; absent or malformed values
// yield zero.
func (f Field) Decimal(row Row) decimal.Decimal {
	v, _ := f.DecimalOK(row)
	return v
}

// DecimalOK is Decimal with a flag telling whether a usable number was found.
func (f Field) DecimalOK(row Row) (decimal.Decimal, bool) {
	value, ok := f.Lookup(row)
	if !ok {
		return decimal.Zero, false
	}
	return ToDecimal(value)
}

// Date returns the parsed calendar date of the field, or nil.
func (f Field) Date(row Row) *datetime.Date {
	value, ok := f.Lookup(row)
	if !ok {
		return nil
	}
	return ToDate(value)
}

// Bool returns the truthiness of the field; absent values are false.
func (f Field) Bool(row Row) bool {
	value, ok := f.Lookup(row)
	if !ok {
		return false
	}
	if s, isString := value.(string); isString {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "on", "fixed":
			return true
		}
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false
	}
	return b
}

// ToDecimal coerces a scalar to a decimal. NaN, infinities and text that is not
// a number report false.
func ToDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case int32:
		return decimal.NewFromInt(int64(v)), true
	case json.Number:
		return fromString(v.String())
	case string:
		return fromString(v)
	case nil:
		return decimal.Zero, false
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return decimal.Zero, false
	}
	return fromFloat(f)
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func fromString(s string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ToDate coerces a value to a calendar date. Only time values and date strings
// qualify; anything else is nil.
func ToDate(value interface{}) *datetime.Date {
	switch v := value.(type) {
	case datetime.Date:
		if v.IsZero() {
			return nil
		}
		return &v
	case *datetime.Date:
		if v == nil || v.IsZero() {
			return nil
		}
		d := *v
		return &d
	case time.Time:
		if v.IsZero() {
			return nil
		}
		d := datetime.FromTime(v)
		return &d
	case string:
		if d, ok := datetime.Parse(v); ok {
			return &d
		}
	}
	return nil
}
