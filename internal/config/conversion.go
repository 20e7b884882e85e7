package config

import (
	"fmt"
	"reflect"

	"github.com/iwvelando/outlet-analytics/pkg/aggregate"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/iwvelando/outlet-analytics/pkg/records"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalHookFunc decodes YAML numbers and numeric strings into money values.
func decimalHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != decimalType || from == decimalType {
			return data, nil
		}
		d, ok := records.ToDecimal(data)
		if !ok {
			return nil, fmt.Errorf("cannot decode %v into a decimal amount", data)
		}
		return d, nil
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		decimalHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// ToFilter converts the filter settings. Month bounds that do not parse are
// ignored; ValidateConfiguration reports them.
func (f FilterConfig) ToFilter() aggregate.Filter {
	filter := aggregate.Filter{
		Outlets: f.Outlets,
		Brand:   f.Brand,
	}
	if m, err := datetime.ParseMonthKey(f.From); err == nil {
		filter.From = m
	}
	if m, err := datetime.ParseMonthKey(f.To); err == nil {
		filter.To = m
	}
	return filter
}
