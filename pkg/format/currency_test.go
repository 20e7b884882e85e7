package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount  string
		want    string
		numeric string
	}{
		{"0", "$0.00", "0.00"},
		{"12.5", "$12.50", "12.50"},
		{"999.999", "$1,000.00", "1,000.00"},
		{"1234.56", "$1,234.56", "1,234.56"},
		{"-1234.56", "-$1,234.56", "-1,234.56"},
		{"1234567.891", "$1,234,567.89", "1,234,567.89"},
		{"-0.001", "$0.00", "0.00"},
		{"-0.005", "-$0.01", "-0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			d := decimal.RequireFromString(tt.amount)
			if got := Currency(d); got != tt.want {
				t.Errorf("Currency(%s) = %q, expected %q", tt.amount, got, tt.want)
			}
			if got := NumericCurrency(d); got != tt.numeric {
				t.Errorf("NumericCurrency(%s) = %q, expected %q", tt.amount, got, tt.numeric)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		value    string
		percent  string
		fraction string
	}{
		{"0", "0.0%", "0.0%"},
		{"32.30016", "32.3%", "3230.0%"},
		{"0.5875", "0.6%", "58.8%"},
		{"-12.25", "-12.3%", "-1225.0%"},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.value)
		if got := Percent(d); got != tt.percent {
			t.Errorf("Percent(%s) = %q, expected %q", tt.value, got, tt.percent)
		}
		if got := Fraction(d); got != tt.fraction {
			t.Errorf("Fraction(%s) = %q, expected %q", tt.value, got, tt.fraction)
		}
	}
}
