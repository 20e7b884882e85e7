// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/outlet-analytics/pkg/alerts"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
)

// ValidateMonthRange checks optional YYYY-MM filter bounds.
func ValidateMonthRange(from, to string) []string {
	var warnings []string

	var fromKey, toKey datetime.MonthKey
	var err error
	if from != "" {
		if fromKey, err = datetime.ParseMonthKey(from); err != nil {
			warnings = append(warnings, fmt.Sprintf("Filter start month '%s' is not YYYY-MM and will be ignored", from))
		}
	}
	if to != "" {
		if toKey, err = datetime.ParseMonthKey(to); err != nil {
			warnings = append(warnings, fmt.Sprintf("Filter end month '%s' is not YYYY-MM and will be ignored", to))
		}
	}

	if !fromKey.IsZero() && !toKey.IsZero() && toKey.Before(fromKey) {
		warnings = append(warnings, fmt.Sprintf("Filter end month %s is before start month %s - no records will match", to, from))
	}

	return warnings
}

// ValidateAlertRules flags rules that will never fire or are ambiguous.
func ValidateAlertRules(rules []alerts.Rule) []string {
	var warnings []string
	seen := make(map[string]bool)

	for i, rule := range rules {
		name := rule.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("Alert rule %s has no id", name))
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("Alert rule '%s' is defined more than once", name))
		}
		seen[name] = true

		switch rule.Type {
		case alerts.FoodCostPct, alerts.LaborPct:
			if rule.Threshold.IsNegative() {
				warnings = append(warnings, fmt.Sprintf("Alert rule '%s' has a negative threshold (%s) and fires whenever there are sales", name, rule.Threshold))
			}
			if rule.WindowMonths != 0 {
				warnings = append(warnings, fmt.Sprintf("Alert rule '%s' sets windowMonths which only applies to %s", name, alerts.EbitdaNegativeStreak))
			}
		case alerts.EbitdaNegativeStreak:
			if rule.WindowMonths < 0 {
				warnings = append(warnings, fmt.Sprintf("Alert rule '%s' has a negative window and will use the default", name))
			}
		default:
			warnings = append(warnings, fmt.Sprintf("Alert rule '%s' has unknown type '%s' and will be skipped", name, rule.Type))
		}
	}

	return warnings
}

// ValidatePositive warns when a month count disables its feature.
func ValidatePositive(name string, value int) string {
	if value <= 0 {
		return fmt.Sprintf("%s is %d - the dependent output will be empty", name, value)
	}
	return ""
}

// ConfigValidator collects the settings checked by ValidateAll.
type ConfigValidator struct {
	LookbackMonths int
	ForecastMonths int
	HorizonMonths  int
	FilterFrom     string
	FilterTo       string
	Alerts         []alerts.Rule
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if w := ValidatePositive("forecast.lookbackMonths", cv.LookbackMonths); w != "" {
		warnings = append(warnings, w)
	}
	if w := ValidatePositive("forecast.forecastMonths", cv.ForecastMonths); w != "" {
		warnings = append(warnings, w)
	}
	if cv.HorizonMonths < 0 {
		warnings = append(warnings, fmt.Sprintf("schedule.horizonMonths is %d and will use the default", cv.HorizonMonths))
	}

	warnings = append(warnings, ValidateMonthRange(cv.FilterFrom, cv.FilterTo)...)
	warnings = append(warnings, ValidateAlertRules(cv.Alerts)...)

	return warnings
}
