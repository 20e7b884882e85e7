// Package alerts evaluates threshold and streak rules against aggregated
// monthly buckets.
package alerts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/outlet-analytics/pkg/aggregate"
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RuleType names the check a rule performs.
type RuleType string

// Rule types.
const (
	FoodCostPct          RuleType = "FoodCostPct"
	LaborPct             RuleType = "LaborPct"
	EbitdaNegativeStreak RuleType = "EbitdaNegativeStreak"
)

// Level is the severity of a fired alert.
type Level string

// Alert levels.
const (
	Warning  Level = "warning"
	Critical Level = "critical"
)

// Rule is one configured alert rule. WindowMonths only applies to streak rules;
// zero means the default window.
type Rule struct {
	ID           string          `json:"id" yaml:"id"`
	Type         RuleType        `json:"type" yaml:"type"`
	Threshold    decimal.Decimal `json:"threshold" yaml:"threshold"`
	WindowMonths int             `json:"windowMonths,omitempty" yaml:"windowMonths,omitempty"`
	Enabled      bool            `json:"enabled" yaml:"enabled"`
}

// Alert is a fired rule. Outlets lists every qualifying outlet of a streak
// alert; Text names at most three of them.
type Alert struct {
	ID      string   `json:"id"`
	Level   Level    `json:"level"`
	Text    string   `json:"text"`
	Outlets []string `json:"outlets,omitempty"`
}

// FoodCostPercentage is purchases as a percentage of sales, zero without sales.
func FoodCostPercentage(totals aggregate.Flows) decimal.Decimal {
	return mathutil.CalculatePercentage(totals.PurchasesOut, totals.SalesIn)
}

// LaborPercentage is labor as a percentage of sales, zero without sales.
func LaborPercentage(totals aggregate.Flows) decimal.Decimal {
	return mathutil.CalculatePercentage(totals.LaborOut, totals.SalesIn)
}

// Engine evaluates rules.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an alert engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Evaluate runs every enabled rule against buckets and concatenates the
// alerts in rule order. Percentage rules use the totals over all buckets.
func (e *Engine) Evaluate(rules []Rule, buckets []aggregate.MonthBucket) []Alert {
	totals := aggregate.Sum(buckets)
	var series map[string][]aggregate.MonthBucket

	var fired []Alert
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		switch rule.Type {
		case FoodCostPct:
			if a, ok := e.percentage(rule, "Food cost", totals.PurchasesOut, totals.SalesIn); ok {
				fired = append(fired, a)
			}
		case LaborPct:
			if a, ok := e.percentage(rule, "Labor cost", totals.LaborOut, totals.SalesIn); ok {
				fired = append(fired, a)
			}
		case EbitdaNegativeStreak:
			if series == nil {
				series = aggregate.ByOutlet(buckets)
			}
			if a, ok := streakAlert(rule, series); ok {
				fired = append(fired, a)
			}
		default:
			e.logger.Debug("skipping rule with unknown type",
				zap.String("op", "alerts.Evaluate"),
				zap.String("rule", rule.ID),
				zap.String("type", string(rule.Type)),
			)
		}
	}
	return fired
}

func (e *Engine) percentage(rule Rule, subject string, cost, sales decimal.Decimal) (Alert, bool) {
	if sales.IsZero() {
		e.logger.Debug("skipping percentage rule without sales",
			zap.String("op", "alerts.Evaluate"),
			zap.String("rule", rule.ID),
		)
		return Alert{}, false
	}
	pct := mathutil.CalculatePercentage(cost, sales)
	if !pct.GreaterThan(rule.Threshold) {
		return Alert{}, false
	}
	return Alert{
		ID:    rule.ID,
		Level: Warning,
		Text: fmt.Sprintf("%s is %s%% of sales, above the %s%% threshold",
			subject, pct.StringFixed(1), rule.Threshold.String()),
	}, true
}

func streakAlert(rule Rule, series map[string][]aggregate.MonthBucket) (Alert, bool) {
	window := rule.WindowMonths
	if window <= 0 {
		window = constants.DefaultStreakWindow
	}

	var outlets []string
	for outlet, buckets := range series {
		if HasNegativeStreak(buckets, window) {
			outlets = append(outlets, outlet)
		}
	}
	if len(outlets) == 0 {
		return Alert{}, false
	}
	sort.Strings(outlets)

	return Alert{
		ID:      rule.ID,
		Level:   Critical,
		Text:    fmt.Sprintf("EBITDA negative for %d+ consecutive months: %s", window, JoinOutlets(outlets)),
		Outlets: outlets,
	}, true
}

// HasNegativeStreak reports whether a month-sorted series holds a run of at
// least window calendar-consecutive months with negative EBITDA. A missing
// month breaks a run.
func HasNegativeStreak(buckets []aggregate.MonthBucket, window int) bool {
	if window <= 0 {
		return false
	}
	run := 0
	prev := 0
	for _, b := range buckets {
		idx := b.Month.Index()
		switch {
		case !b.EBITDA.IsNegative():
			run = 0
		case run > 0 && idx == prev+1:
			run++
		default:
			run = 1
		}
		if run >= window {
			return true
		}
		prev = idx
	}
	return false
}

// JoinOutlets names at most three outlets and summarizes the rest as "+N more".
func JoinOutlets(outlets []string) string {
	if len(outlets) <= constants.MaxAlertOutlets {
		return strings.Join(outlets, ", ")
	}
	return fmt.Sprintf("%s +%d more",
		strings.Join(outlets[:constants.MaxAlertOutlets], ", "),
		len(outlets)-constants.MaxAlertOutlets)
}
