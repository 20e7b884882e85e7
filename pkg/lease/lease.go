// Package lease projects recurring rent and lease obligations: when each lease
// is next due and how much falls due in every month of a rolling horizon.
package lease

import (
	"strings"

	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Frequency is how often a lease payment recurs.
type Frequency string

// Supported frequencies.
const (
	Monthly    Frequency = "Monthly"
	Quarterly  Frequency = "Quarterly"
	Semiannual Frequency = "Semiannual"
	Annual     Frequency = "Annual"
)

// ParseFrequency maps free-form frequency text onto a Frequency. Unknown or
// empty text is treated as Monthly.
func ParseFrequency(value string) Frequency {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "", " ", "", "_", "").Replace(normalized)
	switch normalized {
	case "quarterly", "quarter", "3months":
		return Quarterly
	case "semiannual", "semiannually", "halfyearly", "biannual", "biannually", "6months":
		return Semiannual
	case "annual", "annually", "yearly", "12months":
		return Annual
	default:
		return Monthly
	}
}

// Step returns the number of months between two payments.
func (f Frequency) Step() int {
	switch f {
	case Quarterly:
		return constants.QuarterlyStep
	case Semiannual:
		return constants.SemiannualStep
	case Annual:
		return constants.AnnualStep
	default:
		return constants.MonthlyStep
	}
}

// Obligation describes one lease. It is created and edited elsewhere and only
// read here.
type Obligation struct {
	OutletID   string          `json:"outletId"`
	Landlord   string          `json:"landlord,omitempty"`
	Frequency  Frequency       `json:"frequency"`
	LeaseStart datetime.Date   `json:"leaseStart"`
	LeaseEnd   *datetime.Date  `json:"leaseEnd,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	IsFixed    bool            `json:"isFixed"`
}

// Malformed reports whether the lease ends before it starts.
func (o Obligation) Malformed() bool {
	return o.LeaseEnd != nil && o.LeaseEnd.Before(o.LeaseStart)
}

// DueDate returns the n-th payment date, counting the lease start as 0. Steps
// are anchored on the start so month-end clamping never drifts.
func (o Obligation) DueDate(n int) datetime.Date {
	return o.LeaseStart.AddMonths(n * o.Frequency.Step())
}

// Ended reports whether date falls after the lease end.
func (o Obligation) Ended(date datetime.Date) bool {
	return o.LeaseEnd != nil && date.After(*o.LeaseEnd)
}

// firstDueOnOrAfter returns the smallest n whose due date is not before target.
func (o Obligation) firstDueOnOrAfter(target datetime.Date) int {
	step := o.Frequency.Step()
	// One step short of the month distance always lands before target.
	n := (target.MonthKey().Index()-o.LeaseStart.MonthKey().Index())/step - 1
	if n < 0 {
		n = 0
	}
	for o.DueDate(n).Before(target) {
		n++
	}
	return n
}
