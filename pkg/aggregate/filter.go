package aggregate

import (
	"strings"

	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/iwvelando/outlet-analytics/pkg/records"
)

// Filter selects the records a report covers. Zero fields do not filter.
type Filter struct {
	Outlets []string
	Brand   string
	From    datetime.MonthKey
	To      datetime.MonthKey
}

// MatchOutletBrand applies the outlet and brand parts of the filter. Brand
// matching ignores case, and records that carry no brand (labor, petty cash)
// are kept.
func (f Filter) MatchOutletBrand(outlet, brand string) bool {
	if len(f.Outlets) > 0 {
		found := false
		for _, o := range f.Outlets {
			if strings.EqualFold(strings.TrimSpace(o), outlet) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Brand != "" && brand != "" && !strings.EqualFold(strings.TrimSpace(f.Brand), brand) {
		return false
	}
	return true
}

// Match reports whether rec passes the filter. With a month bound set, undated
// records never match.
func (f Filter) Match(rec records.FlowRecord) bool {
	if !f.MatchOutletBrand(rec.Outlet, rec.Brand) {
		return false
	}
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}
	if !rec.Dated() {
		return false
	}
	month := rec.Date.MonthKey()
	if !f.From.IsZero() && month.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && f.To.Before(month) {
		return false
	}
	return true
}

// Apply returns the records that pass the filter, in their original order.
func (f Filter) Apply(recs []records.FlowRecord) []records.FlowRecord {
	out := make([]records.FlowRecord, 0, len(recs))
	for _, rec := range recs {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}
