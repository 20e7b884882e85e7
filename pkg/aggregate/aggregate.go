// Package aggregate folds normalized flow records into per-outlet monthly
// buckets.
package aggregate

import (
	"sort"

	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/iwvelando/outlet-analytics/pkg/records"
	"github.com/shopspring/decimal"
)

// Flows holds the five cash flow totals.
type Flows struct {
	SalesIn      decimal.Decimal `json:"salesIn"`
	PurchasesOut decimal.Decimal `json:"purchasesOut"`
	RentOut      decimal.Decimal `json:"rentOut"`
	LaborOut     decimal.Decimal `json:"laborOut"`
	PettyOut     decimal.Decimal `json:"pettyOut"`
}

// ZeroFlows returns Flows with every total set to zero.
func ZeroFlows() Flows {
	return Flows{
		SalesIn:      decimal.Zero,
		PurchasesOut: decimal.Zero,
		RentOut:      decimal.Zero,
		LaborOut:     decimal.Zero,
		PettyOut:     decimal.Zero,
	}
}

// Outflows is purchases + rent + labor + petty cash.
func (f Flows) Outflows() decimal.Decimal {
	return f.PurchasesOut.Add(f.RentOut).Add(f.LaborOut).Add(f.PettyOut)
}

// Net is sales minus all outflows.
func (f Flows) Net() decimal.Decimal {
	return f.SalesIn.Sub(f.Outflows())
}

// Plus returns the field-wise sum of f and other.
func (f Flows) Plus(other Flows) Flows {
	return Flows{
		SalesIn:      f.SalesIn.Add(other.SalesIn),
		PurchasesOut: f.PurchasesOut.Add(other.PurchasesOut),
		RentOut:      f.RentOut.Add(other.RentOut),
		LaborOut:     f.LaborOut.Add(other.LaborOut),
		PettyOut:     f.PettyOut.Add(other.PettyOut),
	}
}

// Get returns the total of one category.
func (f Flows) Get(category records.Category) decimal.Decimal {
	switch category {
	case records.Sales:
		return f.SalesIn
	case records.Purchase:
		return f.PurchasesOut
	case records.Rent:
		return f.RentOut
	case records.Labor:
		return f.LaborOut
	default:
		return f.PettyOut
	}
}

func (f *Flows) add(category records.Category, amount decimal.Decimal) {
	switch category {
	case records.Sales:
		f.SalesIn = f.SalesIn.Add(amount)
	case records.Purchase:
		f.PurchasesOut = f.PurchasesOut.Add(amount)
	case records.Rent:
		f.RentOut = f.RentOut.Add(amount)
	case records.Labor:
		f.LaborOut = f.LaborOut.Add(amount)
	default:
		f.PettyOut = f.PettyOut.Add(amount)
	}
}

// MonthBucket aggregates one outlet's flows over one calendar month.
type MonthBucket struct {
	Outlet string            `json:"outlet"`
	Month  datetime.MonthKey `json:"monthKey"`
	Flows
	NetCash decimal.Decimal `json:"netCash"`
	EBITDA  decimal.Decimal `json:"ebitda"`
}

func (b *MonthBucket) derive() {
	b.NetCash = b.Net()
	b.EBITDA = b.Net()
}

type bucketKey struct {
	outlet string
	month  datetime.MonthKey
}

// Monthly groups dated records by (outlet, month). Undated records are
// skipped and months without records get no bucket. The result is sorted by
// outlet, then month ascending, and does not depend on the input order.
func Monthly(recs []records.FlowRecord) []MonthBucket {
	index := make(map[bucketKey]*MonthBucket)
	for _, rec := range recs {
		if !rec.Dated() {
			continue
		}
		key := bucketKey{outlet: rec.Outlet, month: rec.Date.MonthKey()}
		b, ok := index[key]
		if !ok {
			b = &MonthBucket{Outlet: key.outlet, Month: key.month, Flows: ZeroFlows()}
			index[key] = b
		}
		b.add(rec.Category, rec.Amount)
	}

	buckets := make([]MonthBucket, 0, len(index))
	for _, b := range index {
		b.derive()
		buckets = append(buckets, *b)
	}
	sortBuckets(buckets)
	return buckets
}

// Consolidate merges every outlet into one bucket per month, sorted by month.
func Consolidate(buckets []MonthBucket) []MonthBucket {
	index := make(map[datetime.MonthKey]*MonthBucket)
	for _, b := range buckets {
		merged, ok := index[b.Month]
		if !ok {
			merged = &MonthBucket{Outlet: constants.ConsolidatedOutlet, Month: b.Month, Flows: ZeroFlows()}
			index[b.Month] = merged
		}
		merged.Flows = merged.Plus(b.Flows)
	}

	out := make([]MonthBucket, 0, len(index))
	for _, b := range index {
		b.derive()
		out = append(out, *b)
	}
	sortBuckets(out)
	return out
}

// ByOutlet splits buckets into per-outlet series, each sorted by month.
func ByOutlet(buckets []MonthBucket) map[string][]MonthBucket {
	out := make(map[string][]MonthBucket)
	for _, b := range buckets {
		out[b.Outlet] = append(out[b.Outlet], b)
	}
	for outlet := range out {
		sortBuckets(out[outlet])
	}
	return out
}

// Outlets returns the distinct outlets of buckets in sorted order.
func Outlets(buckets []MonthBucket) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range buckets {
		if _, ok := seen[b.Outlet]; ok {
			continue
		}
		seen[b.Outlet] = struct{}{}
		out = append(out, b.Outlet)
	}
	sort.Strings(out)
	return out
}

// Sum totals the flows of all buckets.
func Sum(buckets []MonthBucket) Flows {
	total := ZeroFlows()
	for _, b := range buckets {
		total = total.Plus(b.Flows)
	}
	return total
}

func sortBuckets(buckets []MonthBucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Outlet != buckets[j].Outlet {
			return buckets[i].Outlet < buckets[j].Outlet
		}
		return buckets[i].Month.Before(buckets[j].Month)
	})
}
