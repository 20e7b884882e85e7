// Package records turns loosely-typed input rows into normalized records. It
// never fails: malformed numbers become zero, malformed dates become nil and a
// missing outlet becomes "Unassigned".
package records

import (
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Category tags a FlowRecord with the cash flow it belongs to.
type Category string

// Flow categories.
const (
	Sales     Category = "Sales"
	Purchase  Category = "Purchase"
	Rent      Category = "Rent"
	Labor     Category = "Labor"
	PettyCash Category = "PettyCash"
)

// Categories lists every flow category in reporting order.
var Categories = []Category{Sales, Purchase, Rent, Labor, PettyCash}

// FlowRecord is a normalized, category-tagged cash movement. A nil Date marks
// a record that takes part in no monthly bucket.
type FlowRecord struct {
	Category Category        `json:"category"`
	Date     *datetime.Date  `json:"date,omitempty"`
	Outlet   string          `json:"outlet"`
	Brand    string          `json:"brand,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// Dated reports whether the record carries a usable date.
func (r FlowRecord) Dated() bool {
	return r.Date != nil
}

// Collections holds the raw record collections supplied by collaborators.
type Collections struct {
	Sales     []Row `json:"sales" yaml:"sales"`
	Purchases []Row `json:"purchases" yaml:"purchases"`
	Rent      []Row `json:"rent" yaml:"rent"`
	Labor     []Row `json:"labor" yaml:"labor"`
	PettyCash []Row `json:"pettyCash" yaml:"pettyCash"`
	MenuItems []Row `json:"menuItems" yaml:"menuItems"`
}

// Normalizer extracts normalized records from rows.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize extracts one FlowRecord from row using the schema of category.
func (n *Normalizer) Normalize(category Category, row Row) FlowRecord {
	schema := SchemaFor(category)
	outlet := schema.Outlet.String(row)
	if outlet == "" {
		outlet = constants.UnassignedOutlet
	}
	return FlowRecord{
		Category: category,
		Date:     schema.Date.Date(row),
		Outlet:   outlet,
		Brand:    schema.Brand.String(row),
		Amount:   schema.Amount.Decimal(row),
	}
}

// NormalizeAll normalizes every row of one collection. Nil rows are dropped;
// undated rows are kept and left for the aggregator to exclude.
func (n *Normalizer) NormalizeAll(category Category, rows []Row) []FlowRecord {
	out := make([]FlowRecord, 0, len(rows))
	undated := 0
	for _, row := range rows {
		if row == nil {
			continue
		}
		rec := n.Normalize(category, row)
		if !rec.Dated() {
			undated++
		}
		out = append(out, rec)
	}
	if undated > 0 {
		n.logger.Debug("records without a usable date",
			zap.String("op", "records.NormalizeAll"),
			zap.String("category", string(category)),
			zap.Int("count", undated),
		)
	}
	return out
}

// NormalizeCollections normalizes the five flow collections into one slice.
func (n *Normalizer) NormalizeCollections(c Collections) []FlowRecord {
	var out []FlowRecord
	out = append(out, n.NormalizeAll(Sales, c.Sales)...)
	out = append(out, n.NormalizeAll(Purchase, c.Purchases)...)
	out = append(out, n.NormalizeAll(Rent, c.Rent)...)
	out = append(out, n.NormalizeAll(Labor, c.Labor)...)
	out = append(out, n.NormalizeAll(PettyCash, c.PettyCash)...)
	return out
}
