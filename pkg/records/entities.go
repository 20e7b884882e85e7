package records

import (
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/lease"
	"github.com/iwvelando/outlet-analytics/pkg/menu"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Lease extracts the lease metadata of a rent row. The second return is false
// when the row has no usable lease start (nor a payment date to fall back on).
func (n *Normalizer) Lease(row Row) (lease.Obligation, bool) {
	start := LeaseSchema.Start.Date(row)
	if start == nil {
		return lease.Obligation{}, false
	}
	outlet := LeaseSchema.Outlet.String(row)
	if outlet == "" {
		outlet = constants.UnassignedOutlet
	}
	return lease.Obligation{
		OutletID:   outlet,
		Landlord:   LeaseSchema.Landlord.String(row),
		Frequency:  lease.ParseFrequency(LeaseSchema.Frequency.String(row)),
		LeaseStart: *start,
		LeaseEnd:   LeaseSchema.End.Date(row),
		Amount:     LeaseSchema.Amount.Decimal(row),
		IsFixed:    LeaseSchema.Fixed.Bool(row),
	}, true
}

// Leases extracts every usable lease from rent rows.
func (n *Normalizer) Leases(rows []Row) []lease.Obligation {
	out := make([]lease.Obligation, 0, len(rows))
	for _, row := range rows {
		if ob, ok := n.Lease(row); ok {
			out = append(out, ob)
			continue
		}
		n.logger.Debug("rent row without lease start",
			zap.String("op", "records.Leases"),
			zap.String("outlet", LeaseSchema.Outlet.String(row)),
		)
	}
	return out
}

// MenuItem extracts a menu item. Popularity is the units sold when given,
// otherwise revenue divided by a positive menu price, otherwise zero.
func (n *Normalizer) MenuItem(row Row) menu.Item {
	price := MenuSchema.Price.Decimal(row)
	popularity, ok := MenuSchema.Units.DecimalOK(row)
	if !ok {
		popularity = decimal.Zero
		if revenue, hasRevenue := MenuSchema.Revenue.DecimalOK(row); hasRevenue && price.IsPositive() {
			popularity = revenue.Div(price)
		}
	}
	return menu.Item{
		Name:       MenuSchema.Name.String(row),
		Brand:      MenuSchema.Brand.String(row),
		Outlet:     MenuSchema.Outlet.String(row),
		Category:   MenuSchema.Category.String(row),
		MenuPrice:  price,
		FoodCost:   MenuSchema.Cost.Decimal(row),
		Popularity: popularity,
	}
}

// MenuItems extracts every non-nil menu row.
func (n *Normalizer) MenuItems(rows []Row) []menu.Item {
	out := make([]menu.Item, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, n.MenuItem(row))
	}
	return out
}
