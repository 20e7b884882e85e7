// Package menu classifies menu items into profitability quadrants using the
// item set's own average margin and popularity as thresholds.
package menu

import (
	"github.com/iwvelando/outlet-analytics/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Classification is a menu engineering quadrant.
type Classification string

// Quadrants.
const (
	Star         Classification = "Star"
	Plowhorse    Classification = "Plowhorse"
	Puzzle       Classification = "Puzzle"
	Dog          Classification = "Dog"
	Unclassified Classification = "Unclassified"
)

// SuggestedMoves holds the fixed action text of each quadrant.
var SuggestedMoves = map[Classification]string{
	Star:         "Protect it: keep the recipe and plating consistent and give it prime menu placement.",
	Plowhorse:    "Re-engineer cost: trim portion or ingredient cost, or test a small price increase.",
	Puzzle:       "Drive demand: reposition on the menu, rename, or have staff recommend it.",
	Dog:          "Rework or remove: replace it unless it serves a strategic purpose.",
	Unclassified: "Insufficient data: record prices and sales volumes before classifying.",
}

// Item is one menu item as read from the source rows.
type Item struct {
	Name       string          `json:"name"`
	Brand      string          `json:"brand,omitempty"`
	Outlet     string          `json:"outlet,omitempty"`
	Category   string          `json:"category,omitempty"`
	MenuPrice  decimal.Decimal `json:"menuPrice"`
	FoodCost   decimal.Decimal `json:"foodCost"`
	Popularity decimal.Decimal `json:"popularity"`
}

// MarginPct is (price - cost) / price as a fraction; zero when the price is not
// positive.
func (i Item) MarginPct() decimal.Decimal {
	if !i.MenuPrice.IsPositive() {
		return decimal.Zero
	}
	return i.MenuPrice.Sub(i.FoodCost).Div(i.MenuPrice)
}

// ClassifiedItem is an Item with its quadrant.
type ClassifiedItem struct {
	Item
	MarginPct      decimal.Decimal `json:"marginPct"`
	Classification Classification  `json:"classification"`
	SuggestedMove  string          `json:"suggestedMove"`
}

// Result is the classification of one item set.
type Result struct {
	Items         []ClassifiedItem       `json:"items"`
	AvgMarginPct  decimal.Decimal        `json:"avgMarginPct"`
	AvgPopularity decimal.Decimal        `json:"avgPopularity"`
	Counts        map[Classification]int `json:"counts"`
}

// Classify places every item in a quadrant. An item is high on an axis when it
// is at or above the set's average; when either average is exactly zero every
// item is Unclassified.
func Classify(items []Item) Result {
	result := Result{
		Items:         make([]ClassifiedItem, 0, len(items)),
		AvgMarginPct:  decimal.Zero,
		AvgPopularity: decimal.Zero,
		Counts:        make(map[Classification]int),
	}
	if len(items) == 0 {
		return result
	}

	margins := make([]decimal.Decimal, len(items))
	popularity := make([]decimal.Decimal, len(items))
	for i, item := range items {
		margins[i] = item.MarginPct()
		popularity[i] = item.Popularity
	}
	result.AvgMarginPct = mathutil.Mean(margins)
	result.AvgPopularity = mathutil.Mean(popularity)
	insufficient := result.AvgMarginPct.IsZero() || result.AvgPopularity.IsZero()

	for i, item := range items {
		class := Unclassified
		if !insufficient {
			class = quadrant(
				margins[i].GreaterThanOrEqual(result.AvgMarginPct),
				item.Popularity.GreaterThanOrEqual(result.AvgPopularity),
			)
		}
		result.Counts[class]++
		result.Items = append(result.Items, ClassifiedItem{
			Item:           item,
			MarginPct:      margins[i],
			Classification: class,
			SuggestedMove:  SuggestedMoves[class],
		})
	}
	return result
}

func quadrant(highMargin, highPopularity bool) Classification {
	switch {
	case highMargin && highPopularity:
		return Star
	case highPopularity:
		return Plowhorse
	case highMargin:
		return Puzzle
	default:
		return Dog
	}
}
