// Package output provides utilities for formatting and displaying reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/outlet-analytics/internal/report"
	"github.com/iwvelando/outlet-analytics/pkg/aggregate"
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/format"
	"github.com/iwvelando/outlet-analytics/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders r in the named output format.
func Write(w io.Writer, outputFormat string, r report.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return WritePretty(w, r)
	case constants.OutputFormatCSV:
		return WriteCsv(w, r)
	case constants.OutputFormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// CsvString returns the CSV rendering of the cash-flow timeline.
func CsvString(r report.Report) string {
	var b strings.Builder
	_ = WriteCsv(&b, r)
	return b.String()
}

// WriteJSON writes the whole report as indented JSON.
func WriteJSON(w io.Writer, r report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WritePretty writes every section of the report as aligned text tables.
func WritePretty(w io.Writer, r report.Report) error {
	p := message.NewPrinter(language.English)
	s := r.Summary

	_, _ = p.Fprintf(w, "--- Summary as of %s ---\n", s.AsOf)
	_, _ = p.Fprintf(w, "Outlets: %s\n", strings.Join(s.Outlets, ", "))
	_, _ = p.Fprintf(w, "Records: %d (%d after filter, %d undated)\n", s.RecordCount, s.FilteredCount, s.UndatedCount)
	_, _ = p.Fprintf(w, "Sales %s | Purchases %s | Rent %s | Labor %s | Petty cash %s | Net %s\n",
		format.Currency(s.Totals.SalesIn), format.Currency(s.Totals.PurchasesOut), format.Currency(s.Totals.RentOut),
		format.Currency(s.Totals.LaborOut), format.Currency(s.Totals.PettyOut), format.Currency(s.NetCash))
	_, _ = p.Fprintf(w, "Food cost %s of sales | Labor %s of sales\n\n", format.Percent(s.FoodCostPct), format.Percent(s.LaborPct))

	_, _ = p.Fprintf(w, "--- Monthly results by outlet ---\n")
	_, _ = p.Fprintf(w, "%-16s | %-8s | %14s | %14s | %14s\n", "Outlet", "Month", "Sales", "Outflows", "EBITDA")
	_, _ = p.Fprintf(w, "%-16s | %-8s | %14s | %14s | %14s\n", "______", "_____", "_____", "________", "______")
	for _, b := range r.Monthly {
		_, _ = p.Fprintf(w, "%-16s | %-8s | %14s | %14s | %14s\n",
			b.Outlet, b.Month, format.Currency(b.SalesIn), format.Currency(b.Outflows()), format.Currency(b.EBITDA))
	}
	_, _ = p.Fprintf(w, "\n")

	f := r.Forecast
	_, _ = p.Fprintf(w, "--- Cash forecast ---\n")
	if f.Empty() {
		_, _ = p.Fprintf(w, "No forecast: not enough history or forecasting disabled\n\n")
	} else {
		_, _ = p.Fprintf(w, "Averaged over %d month(s): sales %s, outflows %s, net %s per month\n",
			f.LookbackUsed, format.Currency(f.Assumptions.SalesIn), format.Currency(f.Assumptions.Outflows()), format.Currency(f.Assumptions.Net()))
		_, _ = p.Fprintf(w, "%-8s | %14s | %14s | %s\n", "Month", "Net cash", "Balance", "Crunch")
		_, _ = p.Fprintf(w, "%-8s | %14s | %14s | %s\n", "_____", "________", "_______", "______")
		for _, row := range f.Rows {
			crunch := ""
			if row.IsCrunch {
				crunch = "yes"
			}
			_, _ = p.Fprintf(w, "%-8s | %14s | %14s | %s\n",
				row.Label, format.Currency(row.NetCash), format.Currency(row.BalanceAfter), crunch)
		}
		_, _ = p.Fprintf(w, "Worst balance %s, %d crunch month(s)", format.Currency(f.WorstBalance), f.CrunchCount)
		if f.FirstCrunchLabel != "" {
			_, _ = p.Fprintf(w, ", first in %s", f.FirstCrunchLabel)
		}
		_, _ = p.Fprintf(w, "\n\n")
	}

	_, _ = p.Fprintf(w, "--- Alerts ---\n")
	if len(r.Alerts) == 0 {
		_, _ = p.Fprintf(w, "None\n")
	}
	for _, a := range r.Alerts {
		_, _ = p.Fprintf(w, "[%s] %s: %s\n", a.Level, a.ID, a.Text)
	}
	_, _ = p.Fprintf(w, "\n")

	_, _ = p.Fprintf(w, "--- Lease schedule ---\n")
	_, _ = p.Fprintf(w, "%-8s | %14s | %14s\n", "Month", "Due", "Variable")
	_, _ = p.Fprintf(w, "%-8s | %14s | %14s\n", "_____", "___", "________")
	for _, b := range r.Schedule.Buckets {
		_, _ = p.Fprintf(w, "%-8s | %14s | %14s\n", b.Label, format.Currency(b.Total), format.Currency(b.VariableTotal))
	}
	_, _ = p.Fprintf(w, "Total due %s\n", format.Currency(r.Schedule.Total()))
	for _, u := range r.Schedule.NextDueByLease {
		_, _ = p.Fprintf(w, "Next due %s: %s (%s, %s) %s\n",
			u.NextDue, u.Lease.OutletID, u.Lease.Landlord, u.Lease.Frequency, format.Currency(u.Lease.Amount))
	}
	_, _ = p.Fprintf(w, "\n")

	m := r.Menu
	_, _ = p.Fprintf(w, "--- Menu engineering ---\n")
	if len(m.Items) == 0 {
		_, _ = p.Fprintf(w, "No menu items\n")
		return nil
	}
	_, _ = p.Fprintf(w, "Average margin %s, average popularity %s\n", format.Fraction(m.AvgMarginPct), m.AvgPopularity.StringFixed(1))
	_, _ = p.Fprintf(w, "%-24s | %8s | %10s | %-12s | %s\n", "Item", "Margin", "Popularity", "Class", "Suggested move")
	_, _ = p.Fprintf(w, "%-24s | %8s | %10s | %-12s | %s\n", "____", "______", "__________", "_____", "______________")
	for _, item := range m.Items {
		_, _ = p.Fprintf(w, "%-24s | %8s | %10s | %-12s | %s\n",
			item.Name, format.Fraction(item.MarginPct), item.Popularity.StringFixed(1), item.Classification, item.SuggestedMove)
	}
	return nil
}

var csvHeader = []string{
	"section", "outlet", "month", "salesIn", "purchasesOut", "rentOut", "laborOut", "pettyOut", "netCash", "balanceAfter", "isCrunch",
}

// WriteCsv writes one row per actual outlet month followed by one row per
// forecast month.
func WriteCsv(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, b := range r.Monthly {
		if err := cw.Write(flowRow("actual", b.Outlet, b.Month.String(), b.Flows, b.NetCash, "", "")); err != nil {
			return err
		}
	}
	for _, row := range r.Forecast.Rows {
		record := flowRow("forecast", constants.ConsolidatedOutlet, row.Month.String(), row.Flows, row.NetCash,
			money(row.BalanceAfter), strconv.FormatBool(row.IsCrunch))
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func flowRow(section, outlet, month string, f aggregate.Flows, net decimal.Decimal, balance, crunch string) []string {
	return []string{
		section, outlet, month,
		money(f.SalesIn), money(f.PurchasesOut), money(f.RentOut), money(f.LaborOut), money(f.PettyOut),
		money(net), balance, crunch,
	}
}

func money(d decimal.Decimal) string {
	return mathutil.Round(d).StringFixed(2)
}
