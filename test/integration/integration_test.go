package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/outlet-analytics/internal/config"
	"github.com/iwvelando/outlet-analytics/internal/dataset"
	"github.com/iwvelando/outlet-analytics/internal/report"
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/output"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

// buildFixtureReport loads the fixtures and builds the report exactly as main() does.
func buildFixtureReport(t *testing.T, mutate func(*config.Configuration)) report.Report {
	t.Helper()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if mutate != nil {
		mutate(conf)
	}

	collections, err := dataset.Load("../test_dataset.yaml")
	if err != nil {
		t.Fatalf("dataset.Load() error = %v", err)
	}
	if err := dataset.RequireRows(collections); err != nil {
		t.Fatalf("RequireRows() error = %v", err)
	}

	return report.NewBuilder(zap.NewNop()).BuildWithFixedTime(collections, *conf, fixedNow)
}

func TestEndToEndCsv(t *testing.T) {
	r := buildFixtureReport(t, nil)

	var buf bytes.Buffer
	if err := output.Write(&buf, constants.OutputFormatCSV, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if want := 1 + len(r.Monthly) + len(r.Forecast.Rows); len(rows) != want {
		t.Fatalf("expected %d CSV rows, got %d", want, len(rows))
	}

	// Actual rows must add back up to the summary totals.
	sales := decimal.Zero
	forecastRows := 0
	for _, row := range rows[1:] {
		switch row[0] {
		case "actual":
			v, err := decimal.NewFromString(row[3])
			if err != nil {
				t.Fatalf("bad salesIn %q: %v", row[3], err)
			}
			sales = sales.Add(v)
		case "forecast":
			forecastRows++
			if row[1] != constants.ConsolidatedOutlet {
				t.Errorf("forecast row outlet = %q", row[1])
			}
		default:
			t.Errorf("unexpected section %q", row[0])
		}
	}
	if !sales.Equal(r.Summary.Totals.SalesIn) {
		t.Errorf("CSV sales sum %s does not match summary %s", sales, r.Summary.Totals.SalesIn)
	}
	if forecastRows != len(r.Forecast.Rows) {
		t.Errorf("expected %d forecast rows, got %d", len(r.Forecast.Rows), forecastRows)
	}
}

func TestEndToEndPretty(t *testing.T) {
	r := buildFixtureReport(t, nil)

	var buf bytes.Buffer
	if err := output.Write(&buf, constants.OutputFormatPretty, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	text := buf.String()
	if text == "" {
		t.Fatal("expected pretty output")
	}
	for _, a := range r.Alerts {
		if !strings.Contains(text, a.Text) {
			t.Errorf("pretty output is missing alert %q", a.Text)
		}
	}
}

func TestEndToEndJSON(t *testing.T) {
	r := buildFixtureReport(t, nil)

	var buf bytes.Buffer
	if err := output.Write(&buf, constants.OutputFormatJSON, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not decode: %v", err)
	}
	if len(decoded.Monthly) != len(r.Monthly) || len(decoded.Alerts) != len(r.Alerts) {
		t.Errorf("decoded report differs: %d/%d buckets, %d/%d alerts",
			len(decoded.Monthly), len(r.Monthly), len(decoded.Alerts), len(r.Alerts))
	}
	if !decoded.Forecast.WorstBalance.Equal(r.Forecast.WorstBalance) {
		t.Errorf("worst balance %s != %s", decoded.Forecast.WorstBalance, r.Forecast.WorstBalance)
	}
	if decoded.Summary.AsOf != r.Summary.AsOf {
		t.Errorf("asOf %s != %s", decoded.Summary.AsOf, r.Summary.AsOf)
	}
}

func TestDataConsistency(t *testing.T) {
	first := buildFixtureReport(t, nil)

	for i := 0; i < 5; i++ {
		next := buildFixtureReport(t, nil)

		var a, b bytes.Buffer
		if err := output.WriteJSON(&a, first); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		if err := output.WriteJSON(&b, next); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		if a.String() != b.String() {
			t.Fatalf("run %d produced a different report", i)
		}
	}
}

func TestConfigurationVariations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Configuration)
		check  func(*testing.T, report.Report)
	}{
		{
			name: "Longer horizon",
			mutate: func(c *config.Configuration) {
				c.Forecast.ForecastMonths = 12
				c.Schedule.HorizonMonths = 24
			},
			check: func(t *testing.T, r report.Report) {
				if len(r.Forecast.Rows) != 12 {
					t.Errorf("expected 12 forecast rows, got %d", len(r.Forecast.Rows))
				}
				if len(r.Schedule.Buckets) != 24 {
					t.Errorf("expected 24 schedule buckets, got %d", len(r.Schedule.Buckets))
				}
			},
		},
		{
			name: "No alerts",
			mutate: func(c *config.Configuration) {
				c.Alerts = nil
			},
			check: func(t *testing.T, r report.Report) {
				if len(r.Alerts) != 0 {
					t.Errorf("expected no alerts, got %d", len(r.Alerts))
				}
			},
		},
		{
			name: "Huge buffer puts every month in a crunch",
			mutate: func(c *config.Configuration) {
				c.Forecast.MinBuffer = decimal.NewFromInt(10_000_000)
			},
			check: func(t *testing.T, r report.Report) {
				if r.Forecast.CrunchCount != len(r.Forecast.Rows) {
					t.Errorf("expected %d crunch months, got %d", len(r.Forecast.Rows), r.Forecast.CrunchCount)
				}
				if r.Forecast.FirstCrunchLabel != r.Forecast.Rows[0].Label {
					t.Errorf("first crunch %q, expected %q", r.Forecast.FirstCrunchLabel, r.Forecast.Rows[0].Label)
				}
			},
		},
		{
			name: "Window excluding all history",
			mutate: func(c *config.Configuration) {
				c.Filter.From = "2030-01"
			},
			check: func(t *testing.T, r report.Report) {
				if len(r.Monthly) != 0 || !r.Forecast.Empty() {
					t.Errorf("expected no history and an empty forecast, got %d buckets", len(r.Monthly))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, buildFixtureReport(t, tt.mutate))
		})
	}
}
