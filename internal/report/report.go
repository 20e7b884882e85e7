// Package report runs the analytics pipelines over one dataset and gathers
// their outputs into a single Report.
package report

import (
	"time"

	"github.com/iwvelando/outlet-analytics/internal/config"
	"github.com/iwvelando/outlet-analytics/internal/forecast"
	"github.com/iwvelando/outlet-analytics/pkg/aggregate"
	"github.com/iwvelando/outlet-analytics/pkg/alerts"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/iwvelando/outlet-analytics/pkg/lease"
	"github.com/iwvelando/outlet-analytics/pkg/menu"
	"github.com/iwvelando/outlet-analytics/pkg/records"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Summary describes the records that went into a report.
type Summary struct {
	AsOf          datetime.Date   `json:"asOf"`
	Outlets       []string        `json:"outlets"`
	RecordCount   int             `json:"recordCount"`
	FilteredCount int             `json:"filteredCount"`
	UndatedCount  int             `json:"undatedCount"`
	Totals        aggregate.Flows `json:"totals"`
	NetCash       decimal.Decimal `json:"netCash"`
	FoodCostPct   decimal.Decimal `json:"foodCostPct"`
	LaborPct      decimal.Decimal `json:"laborPct"`
}

// Report is the combined output of every pipeline.
type Report struct {
	Summary      Summary                 `json:"summary"`
	Monthly      []aggregate.MonthBucket `json:"monthly"`
	Consolidated []aggregate.MonthBucket `json:"consolidated"`
	Forecast     forecast.Forecast       `json:"forecast"`
	Alerts       []alerts.Alert          `json:"alerts"`
	Schedule     lease.Schedule          `json:"schedule"`
	Menu         menu.Result             `json:"menu"`
}

// Builder assembles reports.
type Builder struct {
	logger     *zap.Logger
	normalizer *records.Normalizer
	engine     *alerts.Engine
}

// NewBuilder creates a report builder with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		logger:     logger,
		normalizer: records.NewNormalizer(logger),
		engine:     alerts.NewEngine(logger),
	}
}

// Build produces a report as of the configured reference date.
func (b *Builder) Build(c records.Collections, conf config.Configuration) Report {
	return b.BuildWithFixedTime(c, conf, conf.ReferenceTime(time.Now()))
}

// BuildWithFixedTime produces a report treating now as the current instant.
// Only the lease schedule depends on it.
func (b *Builder) BuildWithFixedTime(c records.Collections, conf config.Configuration, now time.Time) Report {
	filter := conf.Filter.ToFilter()

	all := b.normalizer.NormalizeCollections(c)
	recs := filter.Apply(all)

	undated := 0
	for _, rec := range recs {
		if !rec.Dated() {
			undated++
		}
	}

	monthly := aggregate.Monthly(recs)
	totals := aggregate.Sum(monthly)

	var leases []lease.Obligation
	for _, ob := range b.normalizer.Leases(c.Rent) {
		if filter.MatchOutletBrand(ob.OutletID, "") {
			leases = append(leases, ob)
		}
	}

	var items []menu.Item
	for _, item := range b.normalizer.MenuItems(c.MenuItems) {
		if matchMenuItem(filter, item) {
			items = append(items, item)
		}
	}

	report := Report{
		Summary: Summary{
			AsOf:          datetime.Today(now),
			Outlets:       aggregate.Outlets(monthly),
			RecordCount:   len(all),
			FilteredCount: len(recs),
			UndatedCount:  undated,
			Totals:        totals,
			NetCash:       totals.Net(),
			FoodCostPct:   alerts.FoodCostPercentage(totals),
			LaborPct:      alerts.LaborPercentage(totals),
		},
		Monthly:      monthly,
		Consolidated: aggregate.Consolidate(monthly),
		Forecast:     forecast.GetForecast(b.logger, monthly, conf.Forecast),
		Alerts:       b.engine.Evaluate(conf.Alerts, monthly),
		Schedule:     lease.NewScheduler(b.logger, conf.Schedule.HorizonMonths).ScheduleWithFixedTime(leases, now),
		Menu:         menu.Classify(items),
	}

	b.logger.Info("report built",
		zap.String("op", "report.BuildWithFixedTime"),
		zap.Int("records", report.Summary.RecordCount),
		zap.Int("filtered", report.Summary.FilteredCount),
		zap.Int("buckets", len(report.Monthly)),
		zap.Int("alerts", len(report.Alerts)),
		zap.Int("leases", len(leases)),
		zap.Int("menuItems", len(items)),
	)

	return report
}

// matchMenuItem keeps brand-level items that name no outlet whenever their
// brand passes.
func matchMenuItem(filter aggregate.Filter, item menu.Item) bool {
	if item.Outlet == "" {
		brandOnly := filter
		brandOnly.Outlets = nil
		return brandOnly.MatchOutletBrand("", item.Brand)
	}
	return filter.MatchOutletBrand(item.Outlet, item.Brand)
}
