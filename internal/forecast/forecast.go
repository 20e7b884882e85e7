// Package forecast projects aggregated monthly history into a future cash
// position.
//
// The projection is flat: every forecast month uses the same averaged flows
// taken from the lookback window. No trend or seasonality is modelled.
package forecast

import (
	"github.com/iwvelando/outlet-analytics/internal/config"
	"github.com/iwvelando/outlet-analytics/pkg/aggregate"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/iwvelando/outlet-analytics/pkg/mathutil"
	"github.com/iwvelando/outlet-analytics/pkg/records"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Row is one projected month.
type Row struct {
	Month datetime.MonthKey `json:"monthKey"`
	Label string            `json:"label"`
	aggregate.Flows
	NetCash      decimal.Decimal `json:"netCash"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	IsCrunch     bool            `json:"isCrunch"`
}

// Forecast holds all information related to a projection.
type Forecast struct {
	Rows             []Row           `json:"forecastRows"`
	StartingBalance  decimal.Decimal `json:"startingBalance"`
	WorstBalance     decimal.Decimal `json:"worstBalance"`
	CrunchCount      int             `json:"crunchCount"`
	FirstCrunchLabel string          `json:"firstCrunchLabel"`
	// Assumptions are the averaged flows applied to every row.
	Assumptions  aggregate.Flows `json:"assumptions"`
	LookbackUsed int             `json:"lookbackUsed"`
}

// Empty reports whether nothing was projected.
func (f Forecast) Empty() bool {
	return len(f.Rows) == 0
}

// GetForecast projects conf.ForecastMonths months past the last month of
// history. Buckets of several outlets are consolidated per month first. A
// non-positive window or an empty history yields an empty Forecast.
func GetForecast(logger *zap.Logger, history []aggregate.MonthBucket, conf config.ForecastConfig) Forecast {
	if logger == nil {
		logger = zap.NewNop()
	}

	if conf.LookbackMonths <= 0 || conf.ForecastMonths <= 0 {
		logger.Debug("forecast disabled by configuration",
			zap.String("op", "forecast.GetForecast"),
			zap.Int("lookbackMonths", conf.LookbackMonths),
			zap.Int("forecastMonths", conf.ForecastMonths),
		)
		return Forecast{}
	}

	series := aggregate.Consolidate(history)
	if len(series) == 0 {
		logger.Debug("no history to forecast from",
			zap.String("op", "forecast.GetForecast"),
		)
		return Forecast{}
	}

	window := series
	if len(window) > conf.LookbackMonths {
		window = window[len(window)-conf.LookbackMonths:]
	}
	avg := Averages(window)

	result := Forecast{
		Rows:            make([]Row, 0, conf.ForecastMonths),
		StartingBalance: conf.StartingBalance,
		WorstBalance:    conf.StartingBalance,
		Assumptions:     avg,
		LookbackUsed:    len(window),
	}

	net := avg.Net()
	balance := conf.StartingBalance
	month := series[len(series)-1].Month
	for i := 0; i < conf.ForecastMonths; i++ {
		month = month.Next()
		balance = balance.Add(net)
		result.WorstBalance = mathutil.Min(result.WorstBalance, balance)

		row := Row{
			Month:        month,
			Label:        month.Label(),
			Flows:        avg,
			NetCash:      net,
			BalanceAfter: balance,
			IsCrunch:     balance.LessThan(conf.MinBuffer),
		}
		if row.IsCrunch {
			result.CrunchCount++
			if result.FirstCrunchLabel == "" {
				result.FirstCrunchLabel = row.Label
			}
		}
		result.Rows = append(result.Rows, row)
	}

	logger.Debug("forecast computed",
		zap.String("op", "forecast.GetForecast"),
		zap.Int("lookbackUsed", result.LookbackUsed),
		zap.Int("rows", len(result.Rows)),
		zap.Int("crunchCount", result.CrunchCount),
	)

	return result
}

// Averages is the per-category arithmetic mean over buckets.
func Averages(buckets []aggregate.MonthBucket) aggregate.Flows {
	avg := aggregate.ZeroFlows()
	if len(buckets) == 0 {
		return avg
	}
	values := make([]decimal.Decimal, len(buckets))
	mean := func(category records.Category) decimal.Decimal {
		for i, b := range buckets {
			values[i] = b.Get(category)
		}
		return mathutil.Mean(values)
	}
	avg.SalesIn = mean(records.Sales)
	avg.PurchasesOut = mean(records.Purchase)
	avg.RentOut = mean(records.Rent)
	avg.LaborOut = mean(records.Labor)
	avg.PettyOut = mean(records.PettyCash)
	return avg
}
