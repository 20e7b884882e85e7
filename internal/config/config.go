// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/outlet-analytics/pkg/alerts"
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/datetime"
	"github.com/iwvelando/outlet-analytics/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. OUTLET_FORECAST_STARTINGBALANCE.
const EnvPrefix = "OUTLET"

// Configuration holds all configuration for outlet-analytics.
type Configuration struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty" json:"output,omitempty"`
	Data     DataConfig     `yaml:"data,omitempty" json:"data,omitempty"`
	Forecast ForecastConfig `yaml:"forecast" json:"forecast"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`
	Alerts   []alerts.Rule  `yaml:"alerts,omitempty" json:"alerts,omitempty"`
	Filter   FilterConfig   `yaml:"filter,omitempty" json:"filter,omitempty"`
	// AsOf pins "today" for the lease schedule. Empty means the wall clock.
	AsOf string `yaml:"asOf,omitempty" json:"asOf,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, json
}

// DataConfig locates the dataset document.
type DataConfig struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// ForecastConfig parameterizes the cash-flow projection.
type ForecastConfig struct {
	LookbackMonths  int             `yaml:"lookbackMonths" json:"lookbackMonths"`
	ForecastMonths  int             `yaml:"forecastMonths" json:"forecastMonths"`
	StartingBalance decimal.Decimal `yaml:"startingBalance" json:"startingBalance"`
	MinBuffer       decimal.Decimal `yaml:"minBuffer" json:"minBuffer"`
}

// ScheduleConfig parameterizes the lease schedule.
type ScheduleConfig struct {
	HorizonMonths int `yaml:"horizonMonths" json:"horizonMonths"`
}

// FilterConfig narrows the records a report covers. From and To are YYYY-MM.
type FilterConfig struct {
	Outlets []string `yaml:"outlets,omitempty" json:"outlets,omitempty"`
	Brand   string   `yaml:"brand,omitempty" json:"brand,omitempty"`
	From    string   `yaml:"from,omitempty" json:"from,omitempty"`
	To      string   `yaml:"to,omitempty" json:"to,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Configuration {
	return Configuration{
		Logging: LoggingConfig{Level: "info", Format: constants.LogFormatConsole},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Forecast: ForecastConfig{
			LookbackMonths:  constants.DefaultLookbackMonths,
			ForecastMonths:  constants.DefaultForecastMonths,
			StartingBalance: decimal.Zero,
			MinBuffer:       decimal.Zero,
		},
		Schedule: ScheduleConfig{HorizonMonths: constants.DefaultHorizonMonths},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yml")

	defaults := Default()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("forecast.lookbackMonths", defaults.Forecast.LookbackMonths)
	v.SetDefault("forecast.forecastMonths", defaults.Forecast.ForecastMonths)
	v.SetDefault("forecast.startingBalance", "0")
	v.SetDefault("forecast.minBuffer", "0")
	v.SetDefault("schedule.horizonMonths", defaults.Schedule.HorizonMonths)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	return LoadConfigurationLayers(r)
}

// LoadConfigurationLayers reads YAML documents in order, each one merged over
// the ones before it. Lists such as alerts are replaced, not appended.
func LoadConfigurationLayers(layers ...io.Reader) (*Configuration, error) {
	v := newViper()

	for i, r := range layers {
		read := v.MergeConfig
		if i == 0 {
			read = v.ReadConfig
		}
		if err := read(r); err != nil {
			return nil, fmt.Errorf("error reading config layer %d, %s", i+1, err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ReferenceTime returns the instant the lease schedule treats as now.
func (c *Configuration) ReferenceTime(now time.Time) time.Time {
	if c.AsOf == "" {
		return now
	}
	if d, ok := datetime.Parse(c.AsOf); ok {
		return d.Time()
	}
	return now
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if err := validation.ValidateLogging(c.Logging.Level, c.Logging.Format); err != nil {
		warnings = append(warnings, err.Error())
	}
	if c.AsOf != "" {
		if _, ok := datetime.Parse(c.AsOf); !ok {
			warnings = append(warnings, fmt.Sprintf("asOf '%s' is not a recognised date - the current date will be used", c.AsOf))
		}
	}
	if c.Forecast.StartingBalance.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("forecast.startingBalance is negative (%s) - every projected month may be flagged", c.Forecast.StartingBalance))
	}

	validator := validation.ConfigValidator{
		LookbackMonths: c.Forecast.LookbackMonths,
		ForecastMonths: c.Forecast.ForecastMonths,
		HorizonMonths:  c.Schedule.HorizonMonths,
		FilterFrom:     c.Filter.From,
		FilterTo:       c.Filter.To,
		Alerts:         c.Alerts,
	}
	return append(warnings, validator.ValidateAll()...)
}
