// Package constants provides shared constants for the outlet-analytics application.
package constants

import "time"

// MonthKeyLayout is the layout of a calendar month key, e.g. "2024-03".
const MonthKeyLayout = "2006-01"

// DateLayout is the canonical calendar date layout.
const DateLayout = "2006-01-02"

// MonthLabelLayout is the display layout for a month, e.g. "Mar 2024".
const MonthLabelLayout = "Jan 2006"

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MonthlyStep is the month step of a monthly obligation
	MonthlyStep = 1

	// QuarterlyStep is the month step of a quarterly obligation
	QuarterlyStep = 3

	// SemiannualStep is the month step of a semiannual obligation
	SemiannualStep = 6

	// AnnualStep is the month step of an annual obligation
	AnnualStep = 12
)

// Record defaults
const (
	// UnassignedOutlet is used for records without an outlet
	UnassignedOutlet = "Unassigned"

	// ConsolidatedOutlet labels buckets merged across every outlet
	ConsolidatedOutlet = "All Outlets"
)

// Analytics defaults
const (
	// DefaultHorizonMonths is the default length of the lease schedule window
	DefaultHorizonMonths = 12

	// DefaultLookbackMonths is the default forecast lookback window
	DefaultLookbackMonths = 3

	// DefaultForecastMonths is the default number of projected months
	DefaultForecastMonths = 6

	// DefaultStreakWindow is used by streak rules that do not set a window
	DefaultStreakWindow = 3

	// MaxAlertOutlets is how many outlets an alert message names before "+N more"
	MaxAlertOutlets = 3

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON writes the full report document
	OutputFormatJSON = "json"
)

// Logging constants
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultReadHeaderTimeout bounds how long a client may take to send headers
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 15 * time.Second

	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for datasets (4 MB)
	DefaultMaxUploadSizeBytes int64 = 4 * 1024 * 1024
)
