// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"go.uber.org/zap/zapcore"
)

var outputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, f := range outputFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %s", strings.Join(outputFormats, ", "), format)
}

// ValidateLogging checks a configured log level and encoder. Empty values
// fall back to defaults and are accepted.
func ValidateLogging(level, format string) error {
	if level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	switch format {
	case "", constants.LogFormatJSON, constants.LogFormatConsole:
		return nil
	default:
		return fmt.Errorf("expected log format of %s or %s, got %s",
			constants.LogFormatJSON, constants.LogFormatConsole, format)
	}
}
