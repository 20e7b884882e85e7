package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/outlet-analytics/internal/config"
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP report server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Logging       config.LoggingConfig `yaml:"logging"`
	// ReadHeaderTimeout and ShutdownTimeout are Go durations, e.g. "5s".
	ReadHeaderTimeout string `yaml:"readHeaderTimeout"`
	ShutdownTimeout   string `yaml:"shutdownTimeout"`
	// Defaults is an analytics configuration file layered beneath each
	// request's own configuration.
	Defaults string `yaml:"defaults"`

	uploadSizeBytes   int64
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
}

// LoadConfig reads the server configuration. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the request body limit in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// ReadHeaderTimeoutDuration is the parsed header read timeout.
func (c *Config) ReadHeaderTimeoutDuration() time.Duration {
	return c.readHeaderTimeout
}

// ShutdownTimeoutDuration bounds graceful shutdown.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.shutdownTimeout
}

// SetUploadSizeBytes overrides the request body limit. Non-positive sizes
// are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = strconv.FormatInt(size, 10)
	}
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid maxUploadSize: %w", err)
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)

	if c.readHeaderTimeout, err = parseDuration(c.ReadHeaderTimeout, constants.DefaultReadHeaderTimeout); err != nil {
		return fmt.Errorf("invalid readHeaderTimeout: %w", err)
	}
	if c.shutdownTimeout, err = parseDuration(c.ShutdownTimeout, constants.DefaultShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdownTimeout: %w", err)
	}
	return nil
}

// sizeUnits maps accepted suffixes to byte multipliers.
var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a size such as "512K" or "4MB" into bytes. An empty
// value means the default upload limit.
func ParseSize(value string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	digits := strings.TrimRightFunc(upper, func(r rune) bool { return r < '0' || r > '9' })
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	unit := strings.TrimSpace(upper[len(digits):])

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > 0 && n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}

// parseDuration returns fallback for blank or non-positive durations.
func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}
