// Package dataset loads raw record collections from a YAML or JSON document
// with top-level lists sales, purchases, rent, labor, pettyCash and menuItems.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/outlet-analytics/pkg/records"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a dataset document.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from the file extension, falling back to the
// first non-space byte of data.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and decodes the dataset at path.
func Load(path string) (records.Collections, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return records.Collections{}, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return Decode(data, DetectFormat(path, data))
}

// Decode parses a dataset document. An empty document yields empty collections.
func Decode(data []byte, format Format) (records.Collections, error) {
	var c records.Collections
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&c); err != nil {
			return records.Collections{}, fmt.Errorf("failed to decode JSON dataset: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return records.Collections{}, fmt.Errorf("failed to decode YAML dataset: %w", err)
		}
	}
	return c, nil
}

// Read decodes a dataset from r, detecting the format from name and content.
func Read(r io.Reader, name string) (records.Collections, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return records.Collections{}, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Decode(data, DetectFormat(name, data))
}

// ErrEmpty is returned by RequireRows when a dataset holds no rows at all.
var ErrEmpty = errors.New("dataset contains no records")

// RequireRows returns ErrEmpty when every collection is empty.
func RequireRows(c records.Collections) error {
	if Count(c) == 0 {
		return ErrEmpty
	}
	return nil
}

// Count is the total number of rows across all collections.
func Count(c records.Collections) int {
	return len(c.Sales) + len(c.Purchases) + len(c.Rent) + len(c.Labor) + len(c.PettyCash) + len(c.MenuItems)
}
