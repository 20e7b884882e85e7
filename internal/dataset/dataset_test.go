package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/outlet-analytics/pkg/records"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		want Format
	}{
		{"json extension", "data.JSON", "sales: []", FormatJSON},
		{"yaml extension", "data.yml", "{}", FormatYAML},
		{"sniff object", "upload", "  {\"sales\": []}", FormatJSON},
		{"sniff yaml", "upload", "sales:\n  - {}", FormatYAML},
		{"empty", "", "", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.file, []byte(tt.data)); got != tt.want {
				t.Errorf("DetectFormat(%q) = %s, expected %s", tt.file, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	doc := `{
	"sales": [{"date": "2024-01-05", "outlet": "Downtown", "netSales": 1200.10}],
	"labor": [{"date": "2024-01-31", "outlet": "Downtown", "laborCost": "300"}],
	"menuItems": [{"name": "Dal", "menuPrice": 12, "foodCost": 3, "portionsSold": 10}]
}`
	c, err := Decode([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(c.Sales) != 1 || len(c.Labor) != 1 || len(c.MenuItems) != 1 {
		t.Fatalf("unexpected collection sizes %+v", c)
	}

	rec := records.NewNormalizer(zap.NewNop()).Normalize(records.Sales, c.Sales[0])
	if !rec.Amount.Equal(decimal.RequireFromString("1200.10")) {
		t.Errorf("amount = %s, expected 1200.10 without float rounding", rec.Amount)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
sales:
  - date: 2024-02-01
    outlet: Harbour
    amount: 500
pettyCash:
  - {date: "2024-02-03", amount: "12.50"}
`
	c, err := Decode([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	n := records.NewNormalizer(nil)
	sale := n.Normalize(records.Sales, c.Sales[0])
	if !sale.Dated() || sale.Date.String() != "2024-02-01" {
		t.Errorf("expected an unquoted YAML date to parse, got %v", sale.Date)
	}
	petty := n.Normalize(records.PettyCash, c.PettyCash[0])
	if petty.Outlet != "Unassigned" || !petty.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("unexpected petty cash record %+v", petty)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"bad json", `{"sales": [`, FormatJSON},
		{"json list at top", `[1, 2]`, FormatJSON},
		{"bad yaml", "sales: [a, b", FormatYAML},
		{"yaml scalar rows", "sales: 5", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.format); err == nil {
				t.Error("expected a decode error")
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	c, err := Decode([]byte("  \n"), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !errors.Is(RequireRows(c), ErrEmpty) {
		t.Error("expected ErrEmpty for an empty dataset")
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("../../test/test_dataset.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Sales) != 9 || len(c.Purchases) != 8 || len(c.Rent) != 2 ||
		len(c.Labor) != 8 || len(c.PettyCash) != 2 || len(c.MenuItems) != 5 {
		t.Errorf("unexpected collection sizes: sales=%d purchases=%d rent=%d labor=%d petty=%d menu=%d",
			len(c.Sales), len(c.Purchases), len(c.Rent), len(c.Labor), len(c.PettyCash), len(c.MenuItems))
	}
	if err := RequireRows(c); err != nil {
		t.Errorf("RequireRows() error = %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.json")
	if err := os.WriteFile(path, []byte(`{"rent": [{"amount": 10}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	c, err := Read(f, path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if Count(c) != 1 {
		t.Errorf("Count() = %d, expected 1", Count(c))
	}

	if _, err := Read(strings.NewReader("sales: ["), "x.yaml"); err == nil {
		t.Error("expected a decode error")
	}
}
