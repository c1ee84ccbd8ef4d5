package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/domain/repositories"
)

var (
	productsHeader = []string{
		"name", "unit_price", "pieces_per_box", "duty_rate", "surcharge_rates",
		"fixed_box_weight", "extra_fee_unit", "extra_fee_rate", "clothing", "weight_bound",
	}
	linesHeader = []string{"line_id", "product", "box_count", "pieces_per_box", "unit_price"}
)

// Loader handles loading catalog and shipment line data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProducts loads the product catalog from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readRecords(filename, "products", productsHeader)
	if err != nil {
		return nil, err
	}

	var products []*entities.Product
	for i, record := range records {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadLines loads shipment lines from a CSV file, resolving product names against the catalog.
// An empty product column leaves the line unselected.
func (l *Loader) LoadLines(filename string, catalog repositories.ProductRepository) ([]entities.LineItem, error) {
	records, err := readRecords(filename, "lines", linesHeader)
	if err != nil {
		return nil, err
	}

	var lines []entities.LineItem
	for i, record := range records {
		line, err := parseLine(record, catalog)
		if err != nil {
			return nil, fmt.Errorf("lines CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// readRecords opens a CSV file, checks its header and returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d",
				kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	name := entities.ProductName(strings.TrimSpace(record[0]))

	unitPrice, err := parseDecimal("unit_price", record[1])
	if err != nil {
		return nil, err
	}

	piecesPerBox, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid pieces_per_box: %s", record[2])
	}

	dutyRate, err := parseDecimal("duty_rate", record[3])
	if err != nil {
		return nil, err
	}

	var surcharges []decimal.Decimal
	for _, part := range strings.Split(record[4], ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		rate, err := parseDecimal("surcharge_rates", part)
		if err != nil {
			return nil, err
		}
		surcharges = append(surcharges, rate)
	}

	product, err := entities.NewProduct(name, unitPrice, piecesPerBox, dutyRate, surcharges)
	if err != nil {
		return nil, err
	}

	if weight := strings.TrimSpace(record[5]); weight != "" {
		w, err := parseDecimal("fixed_box_weight", weight)
		if err != nil {
			return nil, err
		}
		if !w.IsPositive() {
			return nil, fmt.Errorf("fixed_box_weight must be positive, got %s", w)
		}
		product.FixedBoxWeight = &w
	}

	if unit := strings.TrimSpace(record[6]); unit != "" {
		feeUnit, err := entities.ParseFeeUnit(strings.ToLower(unit))
		if err != nil {
			return nil, err
		}
		rate, err := parseDecimal("extra_fee_rate", record[7])
		if err != nil {
			return nil, err
		}
		product.ExtraFee = &entities.ExtraFee{Unit: feeUnit, Rate: rate}
	}

	if product.Clothing, err = parseFlag("clothing", record[8]); err != nil {
		return nil, err
	}
	if product.WeightBound, err = parseFlag("weight_bound", record[9]); err != nil {
		return nil, err
	}

	return product, nil
}

func parseLine(record []string, catalog repositories.ProductRepository) (entities.LineItem, error) {
	key := entities.LineKey(strings.TrimSpace(record[0]))

	boxCount, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return entities.LineItem{}, fmt.Errorf("invalid box_count: %s", record[2])
	}

	var product *entities.Product
	if name := strings.TrimSpace(record[1]); name != "" {
		product, err = catalog.GetProduct(entities.ProductName(name))
		if err != nil {
			return entities.LineItem{}, fmt.Errorf("line %s: %w", key, err)
		}
	}

	line, err := entities.NewLineItem(key, product, boxCount)
	if err != nil {
		return entities.LineItem{}, err
	}

	if pieces := strings.TrimSpace(record[3]); pieces != "" {
		line.PiecesPerBox, err = strconv.Atoi(pieces)
		if err != nil || line.PiecesPerBox < 0 {
			return entities.LineItem{}, fmt.Errorf("invalid pieces_per_box: %s", record[3])
		}
	}

	if price := strings.TrimSpace(record[4]); price != "" {
		line.UnitPrice, err = parseDecimal("unit_price", price)
		if err != nil {
			return entities.LineItem{}, err
		}
	}

	return *line, nil
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", column, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: %s (cannot be negative)", column, s)
	}
	return d, nil
}

func parseFlag(column, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "0":
		return false, nil
	case "true", "yes", "1":
		return true, nil
	default:
		return false, fmt.Errorf("invalid %s: %s (expected true or false)", column, s)
	}
}
