package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	csvrepo "github.com/vsinha/boxopt/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/boxopt/pkg/infrastructure/repositories/memory"
)

// Scenario file names inside a scenario directory
const (
	ProductsFile = "products.csv"
	LinesFile    = "lines.csv"
	ShipmentFile = "shipment.yaml"
)

// ShipmentFileConfig is the YAML form of shipment.yaml
type ShipmentFileConfig struct {
	Mode         string                 `yaml:"mode"`
	Port         string                 `yaml:"port"`
	PackingType  string                 `yaml:"packing_type"`
	TargetBoxes  int                    `yaml:"target_boxes"`
	GrossWeight  string                 `yaml:"gross_weight"`
	Volume       string                 `yaml:"volume"`
	ExchangeRate string                 `yaml:"exchange_rate"`
	Adjustable   []string               `yaml:"adjustable"`
	Ranges       map[string]RangeConfig `yaml:"ranges"`
}

// RangeConfig bounds one adjustable line; omitted bounds use the search defaults
type RangeConfig struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

// Scenario is a fully loaded shipment together with its catalog and search parameters
type Scenario struct {
	Dir            string
	Catalog        *memory.ProductRepository
	Shipment       *entities.Shipment
	AdjustableKeys []entities.LineKey
	Ranges         map[entities.LineKey]entities.AdjustmentRange
}

// LoadScenario reads products.csv, lines.csv and shipment.yaml from dir
func LoadScenario(dir string) (*Scenario, error) {
	loader := csvrepo.NewLoader()

	products, err := loader.LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	catalog := memory.NewProductRepository(len(products))
	if err := catalog.LoadProducts(products); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	lines, err := loader.LoadLines(filepath.Join(dir, LinesFile), catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines: %w", err)
	}

	path := filepath.Join(dir, ShipmentFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shipment: %w", err)
	}
	var file ShipmentFileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse shipment: %w", err)
	}

	shipment, err := file.toShipment(lines)
	if err != nil {
		return nil, fmt.Errorf("invalid shipment %s: %w", path, err)
	}

	scenario := &Scenario{
		Dir:      dir,
		Catalog:  catalog,
		Shipment: shipment,
		Ranges:   make(map[entities.LineKey]entities.AdjustmentRange, len(file.Ranges)),
	}
	for _, key := range file.Adjustable {
		scenario.AdjustableKeys = append(scenario.AdjustableKeys, entities.LineKey(strings.TrimSpace(key)))
	}
	for key, r := range file.Ranges {
		scenario.Ranges[entities.LineKey(key)] = entities.AdjustmentRange{Min: r.Min, Max: r.Max}
	}

	return scenario, nil
}

func (f ShipmentFileConfig) toShipment(lines []entities.LineItem) (*entities.Shipment, error) {
	mode, err := entities.ParseShipmentMode(f.Mode)
	if err != nil {
		return nil, err
	}

	shipment := &entities.Shipment{
		Mode:         mode,
		Port:         strings.TrimSpace(f.Port),
		PackingType:  strings.TrimSpace(f.PackingType),
		TargetBoxes:  f.TargetBoxes,
		ExchangeRate: decimal.NewFromInt(1),
		Lines:        lines,
	}

	amounts := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"gross_weight", f.GrossWeight, &shipment.GrossWeight},
		{"volume", f.Volume, &shipment.Volume},
		{"exchange_rate", f.ExchangeRate, &shipment.ExchangeRate},
	}
	for _, amount := range amounts {
		if strings.TrimSpace(amount.value) == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(amount.value))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", amount.name, amount.value)
		}
		*amount.dst = d
	}
	if err := shipment.Validate(); err != nil {
		return nil, err
	}
	return shipment, nil
}
