package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ShipmentMode represents the transport mode, which selects fee schedules and conditions
type ShipmentMode int

const (
	Sea ShipmentMode = iota
	Air
)

// String method for ShipmentMode enum
func (m ShipmentMode) String() string {
	switch m {
	case Sea:
		return "sea"
	case Air:
		return "air"
	default:
		return "Unknown"
	}
}

// ParseShipmentMode converts a configuration spelling into a ShipmentMode
func ParseShipmentMode(s string) (ShipmentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sea", "ocean":
		return Sea, nil
	case "air":
		return Air, nil
	default:
		return 0, fmt.Errorf("unknown shipment mode %q (expected sea or air)", s)
	}
}

// Shipment is the caller's current shipment state
type Shipment struct {
	Mode         ShipmentMode
	Port         string
	PackingType  string
	TargetBoxes  int
	GrossWeight  decimal.Decimal
	Volume       decimal.Decimal // declared volume, air only
	ExchangeRate decimal.Decimal
	Lines        []LineItem
}

// TotalBoxes sums box counts across all lines
func (s *Shipment) TotalBoxes() int {
	total := 0
	for _, line := range s.Lines {
		total += line.BoxCount
	}
	return total
}

// Line returns the line with the given key
func (s *Shipment) Line(key LineKey) (LineItem, bool) {
	for _, line := range s.Lines {
		if line.Key == key {
			return line, true
		}
	}
	return LineItem{}, false
}

// Clone returns a copy whose line slice can be modified independently
func (s *Shipment) Clone() *Shipment {
	clone := *s
	clone.Lines = make([]LineItem, len(s.Lines))
	copy(clone.Lines, s.Lines)
	return &clone
}

// Validate checks shipment-level invariants that do not depend on a search
func (s *Shipment) Validate() error {
	if s.GrossWeight.IsNegative() {
		return fmt.Errorf("gross weight cannot be negative, got %s", s.GrossWeight)
	}
	if s.Volume.IsNegative() {
		return fmt.Errorf("volume cannot be negative, got %s", s.Volume)
	}
	if s.ExchangeRate.IsNegative() {
		return fmt.Errorf("exchange rate cannot be negative, got %s", s.ExchangeRate)
	}
	seen := make(map[LineKey]bool, len(s.Lines))
	for _, line := range s.Lines {
		if seen[line.Key] {
			return fmt.Errorf("duplicate line key: %s", line.Key)
		}
		seen[line.Key] = true
		if line.BoxCount < 0 {
			return fmt.Errorf("line %s: box count cannot be negative, got %d", line.Key, line.BoxCount)
		}
	}
	return nil
}
