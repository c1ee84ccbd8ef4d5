package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MetricName identifies a shipment-level metric a condition is evaluated against
type MetricName string

const (
	MetricValuePerWeight          MetricName = "value-per-weight"
	MetricTaxPerWeight            MetricName = "tax-per-weight"
	MetricClothingValuePercentage MetricName = "clothing-value-percentage"
	MetricTotalValue              MetricName = "total-value"
)

// AppliesTo reports whether the metric participates for the given shipment mode.
// Sea shipments are judged on their clothing share, air shipments on total value.
func (m MetricName) AppliesTo(mode ShipmentMode) bool {
	switch m {
	case MetricClothingValuePercentage:
		return mode == Sea
	case MetricTotalValue:
		return mode == Air
	default:
		return true
	}
}

// ParseMetricName validates a configured metric identifier
func ParseMetricName(s string) (MetricName, error) {
	switch m := MetricName(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricValuePerWeight, MetricTaxPerWeight, MetricClothingValuePercentage, MetricTotalValue:
		return m, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Operator is a comparison operator as written in condition configuration
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
)

// NormalizeOperator maps alternate spellings onto the canonical operators.
// Unrecognized operators are returned unchanged so the gate can treat them as vacuous.
func NormalizeOperator(s string) Operator {
	switch strings.TrimSpace(s) {
	case "≥":
		return OpGreaterEqual
	case "≤":
		return OpLessEqual
	case "==":
		return OpEqual
	default:
		return Operator(strings.TrimSpace(s))
	}
}

// Condition is a named threshold a candidate shipment must satisfy
type Condition struct {
	Metric    MetricName      `json:"metric"`
	Operator  Operator        `json:"operator"`
	Threshold decimal.Decimal `json:"threshold"`
	Enabled   bool            `json:"enabled"`
}

// String renders the condition as it appears in configuration
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Metric, c.Operator, c.Threshold)
}

// ConditionProfileKey selects the condition set configured for a port and packing type
type ConditionProfileKey struct {
	Mode        ShipmentMode
	Port        string
	PackingType string
}

// ConditionProfile is the condition set configured for one port and packing type
type ConditionProfile struct {
	Key        ConditionProfileKey
	Conditions []Condition
}
