package entities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Distribution is the box counts assigned to the adjustable lines, in selection order
type Distribution []int

// Key returns a stable string form used for deduplication
func (d Distribution) Key() string {
	parts := make([]string, len(d))
	for i, n := range d {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Sum returns the total boxes in the distribution
func (d Distribution) Sum() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// String method for Distribution
func (d Distribution) String() string {
	return fmt.Sprintf("[%s]", d.Key())
}

// Metrics is the shipment-level metrics bundle computed for one candidate
type Metrics struct {
	TotalGoodsValue         decimal.Decimal `json:"total_goods_value"`
	LineDuty                decimal.Decimal `json:"line_duty"`
	ProcessingFee           decimal.Decimal `json:"processing_fee"`
	AuxiliaryFees           decimal.Decimal `json:"auxiliary_fees"`
	ExtraFees               decimal.Decimal `json:"extra_fees"`
	TotalDuty               decimal.Decimal `json:"total_duty"`
	ValuePerWeight          decimal.Decimal `json:"value_per_weight"`
	DutyPerWeight           decimal.Decimal `json:"duty_per_weight"`
	ClothingValuePercentage decimal.Decimal `json:"clothing_value_percentage"`
	SingleBoxWeight         decimal.Decimal `json:"single_box_weight"`
}

// Value returns the metric a condition refers to
func (m Metrics) Value(name MetricName) (decimal.Decimal, bool) {
	switch name {
	case MetricValuePerWeight:
		return m.ValuePerWeight, true
	case MetricTaxPerWeight:
		return m.DutyPerWeight, true
	case MetricClothingValuePercentage:
		return m.ClothingValuePercentage, true
	case MetricTotalValue:
		return m.TotalGoodsValue, true
	default:
		return decimal.Zero, false
	}
}

// Solution is an accepted candidate allocation. Solutions are never modified after creation.
type Solution struct {
	ID           string       `json:"id"`
	Lines        []LineItem   `json:"-"`
	Metrics      Metrics      `json:"metrics"`
	Distribution Distribution `json:"distribution"`
	// Ordinal is the candidate's position in enumeration order.
	Ordinal int `json:"-"`
}

// TotalDuty is the objective the optimizer minimizes
func (s *Solution) TotalDuty() decimal.Decimal {
	return s.Metrics.TotalDuty
}
