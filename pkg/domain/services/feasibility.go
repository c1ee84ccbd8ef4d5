package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// ConditionResult is the outcome of one condition against a metrics bundle
type ConditionResult struct {
	Condition entities.Condition
	Value     decimal.Decimal
	// Participating is false for disabled conditions and metrics that do not apply to the
	// shipment mode. Such conditions always pass.
	Participating bool
	Passed        bool
}

// Verdict collects per-condition results for one candidate
type Verdict struct {
	Results []ConditionResult
	AllPass bool
}

// Compare applies a condition operator.
//
// ">" and ">=" both require value >= threshold, and "<" and "<=" both require
// value <= threshold. Existing condition configuration is written against this
// behaviour. Unrecognized operators pass.
func Compare(op entities.Operator, value, threshold decimal.Decimal) bool {
	switch entities.NormalizeOperator(string(op)) {
	case entities.OpGreater, entities.OpGreaterEqual:
		return value.GreaterThanOrEqual(threshold)
	case entities.OpLess, entities.OpLessEqual:
		return value.LessThanOrEqual(threshold)
	case entities.OpEqual:
		return value.Equal(threshold)
	default:
		return true
	}
}

// Evaluate checks every condition against the metrics of a shipment in the given mode
func Evaluate(
	conditions []entities.Condition,
	metrics entities.Metrics,
	mode entities.ShipmentMode,
) Verdict {
	verdict := Verdict{
		Results: make([]ConditionResult, 0, len(conditions)),
		AllPass: true,
	}

	for _, condition := range conditions {
		result := ConditionResult{Condition: condition, Passed: true}
		value, known := metrics.Value(condition.Metric)
		if condition.Enabled && known && condition.Metric.AppliesTo(mode) {
			result.Participating = true
			result.Value = value
			result.Passed = Compare(condition.Operator, value, condition.Threshold)
		}
		if !result.Passed {
			verdict.AllPass = false
		}
		verdict.Results = append(verdict.Results, result)
	}

	return verdict
}

// AcceptancePolicy decides whether a verdict is good enough for a given context
type AcceptancePolicy interface {
	Name() string
	Accept(verdict Verdict) bool
}

// StrictPolicy is used by the automated search: every participating condition must pass
type StrictPolicy struct{}

// Name returns the policy identifier
func (StrictPolicy) Name() string { return "strict" }

// Accept implements AcceptancePolicy
func (StrictPolicy) Accept(verdict Verdict) bool {
	return verdict.AllPass
}

// OverridePolicy backs the manual force-download path. The mandatory metric must pass and
// at least one other participating condition must pass too; when nothing else participates
// the mandatory metric decides alone.
type OverridePolicy struct {
	Mandatory entities.MetricName
}

// NewOverridePolicy creates an override policy keyed on value-per-weight
func NewOverridePolicy() OverridePolicy {
	return OverridePolicy{Mandatory: entities.MetricValuePerWeight}
}

// Name returns the policy identifier
func (OverridePolicy) Name() string { return "override" }

// Accept implements AcceptancePolicy
func (p OverridePolicy) Accept(verdict Verdict) bool {
	mandatory := p.Mandatory
	if mandatory == "" {
		mandatory = entities.MetricValuePerWeight
	}

	mandatoryPassed := true
	others, othersPassed := 0, 0
	for _, result := range verdict.Results {
		if !result.Participating {
			continue
		}
		if result.Condition.Metric == mandatory {
			mandatoryPassed = mandatoryPassed && result.Passed
			continue
		}
		others++
		if result.Passed {
			othersPassed++
		}
	}

	if !mandatoryPassed {
		return false
	}
	return others == 0 || othersPassed > 0
}

var (
	_ AcceptancePolicy = StrictPolicy{}
	_ AcceptancePolicy = OverridePolicy{}
)
