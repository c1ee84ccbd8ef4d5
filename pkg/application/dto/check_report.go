package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// CheckReport is the evaluation of a shipment as it stands, without searching
type CheckReport struct {
	Scenario    string            `json:"scenario"`
	Mode        string            `json:"mode"`
	TargetBoxes int               `json:"target_boxes"`
	TotalBoxes  int               `json:"total_boxes"`
	Metrics     entities.Metrics  `json:"metrics"`
	Conditions  []ConditionReport `json:"conditions"`
	// Strict is the verdict the search applies; Override is the manual export verdict.
	Strict       bool                `json:"strict"`
	Override     bool                `json:"override"`
	Lines        []LineReport        `json:"lines"`
	WeightChecks []WeightCheckReport `json:"weight_checks"`
}

// Balanced reports whether the lines add up to the target box count
func (r CheckReport) Balanced() bool {
	return r.TargetBoxes == r.TotalBoxes
}

// ConditionReport is the outcome of one configured condition
type ConditionReport struct {
	Condition     string          `json:"condition"`
	Value         decimal.Decimal `json:"value"`
	Participating bool            `json:"participating"`
	Passed        bool            `json:"passed"`
}

// WeightCheckReport is the pieces-per-box check of one weight-bound line
type WeightCheckReport struct {
	Key          entities.LineKey `json:"key"`
	PiecesPerBox int              `json:"pieces_per_box"`
	Required     int              `json:"required"`
	Eligible     bool             `json:"eligible"`
}
