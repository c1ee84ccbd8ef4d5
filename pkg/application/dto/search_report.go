package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/application/services/search"
	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// SearchReport contains the complete output of an optimize run
type SearchReport struct {
	SessionID      string             `json:"session_id"`
	Scenario       string             `json:"scenario"`
	Mode           string             `json:"mode"`
	TargetBoxes    int                `json:"target_boxes"`
	AdjustableKeys []entities.LineKey `json:"adjustable_keys"`
	Conditions     []string           `json:"conditions"`
	Rounds         []RoundReport      `json:"rounds"`
	Events         int                `json:"events"`
}

// RoundReport is one search within the session
type RoundReport struct {
	Round        int              `json:"round"`
	ToDistribute int              `json:"to_distribute"`
	HistoryReset bool             `json:"history_reset"`
	Stats        StatsReport      `json:"stats"`
	Solutions    []SolutionReport `json:"solutions"`
	// Error is set when the round found nothing new
	Error string `json:"error,omitempty"`
}

// StatsReport mirrors search.Stats with a serializable duration
type StatsReport struct {
	Enumerated  int   `json:"enumerated"`
	SkippedSeen int   `json:"skipped_seen"`
	Rejected    int   `json:"rejected"`
	Accepted    int   `json:"accepted"`
	ElapsedMS   int64 `json:"elapsed_ms"`
}

// SolutionReport is one ranked solution
type SolutionReport struct {
	Rank         int                   `json:"rank"`
	ID           string                `json:"id"`
	Distribution entities.Distribution `json:"distribution"`
	Metrics      entities.Metrics      `json:"metrics"`
	Lines        []LineReport          `json:"lines"`
}

// LineReport is a line of a solution's shipment
type LineReport struct {
	Key           entities.LineKey     `json:"key"`
	Product       entities.ProductName `json:"product,omitempty"`
	BoxCount      int                  `json:"box_count"`
	PiecesPerBox  int                  `json:"pieces_per_box"`
	UnitPrice     decimal.Decimal      `json:"unit_price"`
	GoodsValue    decimal.Decimal      `json:"goods_value"`
	EstimatedDuty decimal.Decimal      `json:"estimated_duty"`
}

// Best returns the top solution of the round, or nil
func (r RoundReport) Best() *SolutionReport {
	if len(r.Solutions) == 0 {
		return nil
	}
	return &r.Solutions[0]
}

// NewRoundReport converts a search result
func NewRoundReport(round int, result *search.Result) RoundReport {
	report := RoundReport{
		Round:        round,
		ToDistribute: result.ToDistribute,
		HistoryReset: result.HistoryReset,
		Stats: StatsReport{
			Enumerated:  result.Stats.Enumerated,
			SkippedSeen: result.Stats.SkippedSeen,
			Rejected:    result.Stats.Rejected,
			Accepted:    result.Stats.Accepted,
			ElapsedMS:   result.Stats.Elapsed.Milliseconds(),
		},
		Solutions: make([]SolutionReport, len(result.Solutions)),
	}
	for i, solution := range result.Solutions {
		report.Solutions[i] = NewSolutionReport(i+1, solution)
	}
	return report
}

// NewSolutionReport converts a ranked solution
func NewSolutionReport(rank int, solution *entities.Solution) SolutionReport {
	return SolutionReport{
		Rank:         rank,
		ID:           solution.ID,
		Distribution: solution.Distribution,
		Metrics:      solution.Metrics,
		Lines:        NewLineReports(solution.Lines),
	}
}

// NewLineReports converts shipment lines
func NewLineReports(lines []entities.LineItem) []LineReport {
	reports := make([]LineReport, len(lines))
	for i, line := range lines {
		report := LineReport{
			Key:           line.Key,
			BoxCount:      line.BoxCount,
			GoodsValue:    line.GoodsValue,
			EstimatedDuty: line.EstimatedDuty,
		}
		if line.Selected() {
			report.Product = line.Product.Name
			report.PiecesPerBox = line.EffectivePiecesPerBox()
			report.UnitPrice = line.EffectiveUnitPrice()
		}
		reports[i] = report
	}
	return reports
}
