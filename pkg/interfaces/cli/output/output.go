package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/boxopt/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Writer receives text and stdout JSON output; nil means os.Stdout.
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// GenerateSearchReport renders an optimize run in the configured format
func GenerateSearchReport(report *dto.SearchReport, config Config) error {
	switch config.Format {
	case "", "text":
		return writeSearchText(report, config)
	case "json":
		return writeJSON(report, "search_results.json", config)
	case "csv":
		return writeSearchCSV(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateCheckReport renders a shipment check in the configured format
func GenerateCheckReport(report *dto.CheckReport, config Config) error {
	switch config.Format {
	case "", "text":
		return writeCheckText(report, config)
	case "json":
		return writeJSON(report, "check_results.json", config)
	case "csv":
		return writeCheckCSV(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func writeSearchText(report *dto.SearchReport, config Config) error {
	w := config.writer()

	fmt.Fprintf(w, "📦 Packing Optimization Results\n")
	fmt.Fprintf(w, "===============================\n\n")
	fmt.Fprintf(w, "Scenario: %s\n", report.Scenario)
	fmt.Fprintf(w, "Mode: %s\n", report.Mode)
	fmt.Fprintf(w, "Target Boxes: %d\n", report.TargetBoxes)
	fmt.Fprintf(w, "Adjustable Lines: %v\n", report.AdjustableKeys)
	if config.Verbose {
		fmt.Fprintf(w, "Session: %s\n", report.SessionID)
		for _, condition := range report.Conditions {
			fmt.Fprintf(w, "Condition: %s\n", condition)
		}
	}
	fmt.Fprintln(w)

	for _, round := range report.Rounds {
		fmt.Fprintf(w, "🔄 Round %d", round.Round)
		if round.HistoryReset {
			fmt.Fprintf(w, " (history reset)")
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Enumerated: %d  Skipped: %d  Rejected: %d  Accepted: %d  Time: %dms\n",
			round.Stats.Enumerated, round.Stats.SkippedSeen, round.Stats.Rejected,
			round.Stats.Accepted, round.Stats.ElapsedMS)

		if round.Error != "" {
			fmt.Fprintf(w, "⚠️  %s\n\n", round.Error)
			continue
		}

		fmt.Fprintf(w, "%-5s %-16s %-12s %-12s %-10s %-10s %-10s\n",
			"Rank", "Distribution", "Total Duty", "Goods", "Value/kg", "Duty/kg", "Clothing%")
		fmt.Fprintf(w, "%-5s %-16s %-12s %-12s %-10s %-10s %-10s\n",
			"-----", "----------------", "------------", "------------", "----------", "----------", "----------")
		for _, solution := range round.Solutions {
			m := solution.Metrics
			fmt.Fprintf(w, "%-5d %-16s %-12s %-12s %-10s %-10s %-10s\n",
				solution.Rank,
				solution.Distribution.String(),
				m.TotalDuty.StringFixed(2),
				m.TotalGoodsValue.StringFixed(2),
				m.ValuePerWeight.StringFixed(2),
				m.DutyPerWeight.StringFixed(2),
				m.ClothingValuePercentage.StringFixed(2))
		}
		fmt.Fprintln(w)

		if best := round.Best(); best != nil && config.Verbose {
			writeLinesText(w, best.Lines)
		}
	}

	return nil
}

func writeCheckText(report *dto.CheckReport, config Config) error {
	w := config.writer()
	m := report.Metrics

	fmt.Fprintf(w, "🔍 Shipment Check\n")
	fmt.Fprintf(w, "=================\n\n")
	fmt.Fprintf(w, "Scenario: %s\n", report.Scenario)
	fmt.Fprintf(w, "Mode: %s\n", report.Mode)
	fmt.Fprintf(w, "Boxes: %d of %d\n", report.TotalBoxes, report.TargetBoxes)
	fmt.Fprintf(w, "Goods Value: %s\n", m.TotalGoodsValue.StringFixed(2))
	fmt.Fprintf(w, "Line Duty: %s\n", m.LineDuty.StringFixed(2))
	fmt.Fprintf(w, "Processing Fee: %s\n", m.ProcessingFee.StringFixed(2))
	fmt.Fprintf(w, "Auxiliary Fees: %s\n", m.AuxiliaryFees.StringFixed(2))
	fmt.Fprintf(w, "Extra Fees: %s\n", m.ExtraFees.StringFixed(2))
	fmt.Fprintf(w, "Total Duty: %s\n", m.TotalDuty.StringFixed(2))
	fmt.Fprintf(w, "Single Box Weight: %s\n\n", m.SingleBoxWeight.StringFixed(2))

	if len(report.Conditions) > 0 {
		fmt.Fprintf(w, "%-40s %-14s %-8s\n", "Condition", "Value", "Result")
		fmt.Fprintf(w, "%-40s %-14s %-8s\n",
			"----------------------------------------", "--------------", "--------")
		for _, c := range report.Conditions {
			result := "FAIL"
			switch {
			case !c.Participating:
				result = "n/a"
			case c.Passed:
				result = "PASS"
			}
			fmt.Fprintf(w, "%-40s %-14s %-8s\n", c.Condition, c.Value.StringFixed(4), result)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Strict verdict: %s\n", verdict(report.Strict))
	fmt.Fprintf(w, "Override verdict: %s\n", verdict(report.Override))
	if !report.Balanced() {
		fmt.Fprintf(w, "⚠️  Lines hold %d boxes, target is %d\n", report.TotalBoxes, report.TargetBoxes)
	}

	for _, check := range report.WeightChecks {
		if !check.Eligible {
			fmt.Fprintf(w, "⚠️  Line %s packs %d pieces per box, needs at least %d\n",
				check.Key, check.PiecesPerBox, check.Required)
		}
	}
	fmt.Fprintln(w)

	if config.Verbose {
		writeLinesText(w, report.Lines)
	}

	return nil
}

func writeLinesText(w io.Writer, lines []dto.LineReport) {
	fmt.Fprintf(w, "%-14s %-18s %-6s %-6s %-10s %-12s %-12s\n",
		"Line", "Product", "Boxes", "Pcs", "Price", "Goods", "Duty")
	fmt.Fprintf(w, "%-14s %-18s %-6s %-6s %-10s %-12s %-12s\n",
		"--------------", "------------------", "------", "------", "----------", "------------", "------------")
	for _, line := range lines {
		fmt.Fprintf(w, "%-14s %-18s %-6d %-6d %-10s %-12s %-12s\n",
			line.Key,
			line.Product,
			line.BoxCount,
			line.PiecesPerBox,
			line.UnitPrice.StringFixed(2),
			line.GoodsValue.StringFixed(2),
			line.EstimatedDuty.StringFixed(2))
	}
	fmt.Fprintln(w)
}

func verdict(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// writeJSON prints to the writer, or saves filename under the output directory
func writeJSON(report any, filename string, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, filename)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", path)
	}
	return nil
}

func writeSearchCSV(report *dto.SearchReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	solutionsFile := filepath.Join(config.OutputDir, "solutions.csv")
	solutionRows := [][]string{{
		"round", "rank", "id", "distribution", "total_duty", "line_duty", "processing_fee",
		"auxiliary_fees", "extra_fees", "total_goods_value", "value_per_weight",
		"duty_per_weight", "clothing_value_percentage",
	}}
	linesFile := filepath.Join(config.OutputDir, "solution_lines.csv")
	lineRows := [][]string{{
		"round", "rank", "line_id", "product", "box_count", "pieces_per_box", "unit_price",
		"goods_value", "estimated_duty",
	}}

	for _, round := range report.Rounds {
		r := strconv.Itoa(round.Round)
		for _, solution := range round.Solutions {
			m := solution.Metrics
			rank := strconv.Itoa(solution.Rank)
			solutionRows = append(solutionRows, []string{
				r, rank, solution.ID, solution.Distribution.Key(),
				m.TotalDuty.StringFixed(2), m.LineDuty.StringFixed(2), m.ProcessingFee.StringFixed(2),
				m.AuxiliaryFees.StringFixed(2), m.ExtraFees.StringFixed(2), m.TotalGoodsValue.StringFixed(2),
				m.ValuePerWeight.String(), m.DutyPerWeight.String(), m.ClothingValuePercentage.String(),
			})
			for _, line := range solution.Lines {
				lineRows = append(lineRows, []string{
					r, rank, string(line.Key), string(line.Product),
					strconv.Itoa(line.BoxCount), strconv.Itoa(line.PiecesPerBox),
					line.UnitPrice.StringFixed(2), line.GoodsValue.StringFixed(2),
					line.EstimatedDuty.StringFixed(2),
				})
			}
		}
	}

	if err := writeCSVFile(solutionsFile, solutionRows); err != nil {
		return fmt.Errorf("failed to write solutions CSV: %w", err)
	}
	if err := writeCSVFile(linesFile, lineRows); err != nil {
		return fmt.Errorf("failed to write solution lines CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 CSV results saved to:\n")
		fmt.Fprintf(config.writer(), "  Solutions: %s\n", solutionsFile)
		fmt.Fprintf(config.writer(), "  Lines: %s\n", linesFile)
	}
	return nil
}

func writeCheckCSV(report *dto.CheckReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rows := [][]string{{"condition", "value", "participating", "passed"}}
	for _, c := range report.Conditions {
		rows = append(rows, []string{
			c.Condition, c.Value.String(),
			strconv.FormatBool(c.Participating), strconv.FormatBool(c.Passed),
		})
	}

	path := filepath.Join(config.OutputDir, "conditions.csv")
	if err := writeCSVFile(path, rows); err != nil {
		return fmt.Errorf("failed to write conditions CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 CSV results saved to: %s\n", path)
	}
	return nil
}

func writeCSVFile(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}
