package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vsinha/boxopt/pkg/application/dto"
	"github.com/vsinha/boxopt/pkg/domain/services"
	"github.com/vsinha/boxopt/pkg/infrastructure/logging"
	"github.com/vsinha/boxopt/pkg/interfaces/cli/output"
)

// CheckConfig holds configuration for the check command
type CheckConfig struct {
	ScenarioDir string
	ConfigFile  string
	OutputDir   string
	Format      string
	Verbose     bool
	Writer      io.Writer
}

// CheckCommand evaluates a scenario's shipment as it stands: metrics, conditions under
// both acceptance policies, and the pieces-per-box weight check
type CheckCommand struct {
	config CheckConfig
}

// NewCheckCommand creates a new check command with the given configuration
func NewCheckCommand(config CheckConfig) *CheckCommand {
	return &CheckCommand{
		config: config,
	}
}

// Execute evaluates the shipment and renders the report
func (c *CheckCommand) Execute(ctx context.Context) error {
	report, err := c.Run(ctx)
	if err != nil {
		return err
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Writer:    c.config.Writer,
	}
	if err := output.GenerateCheckReport(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}

// Run evaluates the shipment
func (c *CheckCommand) Run(ctx context.Context) (*dto.CheckReport, error) {
	logger := logging.FromContext(ctx)

	env, err := loadEnvironment(c.config.ScenarioDir, c.config.ConfigFile, logger)
	if err != nil {
		return nil, err
	}

	shipment := env.scenario.Shipment.Clone()
	for i := range shipment.Lines {
		shipment.Lines[i] = services.Revalue(shipment.Lines[i])
	}

	metrics := env.valuator.ShipmentMetrics(shipment)
	verdict := services.Evaluate(env.conditions, metrics, shipment.Mode)

	report := &dto.CheckReport{
		Scenario:    c.config.ScenarioDir,
		Mode:        shipment.Mode.String(),
		TargetBoxes: shipment.TargetBoxes,
		TotalBoxes:  shipment.TotalBoxes(),
		Metrics:     metrics,
		Strict:      services.StrictPolicy{}.Accept(verdict),
		Override:    services.NewOverridePolicy().Accept(verdict),
		Lines:       dto.NewLineReports(shipment.Lines),
	}

	for _, result := range verdict.Results {
		report.Conditions = append(report.Conditions, dto.ConditionReport{
			Condition:     result.Condition.String(),
			Value:         result.Value,
			Participating: result.Participating,
			Passed:        result.Passed,
		})
	}

	required := services.RequiredPiecesPerBox(metrics.SingleBoxWeight)
	for _, line := range shipment.Lines {
		if !line.Selected() || !line.Product.WeightBound {
			continue
		}
		report.WeightChecks = append(report.WeightChecks, dto.WeightCheckReport{
			Key:          line.Key,
			PiecesPerBox: line.EffectivePiecesPerBox(),
			Required:     required,
			Eligible:     services.MeetsWeightEligibility(line, metrics.SingleBoxWeight),
		})
	}

	logger.Info("shipment checked",
		zap.String("scenario", c.config.ScenarioDir),
		zap.String("total_duty", metrics.TotalDuty.StringFixed(2)),
		zap.Bool("strict", report.Strict),
		zap.Bool("override", report.Override))

	return report, nil
}
