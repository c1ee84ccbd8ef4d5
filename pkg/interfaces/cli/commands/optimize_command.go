package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vsinha/boxopt/pkg/application/dto"
	"github.com/vsinha/boxopt/pkg/application/services/search"
	"github.com/vsinha/boxopt/pkg/infrastructure/events"
	"github.com/vsinha/boxopt/pkg/infrastructure/logging"
	"github.com/vsinha/boxopt/pkg/interfaces/cli/output"
)

// OptimizeConfig holds configuration for the optimize command
type OptimizeConfig struct {
	ScenarioDir string
	ConfigFile  string
	// Rounds and Workers override the config file when positive
	Rounds    int
	Workers   int
	OutputDir string
	Format    string
	Verbose   bool
	Writer    io.Writer
}

// OptimizeCommand runs one or more searches over a scenario within a single session
type OptimizeCommand struct {
	config OptimizeConfig
}

// NewOptimizeCommand creates a new optimize command with the given configuration
func NewOptimizeCommand(config OptimizeConfig) *OptimizeCommand {
	return &OptimizeCommand{
		config: config,
	}
}

// Execute runs the search rounds and renders the report
func (c *OptimizeCommand) Execute(ctx context.Context) error {
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
	if err := output.GenerateSearchReport(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}

// Run performs the search rounds. Each round skips every distribution returned by the
// rounds before it. A round that finds nothing new ends the session; only a first round
// without solutions is an error.
func (c *OptimizeCommand) Run(ctx context.Context) (*dto.SearchReport, error) {
	logger := logging.FromContext(ctx)

	env, err := loadEnvironment(c.config.ScenarioDir, c.config.ConfigFile, logger)
	if err != nil {
		return nil, err
	}

	rounds := env.config.Search.Rounds
	if c.config.Rounds > 0 {
		rounds = c.config.Rounds
	}

	store := events.NewInMemoryEventStore(logger)
	defer store.Flush()
	auditor := &events.HandlerFunc{
		Types: []string{
			events.SearchStartedEvent,
			events.SearchHistoryResetEvent,
			events.SolutionAppliedEvent,
			events.SearchFailedEvent,
		},
		Fn: func(event events.Event) error {
			logger.Debug("search event",
				zap.String("type", event.Type()),
				zap.String("session_id", event.StreamID()),
				zap.Int("version", event.Version()))
			return nil
		},
	}
	if err := store.Subscribe(auditor.Types, auditor); err != nil {
		return nil, fmt.Errorf("failed to subscribe to search events: %w", err)
	}

	searcher := search.NewEventDrivenSearcher(env.newSearcher(c.config.Workers, logger), store, logger)
	req := env.request()
	history := search.NewHistory()

	report := &dto.SearchReport{
		SessionID:      history.SessionID(),
		Scenario:       c.config.ScenarioDir,
		Mode:           req.Shipment.Mode.String(),
		TargetBoxes:    req.Shipment.TargetBoxes,
		AdjustableKeys: req.AdjustableKeys,
		Conditions:     describeConditions(req.Conditions),
	}

	for round := 1; round <= rounds; round++ {
		result, err := searcher.Search(ctx, req, history)
		if err != nil {
			if round > 1 && errors.Is(err, search.ErrNoFeasibleSolution) {
				report.Rounds = append(report.Rounds, dto.RoundReport{Round: round, Error: err.Error()})
				break
			}
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		report.Rounds = append(report.Rounds, dto.NewRoundReport(round, result))
		history = result.History

		logger.Info("round completed",
			zap.Int("round", round),
			zap.String("adjustable", formatKeys(req.AdjustableKeys)),
			zap.Int("solutions", len(result.Solutions)),
			zap.Int("history", history.Len()))
	}

	all, err := store.ReadEvents(history.SessionID(), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read search events: %w", err)
	}
	report.Events = len(all)

	return report, nil
}
