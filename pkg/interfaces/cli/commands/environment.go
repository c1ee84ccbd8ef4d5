package commands

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/boxopt/pkg/application/services/search"
	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/domain/services"
	"github.com/vsinha/boxopt/pkg/infrastructure/config"
	"github.com/vsinha/boxopt/pkg/infrastructure/repositories/memory"
)

// environment is everything a command needs to evaluate or search a scenario
type environment struct {
	config     *config.Config
	scenario   *config.Scenario
	valuator   *services.Valuator
	conditions []entities.Condition
}

// loadEnvironment reads the config file and scenario directory and resolves the
// condition profile matching the shipment
func loadEnvironment(scenarioDir, configFile string, logger *zap.Logger) (*environment, error) {
	if scenarioDir == "" {
		return nil, fmt.Errorf("must specify --scenario directory")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	scenario, err := config.LoadScenario(scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s: %w", scenarioDir, err)
	}

	schedules, err := cfg.FeeSchedules()
	if err != nil {
		return nil, err
	}
	profiles, err := cfg.ConditionProfiles()
	if err != nil {
		return nil, err
	}

	conditionRepo := memory.NewConditionRepository()
	if err := conditionRepo.LoadProfiles(profiles); err != nil {
		return nil, fmt.Errorf("failed to load condition profiles: %w", err)
	}

	shipment := scenario.Shipment
	conditions, err := conditionRepo.GetConditions(entities.ConditionProfileKey{
		Mode:        shipment.Mode,
		Port:        shipment.Port,
		PackingType: shipment.PackingType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve conditions: %w", err)
	}

	logger.Debug("scenario loaded",
		zap.String("scenario", scenarioDir),
		zap.Stringer("mode", shipment.Mode),
		zap.String("port", shipment.Port),
		zap.Int("lines", len(shipment.Lines)),
		zap.Int("conditions", len(conditions)))

	return &environment{
		config:     cfg,
		scenario:   scenario,
		valuator:   services.NewValuatorWithSchedules(schedules),
		conditions: conditions,
	}, nil
}

// newSearcher builds a searcher from the search section of the config, with a worker
// override when workers > 0
func (e *environment) newSearcher(workers int, logger *zap.Logger) *search.Searcher {
	cfg := search.Config{
		Capacity: e.config.Search.Capacity,
		MinBoxes: e.config.Search.MinBoxes,
		Workers:  e.config.Search.Workers,
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	return search.NewSearcherWithConfig(cfg, e.valuator, logger)
}

// request builds a search request for the scenario's shipment
func (e *environment) request() search.Request {
	return search.Request{
		Shipment:       e.scenario.Shipment,
		AdjustableKeys: e.scenario.AdjustableKeys,
		Ranges:         e.scenario.Ranges,
		Conditions:     e.conditions,
	}
}

func describeConditions(conditions []entities.Condition) []string {
	out := make([]string, 0, len(conditions))
	for _, c := range conditions {
		s := c.String()
		if !c.Enabled {
			s += " (disabled)"
		}
		out = append(out, s)
	}
	return out
}

func formatKeys(keys []entities.LineKey) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = string(key)
	}
	return strings.Join(parts, ",")
}
