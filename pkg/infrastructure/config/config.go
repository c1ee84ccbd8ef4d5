package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/domain/services"
)

// DefaultFileName is the config file looked up when no path is given
const DefaultFileName = "boxopt.yaml"

// Config holds all boxopt configuration.
type Config struct {
	// Search tuning
	Search SearchConfig `yaml:"search"`

	// Shipment-level fee schedules keyed by mode ("sea", "air")
	Fees map[string]FeeConfig `yaml:"fees"`

	// Condition profiles matched against shipment mode, port and packing type
	Conditions []ProfileConfig `yaml:"conditions"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig configures the distribution search.
type SearchConfig struct {
	Capacity int `yaml:"capacity"`
	MinBoxes int `yaml:"min_boxes"`
	Workers  int `yaml:"workers"`
	// Rounds is how many consecutive searches optimize runs in one session
	Rounds int `yaml:"rounds"`
}

// FeeConfig is the YAML form of a fee schedule. Amounts are strings to keep them exact.
type FeeConfig struct {
	ProcessingFeeRate    string `yaml:"processing_fee_rate"`
	ProcessingFeeFloor   string `yaml:"processing_fee_floor"`
	ProcessingFeeCeiling string `yaml:"processing_fee_ceiling"`
	AuxiliaryRate        string `yaml:"auxiliary_rate"`
}

// ProfileConfig is the YAML form of a condition profile. Empty port or packing type
// matches any.
type ProfileConfig struct {
	Mode        string            `yaml:"mode"`
	Port        string            `yaml:"port"`
	PackingType string            `yaml:"packing_type"`
	Conditions  []ConditionConfig `yaml:"conditions"`
}

// ConditionConfig is the YAML form of one condition. Enabled defaults to true.
type ConditionConfig struct {
	Metric    string `yaml:"metric"`
	Operator  string `yaml:"operator"`
	Threshold string `yaml:"threshold"`
	Enabled   *bool  `yaml:"enabled"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Capacity: 10,
			MinBoxes: 10,
			Workers:  1,
			Rounds:   1,
		},
		Fees: map[string]FeeConfig{
			entities.Sea.String(): feeConfigFrom(services.DefaultFeeSchedule(entities.Sea)),
			entities.Air.String(): feeConfigFrom(services.DefaultFeeSchedule(entities.Air)),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func feeConfigFrom(schedule services.FeeSchedule) FeeConfig {
	return FeeConfig{
		ProcessingFeeRate:    schedule.ProcessingFeeRate.String(),
		ProcessingFeeFloor:   schedule.ProcessingFeeFloor.String(),
		ProcessingFeeCeiling: schedule.ProcessingFeeCeiling.String(),
		AuxiliaryRate:        schedule.AuxiliaryRate.String(),
	}
}

// Load reads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if workers := os.Getenv("BOXOPT_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			c.Search.Workers = n
		}
	}
}

// Validate checks the configuration and every fee schedule and condition profile in it
func (c *Config) Validate() error {
	if c.Search.Capacity <= 0 {
		return fmt.Errorf("search.capacity must be positive, got %d", c.Search.Capacity)
	}
	if c.Search.MinBoxes < 0 {
		return fmt.Errorf("search.min_boxes cannot be negative, got %d", c.Search.MinBoxes)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be at least 1, got %d", c.Search.Workers)
	}
	if c.Search.Rounds < 1 {
		return fmt.Errorf("search.rounds must be at least 1, got %d", c.Search.Rounds)
	}
	if _, err := c.FeeSchedules(); err != nil {
		return err
	}
	if _, err := c.ConditionProfiles(); err != nil {
		return err
	}
	return nil
}

// FeeSchedules converts the configured fees. Modes missing from the file keep the
// built-in schedule, and so do empty fields.
func (c *Config) FeeSchedules() (map[entities.ShipmentMode]services.FeeSchedule, error) {
	schedules := make(map[entities.ShipmentMode]services.FeeSchedule, len(c.Fees))
	for name, fees := range c.Fees {
		mode, err := entities.ParseShipmentMode(name)
		if err != nil {
			return nil, fmt.Errorf("fees: %w", err)
		}

		schedule := services.DefaultFeeSchedule(mode)
		fields := []struct {
			name  string
			value string
			dst   *decimal.Decimal
		}{
			{"processing_fee_rate", fees.ProcessingFeeRate, &schedule.ProcessingFeeRate},
			{"processing_fee_floor", fees.ProcessingFeeFloor, &schedule.ProcessingFeeFloor},
			{"processing_fee_ceiling", fees.ProcessingFeeCeiling, &schedule.ProcessingFeeCeiling},
			{"auxiliary_rate", fees.AuxiliaryRate, &schedule.AuxiliaryRate},
		}
		for _, field := range fields {
			if strings.TrimSpace(field.value) == "" {
				continue
			}
			d, err := decimal.NewFromString(strings.TrimSpace(field.value))
			if err != nil || d.IsNegative() {
				return nil, fmt.Errorf("fees.%s.%s: invalid amount %q", name, field.name, field.value)
			}
			*field.dst = d
		}

		if schedule.ProcessingFeeFloor.GreaterThan(schedule.ProcessingFeeCeiling) {
			return nil, fmt.Errorf("fees.%s: processing fee floor %s exceeds ceiling %s",
				name, schedule.ProcessingFeeFloor, schedule.ProcessingFeeCeiling)
		}
		schedules[mode] = schedule
	}
	return schedules, nil
}

// ConditionProfiles converts the configured condition profiles
func (c *Config) ConditionProfiles() ([]entities.ConditionProfile, error) {
	profiles := make([]entities.ConditionProfile, 0, len(c.Conditions))
	for i, profile := range c.Conditions {
		mode, err := entities.ParseShipmentMode(profile.Mode)
		if err != nil {
			return nil, fmt.Errorf("conditions[%d]: %w", i, err)
		}

		conditions := make([]entities.Condition, 0, len(profile.Conditions))
		for j, cc := range profile.Conditions {
			condition, err := cc.toCondition()
			if err != nil {
				return nil, fmt.Errorf("conditions[%d].conditions[%d]: %w", i, j, err)
			}
			conditions = append(conditions, condition)
		}

		profiles = append(profiles, entities.ConditionProfile{
			Key: entities.ConditionProfileKey{
				Mode:        mode,
				Port:        profile.Port,
				PackingType: profile.PackingType,
			},
			Conditions: conditions,
		})
	}
	return profiles, nil
}

func (cc ConditionConfig) toCondition() (entities.Condition, error) {
	metric, err := entities.ParseMetricName(cc.Metric)
	if err != nil {
		return entities.Condition{}, err
	}

	op := entities.NormalizeOperator(cc.Operator)
	switch op {
	case entities.OpGreater, entities.OpGreaterEqual, entities.OpLess, entities.OpLessEqual, entities.OpEqual:
	default:
		return entities.Condition{}, fmt.Errorf("unknown operator %q", cc.Operator)
	}

	threshold, err := decimal.NewFromString(strings.TrimSpace(cc.Threshold))
	if err != nil {
		return entities.Condition{}, fmt.Errorf("invalid threshold %q", cc.Threshold)
	}

	enabled := true
	if cc.Enabled != nil {
		enabled = *cc.Enabled
	}

	return entities.Condition{
		Metric:    metric,
		Operator:  op,
		Threshold: threshold,
		Enabled:   enabled,
	}, nil
}
