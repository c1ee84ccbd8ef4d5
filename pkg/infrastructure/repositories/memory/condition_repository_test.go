package memory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

func TestConditionRepository_MostSpecificProfileWins(t *testing.T) {
	repo := NewConditionRepository()

	vpw := func(threshold int64) []entities.Condition {
		return []entities.Condition{{
			Metric:    entities.MetricValuePerWeight,
			Operator:  entities.OpGreaterEqual,
			Threshold: decimal.NewFromInt(threshold),
			Enabled:   true,
		}}
	}

	err := repo.LoadProfiles([]entities.ConditionProfile{
		{Key: entities.ConditionProfileKey{Mode: entities.Sea}, Conditions: vpw(1)},
		{Key: entities.ConditionProfileKey{Mode: entities.Sea, Port: "lax"}, Conditions: vpw(2)},
		{Key: entities.ConditionProfileKey{Mode: entities.Sea, PackingType: "Pallet"}, Conditions: vpw(3)},
		{Key: entities.ConditionProfileKey{Mode: entities.Sea, Port: "LAX", PackingType: "carton"}, Conditions: vpw(4)},
	})
	if err != nil {
		t.Fatalf("Failed to load profiles: %v", err)
	}

	tests := []struct {
		name     string
		key      entities.ConditionProfileKey
		expected int64
	}{
		{"exact", entities.ConditionProfileKey{Mode: entities.Sea, Port: "LAX", PackingType: "carton"}, 4},
		{"port_only", entities.ConditionProfileKey{Mode: entities.Sea, Port: " lax ", PackingType: "crate"}, 2},
		{"packing_only", entities.ConditionProfileKey{Mode: entities.Sea, Port: "NYC", PackingType: "pallet"}, 3},
		{"mode_wide", entities.ConditionProfileKey{Mode: entities.Sea, Port: "NYC"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conditions, err := repo.GetConditions(tt.key)
			if err != nil {
				t.Fatalf("GetConditions failed: %v", err)
			}
			if len(conditions) != 1 {
				t.Fatalf("Expected 1 condition, got %d", len(conditions))
			}
			if !conditions[0].Threshold.Equal(decimal.NewFromInt(tt.expected)) {
				t.Errorf("Expected threshold %d, got %s", tt.expected, conditions[0].Threshold)
			}
		})
	}

	air, err := repo.GetConditions(entities.ConditionProfileKey{Mode: entities.Air})
	if err != nil {
		t.Fatalf("GetConditions failed: %v", err)
	}
	if air != nil {
		t.Errorf("Expected no conditions for an unconfigured mode, got %v", air)
	}
}
