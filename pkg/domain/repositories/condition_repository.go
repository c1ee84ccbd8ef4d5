package repositories

import "github.com/vsinha/boxopt/pkg/domain/entities"

// ConditionRepository provides the condition profiles configured per port and packing type
type ConditionRepository interface {
	// GetConditions returns the conditions for the key. Missing profiles are not an error:
	// a shipment with no configured conditions is vacuously feasible.
	GetConditions(key entities.ConditionProfileKey) ([]entities.Condition, error)
	LoadProfiles(profiles []entities.ConditionProfile) error
}
