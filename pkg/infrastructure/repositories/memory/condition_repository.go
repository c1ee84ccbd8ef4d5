package memory

import (
	"strings"
	"sync"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/domain/repositories"
)

// ConditionRepository keeps condition profiles keyed by mode, port and packing type.
// A profile with an empty port or packing type acts as a wildcard for that field.
type ConditionRepository struct {
	mutex    sync.RWMutex
	profiles map[entities.ConditionProfileKey][]entities.Condition
}

// NewConditionRepository creates an empty condition repository
func NewConditionRepository() *ConditionRepository {
	return &ConditionRepository{
		profiles: make(map[entities.ConditionProfileKey][]entities.Condition),
	}
}

var _ repositories.ConditionRepository = (*ConditionRepository)(nil)

// LoadProfiles stores profiles, replacing any with the same key
func (r *ConditionRepository) LoadProfiles(profiles []entities.ConditionProfile) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, profile := range profiles {
		key := normalizeKey(profile.Key)
		conditions := make([]entities.Condition, len(profile.Conditions))
		copy(conditions, profile.Conditions)
		r.profiles[key] = conditions
	}
	return nil
}

// GetConditions returns the most specific profile for the key: exact match first, then
// port-only, packing-type-only and finally the mode-wide profile.
func (r *ConditionRepository) GetConditions(key entities.ConditionProfileKey) ([]entities.Condition, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	key = normalizeKey(key)
	candidates := []entities.ConditionProfileKey{
		key,
		{Mode: key.Mode, Port: key.Port},
		{Mode: key.Mode, PackingType: key.PackingType},
		{Mode: key.Mode},
	}
	for _, candidate := range candidates {
		if conditions, ok := r.profiles[candidate]; ok {
			out := make([]entities.Condition, len(conditions))
			copy(out, conditions)
			return out, nil
		}
	}
	return nil, nil
}

func normalizeKey(key entities.ConditionProfileKey) entities.ConditionProfileKey {
	key.Port = strings.ToUpper(strings.TrimSpace(key.Port))
	key.PackingType = strings.ToLower(strings.TrimSpace(key.PackingType))
	return key
}
