package search

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// DefaultCapacity is the number of solutions an archive keeps
const DefaultCapacity = 10

// Archive is a capacity-bounded set of accepted candidates ranked by total duty.
// It is not safe for concurrent use; parallel searches keep one archive per shard.
type Archive struct {
	capacity int
	entries  []*entities.Solution
}

// NewArchive creates an archive holding at most capacity solutions
func NewArchive(capacity int) *Archive {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Archive{
		capacity: capacity,
		entries:  make([]*entities.Solution, 0, capacity),
	}
}

// Offer admits a candidate. Below capacity every candidate is admitted; at capacity the
// candidate replaces the first-found worst entry only when its duty is strictly lower.
func (a *Archive) Offer(candidate *entities.Solution) bool {
	if len(a.entries) < a.capacity {
		a.entries = append(a.entries, candidate)
		return true
	}

	worst := a.worstIndex()
	if candidate.TotalDuty().LessThan(a.entries[worst].TotalDuty()) {
		a.entries[worst] = candidate
		return true
	}
	return false
}

// Len returns the number of archived solutions
func (a *Archive) Len() int {
	return len(a.entries)
}

// Capacity returns the maximum number of archived solutions
func (a *Archive) Capacity() int {
	return a.capacity
}

// Worst returns the highest archived duty
func (a *Archive) Worst() (decimal.Decimal, bool) {
	if len(a.entries) == 0 {
		return decimal.Zero, false
	}
	return a.entries[a.worstIndex()].TotalDuty(), true
}

// Sorted returns the archived solutions in ascending duty order. Equal duties keep
// enumeration order.
func (a *Archive) Sorted() []*entities.Solution {
	sorted := make([]*entities.Solution, len(a.entries))
	copy(sorted, a.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].TotalDuty(), sorted[j].TotalDuty()
		if !di.Equal(dj) {
			return di.LessThan(dj)
		}
		return sorted[i].Ordinal < sorted[j].Ordinal
	})
	return sorted
}

func (a *Archive) worstIndex() int {
	worst := 0
	for i := 1; i < len(a.entries); i++ {
		if a.entries[i].TotalDuty().GreaterThan(a.entries[worst].TotalDuty()) {
			worst = i
		}
	}
	return worst
}

// mergeArchives re-offers the entries of several shard archives in enumeration order.
// The merged archive holds the lowest-duty entries across shards and is deterministic for a
// given shard layout; only the choice among exactly tied duties can depend on the layout.
func mergeArchives(capacity int, shards ...*Archive) *Archive {
	var all []*entities.Solution
	for _, shard := range shards {
		all = append(all, shard.entries...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Ordinal < all[j].Ordinal
	})

	merged := NewArchive(capacity)
	for _, solution := range all {
		merged.Offer(solution)
	}
	return merged
}
