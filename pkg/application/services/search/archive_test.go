package search

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

func solutionWithDuty(duty string, ordinal int) *entities.Solution {
	return &entities.Solution{
		Metrics:      entities.Metrics{TotalDuty: decimal.RequireFromString(duty)},
		Distribution: entities.Distribution{ordinal, 100 - ordinal},
		Ordinal:      ordinal,
	}
}

func duties(solutions []*entities.Solution) []string {
	out := make([]string, len(solutions))
	for i, s := range solutions {
		out[i] = s.TotalDuty().StringFixed(2)
	}
	return out
}

func TestArchive_AdmitsBelowCapacity(t *testing.T) {
	archive := NewArchive(3)

	assert.True(t, archive.Offer(solutionWithDuty("500", 0)))
	assert.True(t, archive.Offer(solutionWithDuty("900", 1)))
	assert.True(t, archive.Offer(solutionWithDuty("700", 2)))
	assert.Equal(t, 3, archive.Len())

	worst, ok := archive.Worst()
	require.True(t, ok)
	assert.Equal(t, "900.00", worst.StringFixed(2))
}

func TestArchive_ReplacesWorstOnlyWhenStrictlyLower(t *testing.T) {
	archive := NewArchive(2)
	archive.Offer(solutionWithDuty("100", 0))
	archive.Offer(solutionWithDuty("200", 1))

	assert.False(t, archive.Offer(solutionWithDuty("200", 2)), "equal duty must not displace")
	assert.False(t, archive.Offer(solutionWithDuty("250", 3)))
	assert.True(t, archive.Offer(solutionWithDuty("150", 4)))

	assert.Equal(t, []string{"100.00", "150.00"}, duties(archive.Sorted()))
}

func TestArchive_WorstNeverIncreasesOnceFull(t *testing.T) {
	archive := NewArchive(4)
	offers := []string{"40", "10", "80", "30", "90", "20", "70", "5", "60", "25"}

	var previous decimal.Decimal
	for i, duty := range offers {
		archive.Offer(solutionWithDuty(duty, i))
		if archive.Len() < archive.Capacity() {
			continue
		}
		worst, _ := archive.Worst()
		if !previous.IsZero() {
			assert.True(t, worst.LessThanOrEqual(previous), "worst rose from %s to %s", previous, worst)
		}
		previous = worst
	}

	assert.Equal(t, []string{"5.00", "10.00", "20.00", "25.00"}, duties(archive.Sorted()))
}

func TestArchive_SortedBreaksTiesByOrdinal(t *testing.T) {
	archive := NewArchive(5)
	archive.Offer(solutionWithDuty("300", 7))
	archive.Offer(solutionWithDuty("100", 4))
	archive.Offer(solutionWithDuty("300", 2))
	archive.Offer(solutionWithDuty("100", 9))

	sorted := archive.Sorted()
	ordinals := make([]int, len(sorted))
	for i, s := range sorted {
		ordinals[i] = s.Ordinal
	}
	assert.Equal(t, []int{4, 9, 2, 7}, ordinals)
}

func TestArchive_DefaultCapacity(t *testing.T) {
	archive := NewArchive(0)
	assert.Equal(t, DefaultCapacity, archive.Capacity())

	_, ok := archive.Worst()
	assert.False(t, ok)
}

func TestMergeArchives_MatchesSingleArchive(t *testing.T) {
	offers := []string{"40", "10", "80", "30", "90", "20", "70", "5", "60", "25", "15", "35"}

	single := NewArchive(5)
	shards := []*Archive{NewArchive(5), NewArchive(5), NewArchive(5)}
	for i, duty := range offers {
		single.Offer(solutionWithDuty(duty, i))
		shards[i%len(shards)].Offer(solutionWithDuty(duty, i))
	}

	merged := mergeArchives(5, shards...)
	assert.Equal(t, duties(single.Sorted()), duties(merged.Sorted()))
}
