package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

func TestHistory_MergeReturnsNewValue(t *testing.T) {
	history := NewHistory()
	scoped, reset := history.scopedTo("A[*,*]|B[*,*]")
	assert.False(t, reset)

	merged := scoped.merge([]*entities.Solution{
		{Distribution: entities.Distribution{10, 70}},
		{Distribution: entities.Distribution{11, 69}},
	})

	assert.Zero(t, scoped.Len())
	assert.Equal(t, 2, merged.Len())
	assert.True(t, merged.Seen(entities.Distribution{11, 69}))
	assert.False(t, merged.Seen(entities.Distribution{12, 68}))
	assert.Equal(t, history.SessionID(), merged.SessionID())
}

func TestHistory_ScopedToDifferentParameters(t *testing.T) {
	history, _ := NewHistory().scopedTo("A[*,*]|B[*,*]")
	history = history.merge([]*entities.Solution{{Distribution: entities.Distribution{10, 70}}})

	same, reset := history.scopedTo("A[*,*]|B[*,*]")
	assert.False(t, reset)
	assert.Equal(t, 1, same.Len())

	other, reset := history.scopedTo("A[14,20]|B[*,*]")
	assert.True(t, reset)
	assert.Zero(t, other.Len())
	assert.Equal(t, history.SessionID(), other.SessionID())
}

func TestHistory_EmptyHistoryNeverReportsReset(t *testing.T) {
	history, _ := NewHistory().scopedTo("A[*,*]|B[*,*]")

	_, reset := history.scopedTo("A[*,*]|C[*,*]")
	assert.False(t, reset)
}

func TestParameterFingerprint(t *testing.T) {
	lo, hi := 5, 30
	fp := parameterFingerprint(
		[]entities.LineKey{"A", "B"},
		map[entities.LineKey]entities.AdjustmentRange{
			"A": {Min: &lo, Max: &hi},
			"Z": {Min: &lo},
		},
	)
	assert.Equal(t, "A[5,30]|B[*,*]", fp)
}
