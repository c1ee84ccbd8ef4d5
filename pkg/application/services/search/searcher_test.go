package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	testhelpers "github.com/vsinha/boxopt/pkg/infrastructure/testing"
)

var (
	teeKey   = entities.LineKey(testhelpers.Tee)
	mugKey   = entities.LineKey(testhelpers.Mug)
	scarfKey = entities.LineKey(testhelpers.Scarf)
)

func twoLineRequest() Request {
	catalog := testhelpers.BuildApparelCatalog()
	return Request{
		Shipment:       testhelpers.BuildApparelShipment(catalog, testhelpers.Tee, testhelpers.Mug),
		AdjustableKeys: []entities.LineKey{teeKey, mugKey},
		Conditions:     testhelpers.ApparelConditions(),
	}
}

func threeLineRequest() Request {
	catalog := testhelpers.BuildApparelCatalog()
	return Request{
		Shipment: testhelpers.BuildApparelShipment(catalog,
			testhelpers.Tee, testhelpers.Mug, testhelpers.Scarf),
		AdjustableKeys: []entities.LineKey{teeKey, mugKey, scarfKey},
		Conditions:     testhelpers.ApparelConditions(),
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("sol-%02d", n)
	}
}

func newTestSearcher(workers int) *Searcher {
	return NewSearcherWithConfig(Config{Workers: workers, IDGen: sequentialIDs()}, nil, nil)
}

// ranked projects solutions onto the fields that identify a ranking
type ranked struct {
	ID           string
	Distribution string
	TotalDuty    string
}

func rankingOf(solutions []*entities.Solution) []ranked {
	out := make([]ranked, len(solutions))
	for i, s := range solutions {
		out[i] = ranked{ID: s.ID, Distribution: s.Distribution.Key(), TotalDuty: s.TotalDuty().StringFixed(2)}
	}
	return out
}

func boxCount(t *testing.T, shipment *entities.Shipment, key entities.LineKey) int {
	t.Helper()
	line, ok := shipment.Line(key)
	require.True(t, ok, "line %s missing", key)
	return line.BoxCount
}

func TestSearcher_TwoAdjustableLines(t *testing.T) {
	req := twoLineRequest()
	searcher := newTestSearcher(1)

	result, err := searcher.Search(context.Background(), req, NewHistory())
	require.NoError(t, err)

	assert.Equal(t, 80, result.ToDistribute)
	assert.Equal(t, 61, result.Stats.Enumerated)
	assert.Equal(t, 47, result.Stats.Accepted)
	assert.Equal(t, 14, result.Stats.Rejected)
	assert.Zero(t, result.Stats.SkippedSeen)
	assert.False(t, result.HistoryReset)

	require.Len(t, result.Solutions, DefaultCapacity)
	for n, solution := range result.Solutions {
		assert.Equal(t, entities.Distribution{14 + n, 66 - n}, solution.Distribution)
		assert.Equal(t, fmt.Sprintf("sol-%02d", n+1), solution.ID)
	}

	best := result.Best
	assert.Same(t, result.Solutions[0], best)
	assert.Equal(t, "1107.09", best.TotalDuty().StringFixed(2))
	assert.Equal(t, "1066.00", best.Metrics.LineDuty.StringFixed(2))
	assert.Equal(t, "32.71", best.Metrics.ProcessingFee.StringFixed(2))
	assert.Equal(t, "8.38", best.Metrics.AuxiliaryFees.StringFixed(2))
	assert.Equal(t, "6700.00", best.Metrics.TotalGoodsValue.StringFixed(2))

	assert.Equal(t, 14, boxCount(t, result.Applied, teeKey))
	assert.Equal(t, 66, boxCount(t, result.Applied, mugKey))
	assert.Equal(t, testhelpers.ApparelFixedBoxes, boxCount(t, result.Applied, entities.LineKey(testhelpers.Jacket)))
	assert.Equal(t, testhelpers.ApparelTargetBoxes, result.Applied.TotalBoxes())

	tee, _ := result.Applied.Line(teeKey)
	assert.Equal(t, "1400.00", tee.GoodsValue.StringFixed(2))
	assert.Equal(t, "336.00", tee.EstimatedDuty.StringFixed(2))

	// The request shipment is left as it was
	assert.Zero(t, boxCount(t, req.Shipment, teeKey))
	assert.Zero(t, boxCount(t, req.Shipment, mugKey))
}

func TestSearcher_SolutionsAreSortedAndConserveBoxes(t *testing.T) {
	for _, tc := range []struct {
		name string
		req  Request
	}{
		{name: "two lines", req: twoLineRequest()},
		{name: "three lines", req: threeLineRequest()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result, err := newTestSearcher(1).Search(context.Background(), tc.req, NewHistory())
			require.NoError(t, err)

			for n, solution := range result.Solutions {
				assert.Equal(t, result.ToDistribute, solution.Distribution.Sum())

				total := 0
				for _, line := range solution.Lines {
					total += line.BoxCount
				}
				assert.Equal(t, tc.req.Shipment.TargetBoxes, total)

				for i, key := range tc.req.AdjustableKeys {
					assert.Equal(t, solution.Distribution[i], boxCount(t, &entities.Shipment{Lines: solution.Lines}, key))
				}

				if n > 0 {
					previous := result.Solutions[n-1].TotalDuty()
					assert.True(t, previous.LessThanOrEqual(solution.TotalDuty()))
				}
			}
		})
	}
}

func TestSearcher_ThreeAdjustableLines(t *testing.T) {
	result, err := newTestSearcher(1).Search(context.Background(), threeLineRequest(), NewHistory())
	require.NoError(t, err)

	assert.Equal(t, 1326, result.Stats.Enumerated)
	assert.Equal(t, entities.Distribution{10, 60, 10}, result.Best.Distribution)
	assert.Equal(t, "1041.46", result.Best.TotalDuty().StringFixed(2))
	assert.Equal(t, 10, boxCount(t, result.Applied, scarfKey))
}

func TestSearcher_IsDeterministic(t *testing.T) {
	first, err := newTestSearcher(1).Search(context.Background(), twoLineRequest(), NewHistory())
	require.NoError(t, err)
	second, err := newTestSearcher(1).Search(context.Background(), twoLineRequest(), NewHistory())
	require.NoError(t, err)

	if diff := cmp.Diff(rankingOf(first.Solutions), rankingOf(second.Solutions)); diff != "" {
		t.Errorf("rankings differ (-first +second):\n%s", diff)
	}
}

func TestSearcher_ParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	sequential, err := newTestSearcher(1).Search(context.Background(), threeLineRequest(), NewHistory())
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 7, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			parallel, err := newTestSearcher(workers).Search(context.Background(), threeLineRequest(), NewHistory())
			require.NoError(t, err)

			assert.Equal(t, sequential.Stats.Enumerated, parallel.Stats.Enumerated)
			assert.Equal(t, sequential.Stats.Accepted, parallel.Stats.Accepted)
			if diff := cmp.Diff(rankingOf(sequential.Solutions), rankingOf(parallel.Solutions)); diff != "" {
				t.Errorf("rankings differ (-sequential +parallel):\n%s", diff)
			}
		})
	}
}

func TestSearcher_RepeatedSearchesReturnNextBatch(t *testing.T) {
	req := twoLineRequest()
	searcher := newTestSearcher(1)
	history := NewHistory()

	var (
		batches []int
		seen    = map[string]bool{}
		last    *entities.Solution
	)
	for round := 0; round < 10; round++ {
		result, err := searcher.Search(context.Background(), req, history)
		if err != nil {
			require.ErrorIs(t, err, ErrNoFeasibleSolution)
			break
		}
		assert.Equal(t, history.Len(), result.Stats.SkippedSeen)

		for _, solution := range result.Solutions {
			assert.False(t, seen[solution.Distribution.Key()], "%v returned twice", solution.Distribution)
			seen[solution.Distribution.Key()] = true
		}
		if last != nil {
			assert.True(t, last.TotalDuty().LessThanOrEqual(result.Best.TotalDuty()))
		}
		last = result.Solutions[len(result.Solutions)-1]

		batches = append(batches, len(result.Solutions))
		history = result.History
	}

	assert.Equal(t, []int{10, 10, 10, 10, 7}, batches)
	assert.Equal(t, 47, history.Len())
	assert.Len(t, history.Solutions(), 47)
}

func TestSearcher_ExhaustedRangeReportsNoFeasibleSolution(t *testing.T) {
	req := twoLineRequest()
	req.Ranges = map[entities.LineKey]entities.AdjustmentRange{
		teeKey: {Min: intPtr(14), Max: intPtr(20)},
	}
	searcher := newTestSearcher(1)

	first, err := searcher.Search(context.Background(), req, NewHistory())
	require.NoError(t, err)
	require.Len(t, first.Solutions, 7)

	_, err = searcher.Search(context.Background(), req, first.History)
	require.ErrorIs(t, err, ErrNoFeasibleSolution)
	assert.Equal(t, 7, first.History.Len(), "a failed search leaves the history untouched")
}

func TestSearcher_HistoryResetsWhenParametersChange(t *testing.T) {
	searcher := newTestSearcher(1)
	history := NewHistory()

	first, err := searcher.Search(context.Background(), twoLineRequest(), history)
	require.NoError(t, err)
	assert.Zero(t, history.Len(), "the caller's history is not modified")
	require.Equal(t, DefaultCapacity, first.History.Len())

	narrowed := twoLineRequest()
	narrowed.Ranges = map[entities.LineKey]entities.AdjustmentRange{
		teeKey: {Min: intPtr(14), Max: intPtr(20)},
	}
	second, err := searcher.Search(context.Background(), narrowed, first.History)
	require.NoError(t, err)

	assert.True(t, second.HistoryReset)
	assert.Zero(t, second.Stats.SkippedSeen)
	assert.Len(t, second.Solutions, 7)
	assert.Equal(t, 7, second.History.Len())
	assert.Equal(t, history.SessionID(), second.History.SessionID())
}

func TestSearcher_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
		want   error
	}{
		{
			name:   "nil shipment",
			mutate: func(req *Request) { req.Shipment = nil },
			want:   ErrMissingTarget,
		},
		{
			name:   "no target",
			mutate: func(req *Request) { req.Shipment.TargetBoxes = 0 },
			want:   ErrMissingTarget,
		},
		{
			name:   "single adjustable line",
			mutate: func(req *Request) { req.AdjustableKeys = req.AdjustableKeys[:1] },
			want:   ErrInvalidAdjustableCount,
		},
		{
			name: "four adjustable lines",
			mutate: func(req *Request) {
				req.AdjustableKeys = []entities.LineKey{teeKey, mugKey, scarfKey, "WOOL_JACKET"}
			},
			want: ErrInvalidAdjustableCount,
		},
		{
			name:   "line selected twice",
			mutate: func(req *Request) { req.AdjustableKeys = []entities.LineKey{teeKey, teeKey} },
			want:   ErrInvalidAdjustableCount,
		},
		{
			name:   "unknown line",
			mutate: func(req *Request) { req.AdjustableKeys = []entities.LineKey{teeKey, "HAT"} },
			want:   ErrUnknownLine,
		},
		{
			name: "line without product",
			mutate: func(req *Request) {
				req.Shipment.Lines = append(req.Shipment.Lines, entities.LineItem{Key: "BLANK"})
				req.AdjustableKeys = []entities.LineKey{teeKey, "BLANK"}
			},
			want: ErrUnknownLine,
		},
		{
			name:   "fixed lines exceed target",
			mutate: func(req *Request) { req.Shipment.Lines[0].BoxCount = 120 },
			want:   ErrNegativeRemainder,
		},
		{
			name: "minimums exceed remainder",
			mutate: func(req *Request) {
				req.Shipment.Lines[0].BoxCount = 85
				req.Ranges = map[entities.LineKey]entities.AdjustmentRange{
					teeKey: {Min: intPtr(10)},
					mugKey: {Min: intPtr(10)},
				}
			},
			want: ErrInvalidRange,
		},
		{
			name: "no candidate passes",
			mutate: func(req *Request) {
				req.Conditions = []entities.Condition{{
					Metric:    entities.MetricClothingValuePercentage,
					Operator:  entities.OpGreaterEqual,
					Threshold: decimal.NewFromInt(99),
					Enabled:   true,
				}}
			},
			want: ErrNoFeasibleSolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := twoLineRequest()
			tt.mutate(&req)

			result, err := newTestSearcher(1).Search(context.Background(), req, NewHistory())
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, result)
		})
	}
}

func TestSearcher_InvalidShipment(t *testing.T) {
	req := twoLineRequest()
	req.Shipment.Lines[1].BoxCount = -3

	_, err := newTestSearcher(1).Search(context.Background(), req, NewHistory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "box count cannot be negative")
}

func TestSearcher_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, err := newTestSearcher(workers).Search(ctx, threeLineRequest(), NewHistory())
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestSearcher_DisabledConditionsDoNotFilter(t *testing.T) {
	req := twoLineRequest()
	for i := range req.Conditions {
		req.Conditions[i].Enabled = false
	}

	result, err := newTestSearcher(1).Search(context.Background(), req, NewHistory())
	require.NoError(t, err)
	assert.Equal(t, 61, result.Stats.Accepted)
	assert.Equal(t, entities.Distribution{10, 70}, result.Best.Distribution)
}
