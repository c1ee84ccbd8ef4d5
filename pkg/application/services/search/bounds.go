package search

import (
	"fmt"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// DefaultMinBoxes is the floor applied to an adjustable line without an explicit minimum
const DefaultMinBoxes = 10

// bound is the resolved inclusive box range of one adjustable line
type bound struct {
	min int
	max int
}

func (b bound) contains(n int) bool {
	return n >= b.min && n <= b.max
}

func (b bound) width() int {
	if b.max < b.min {
		return 0
	}
	return b.max - b.min + 1
}

// resolveBounds applies defaults to the caller's ranges and checks that the ranges can
// cover exactly toDistribute boxes. A missing minimum is the floor; a missing maximum
// reserves the floor for every other adjustable line.
func resolveBounds(
	keys []entities.LineKey,
	ranges map[entities.LineKey]entities.AdjustmentRange,
	toDistribute int,
	floor int,
) ([]bound, error) {
	bounds := make([]bound, len(keys))
	defaultMax := toDistribute - floor*(len(keys)-1)

	var sumMin, sumMax int
	for i, key := range keys {
		r := ranges[key]
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %s: %v", ErrInvalidRange, key, err)
		}

		b := bound{min: floor, max: defaultMax}
		if r.Min != nil {
			b.min = *r.Min
		}
		if r.Max != nil {
			b.max = *r.Max
		}
		bounds[i] = b
		sumMin += b.min
		sumMax += b.max
	}

	if sumMin > toDistribute {
		return nil, fmt.Errorf("%w: sum of minimums %d exceeds %d boxes to distribute",
			ErrInvalidRange, sumMin, toDistribute)
	}
	if sumMax < toDistribute {
		return nil, fmt.Errorf("%w: sum of maximums %d is below %d boxes to distribute",
			ErrInvalidRange, sumMax, toDistribute)
	}
	for i, b := range bounds {
		if b.min > b.max {
			return nil, fmt.Errorf("%w: line %s: minimum %d exceeds maximum %d",
				ErrInvalidRange, keys[i], b.min, b.max)
		}
	}

	return bounds, nil
}

// candidate is one distribution vector with its position in enumeration order
type candidate struct {
	distribution entities.Distribution
	ordinal      int
}

// enumerateOuter yields every distribution whose first component is first, in the order
// the sequential search visits them. The second component ascends; the last component
// is whatever remains of total.
func enumerateOuter(bounds []bound, total, first int, yield func(candidate)) {
	outer := first - bounds[0].min

	switch len(bounds) {
	case 2:
		second := total - first
		if !bounds[1].contains(second) {
			return
		}
		yield(candidate{
			distribution: entities.Distribution{first, second},
			ordinal:      outer,
		})
	case 3:
		width := bounds[1].width()
		for second := bounds[1].min; second <= bounds[1].max; second++ {
			third := total - first - second
			if !bounds[2].contains(third) {
				continue
			}
			yield(candidate{
				distribution: entities.Distribution{first, second, third},
				ordinal:      outer*width + (second - bounds[1].min),
			})
		}
	}
}
