package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// SingleBoxWeight derives the average weight of a box whose product has no fixed weight.
//
// Lines with a fixed per-box weight are taken at face value and their weight is removed
// from the gross weight before averaging over the remaining boxes. When no line has a fixed
// weight the gross weight is averaged over every box. A zero box denominator yields 0.
func SingleBoxWeight(grossWeight decimal.Decimal, lines []entities.LineItem) decimal.Decimal {
	var (
		fixedWeight = decimal.Zero
		fixedBoxes  int64
		totalBoxes  int64
		anyFixed    bool
	)

	for _, line := range lines {
		boxes := int64(line.BoxCount)
		totalBoxes += boxes
		if weight, ok := line.FixedBoxWeight(); ok {
			anyFixed = true
			fixedWeight = fixedWeight.Add(weight.Mul(decimal.NewFromInt(boxes)))
			fixedBoxes += boxes
		}
	}

	if !anyFixed {
		return safeDiv(grossWeight, decimal.NewFromInt(totalBoxes)).Round(moneyPlaces)
	}
	remaining := grossWeight.Sub(fixedWeight)
	return safeDiv(remaining, decimal.NewFromInt(totalBoxes-fixedBoxes)).Round(moneyPlaces)
}

// RequiredPiecesPerBox is the smallest pieces-per-box a weight-bound product may declare
// given the average single box weight.
func RequiredPiecesPerBox(singleBoxWeight decimal.Decimal) int {
	return int(singleBoxWeight.Floor().IntPart()) + 1
}

// MeetsWeightEligibility reports whether a line satisfies its product's weight-bound
// pieces-per-box requirement. Lines whose product is not weight-bound always qualify.
func MeetsWeightEligibility(line entities.LineItem, singleBoxWeight decimal.Decimal) bool {
	if !line.Selected() || !line.Product.WeightBound {
		return true
	}
	return line.EffectivePiecesPerBox() >= RequiredPiecesPerBox(singleBoxWeight)
}
