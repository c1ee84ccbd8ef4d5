package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// moneyPlaces is the precision all monetary amounts are rounded to
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// FeeSchedule holds the mode-specific shipment-level fees charged on top of line duty
type FeeSchedule struct {
	// ProcessingFeeRate is applied to total goods value and clamped to [Floor, Ceiling].
	ProcessingFeeRate    decimal.Decimal
	ProcessingFeeFloor   decimal.Decimal
	ProcessingFeeCeiling decimal.Decimal
	// AuxiliaryRate is an unclamped charge on total goods value (zero when the mode has none).
	AuxiliaryRate decimal.Decimal
}

// DefaultFeeSchedule returns the built-in schedule for a shipment mode
func DefaultFeeSchedule(mode entities.ShipmentMode) FeeSchedule {
	schedule := FeeSchedule{
		ProcessingFeeRate:    decimal.RequireFromString("0.003464"),
		ProcessingFeeFloor:   decimal.RequireFromString("32.71"),
		ProcessingFeeCeiling: decimal.RequireFromString("634.62"),
		AuxiliaryRate:        decimal.RequireFromString("0.00125"),
	}
	if mode == entities.Air {
		schedule.ProcessingFeeFloor = decimal.RequireFromString("33.58")
		schedule.AuxiliaryRate = decimal.Zero
	}
	return schedule
}

// ProcessingFee returns the clamped minimum processing fee for a total goods value
func (f FeeSchedule) ProcessingFee(totalGoods decimal.Decimal) decimal.Decimal {
	fee := totalGoods.Mul(f.ProcessingFeeRate).Round(moneyPlaces)
	if fee.LessThan(f.ProcessingFeeFloor) {
		return f.ProcessingFeeFloor
	}
	if fee.GreaterThan(f.ProcessingFeeCeiling) {
		return f.ProcessingFeeCeiling
	}
	return fee
}

// LineValuation holds the derived money figures of one line
type LineValuation struct {
	GoodsValue    decimal.Decimal
	EstimatedDuty decimal.Decimal
}

// GoodsValue computes boxCount × piecesPerBox × unitPrice rounded to cents
func GoodsValue(boxCount, piecesPerBox int, unitPrice decimal.Decimal) decimal.Decimal {
	pieces := decimal.NewFromInt(int64(boxCount) * int64(piecesPerBox))
	return pieces.Mul(unitPrice).Round(moneyPlaces)
}

// EstimatedDuty computes the duty owed on boxCount boxes of a product. Nil overrides fall
// back to the product's own pieces per box and unit price. The boolean is false when no
// product is selected.
func EstimatedDuty(
	boxCount int,
	product *entities.Product,
	piecesPerBox *int,
	unitPrice *decimal.Decimal,
) (decimal.Decimal, bool) {
	if product == nil {
		return decimal.Zero, false
	}
	pieces := product.PiecesPerBox
	if piecesPerBox != nil {
		pieces = *piecesPerBox
	}
	price := product.UnitPrice
	if unitPrice != nil {
		price = *unitPrice
	}
	goods := GoodsValue(boxCount, pieces, price)
	return goods.Mul(product.TotalDutyRate()).Round(moneyPlaces), true
}

// Estimate values a line at its current box count
func Estimate(line entities.LineItem) LineValuation {
	if !line.Selected() {
		return LineValuation{}
	}
	pieces := line.EffectivePiecesPerBox()
	price := line.EffectiveUnitPrice()
	duty, _ := EstimatedDuty(line.BoxCount, line.Product, &pieces, &price)
	return LineValuation{
		GoodsValue:    GoodsValue(line.BoxCount, pieces, price),
		EstimatedDuty: duty,
	}
}

// Revalue returns a copy of the line with its derived figures recomputed
func Revalue(line entities.LineItem) entities.LineItem {
	v := Estimate(line)
	line.GoodsValue = v.GoodsValue
	line.EstimatedDuty = v.EstimatedDuty
	return line
}

// Valuator computes shipment-level metrics using per-mode fee schedules
type Valuator struct {
	schedules map[entities.ShipmentMode]FeeSchedule
}

// NewValuator creates a valuator with the built-in fee schedules
func NewValuator() *Valuator {
	return NewValuatorWithSchedules(nil)
}

// NewValuatorWithSchedules creates a valuator whose schedules override the built-in ones
func NewValuatorWithSchedules(schedules map[entities.ShipmentMode]FeeSchedule) *Valuator {
	v := &Valuator{
		schedules: map[entities.ShipmentMode]FeeSchedule{
			entities.Sea: DefaultFeeSchedule(entities.Sea),
			entities.Air: DefaultFeeSchedule(entities.Air),
		},
	}
	for mode, schedule := range schedules {
		v.schedules[mode] = schedule
	}
	return v
}

// Schedule returns the fee schedule used for a mode
func (v *Valuator) Schedule(mode entities.ShipmentMode) FeeSchedule {
	if schedule, ok := v.schedules[mode]; ok {
		return schedule
	}
	return DefaultFeeSchedule(mode)
}

// ShipmentMetrics computes the metrics bundle for a shipment. Line figures are recomputed
// from the current box counts; the shipment itself is not modified.
func (v *Valuator) ShipmentMetrics(shipment *entities.Shipment) entities.Metrics {
	var (
		totalGoods    = decimal.Zero
		clothingGoods = decimal.Zero
		lineDuty      = decimal.Zero
		extraFees     = decimal.Zero
	)

	singleBoxWeight := SingleBoxWeight(shipment.GrossWeight, shipment.Lines)
	totalBoxes := shipment.TotalBoxes()

	for _, line := range shipment.Lines {
		if !line.Selected() {
			continue
		}
		valuation := Estimate(line)
		totalGoods = totalGoods.Add(valuation.GoodsValue)
		lineDuty = lineDuty.Add(valuation.EstimatedDuty)
		if line.Product.Clothing {
			clothingGoods = clothingGoods.Add(valuation.GoodsValue)
		}
		extraFees = extraFees.Add(extraFee(line, singleBoxWeight, shipment.Volume, totalBoxes))
	}

	schedule := v.Schedule(shipment.Mode)
	processingFee := schedule.ProcessingFee(totalGoods)
	auxiliary := totalGoods.Mul(schedule.AuxiliaryRate).Round(moneyPlaces)
	totalDuty := lineDuty.Add(processingFee).Add(auxiliary).Add(extraFees).Round(moneyPlaces)

	return entities.Metrics{
		TotalGoodsValue:         totalGoods,
		LineDuty:                lineDuty,
		ProcessingFee:           processingFee,
		AuxiliaryFees:           auxiliary,
		ExtraFees:               extraFees,
		TotalDuty:               totalDuty,
		ValuePerWeight:          safeDiv(totalGoods, shipment.GrossWeight),
		DutyPerWeight:           safeDiv(totalDuty, shipment.GrossWeight).Mul(shipment.ExchangeRate),
		ClothingValuePercentage: safeDiv(clothingGoods, totalGoods).Mul(hundred),
		SingleBoxWeight:         singleBoxWeight,
	}
}

// extraFee charges a product's additional levy for one line
func extraFee(
	line entities.LineItem,
	singleBoxWeight decimal.Decimal,
	volume decimal.Decimal,
	totalBoxes int,
) decimal.Decimal {
	fee := line.Product.ExtraFee
	if fee == nil {
		return decimal.Zero
	}

	boxes := decimal.NewFromInt(int64(line.BoxCount))
	var basis decimal.Decimal
	switch fee.Unit {
	case entities.PerPiece:
		basis = decimal.NewFromInt(int64(line.Pieces()))
	case entities.PerKilogram:
		boxWeight, ok := line.FixedBoxWeight()
		if !ok {
			boxWeight = singleBoxWeight
		}
		basis = boxes.Mul(boxWeight)
	case entities.PerCubicMeter:
		basis = safeDiv(volume.Mul(boxes), decimal.NewFromInt(int64(totalBoxes)))
	default:
		return decimal.Zero
	}
	return basis.Mul(fee.Rate).Round(moneyPlaces)
}

// safeDiv returns 0 instead of dividing by zero
func safeDiv(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}
