package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductName represents a unique catalog product identifier
type ProductName string

// FeeUnit represents the basis an extra product fee is charged on
type FeeUnit int

const (
	PerPiece FeeUnit = iota
	PerKilogram
	PerCubicMeter
)

// String method for FeeUnit enum
func (u FeeUnit) String() string {
	switch u {
	case PerPiece:
		return "per-piece"
	case PerKilogram:
		return "per-kg"
	case PerCubicMeter:
		return "per-cbm"
	default:
		return "Unknown"
	}
}

// ParseFeeUnit converts the catalog spelling of a fee unit into a FeeUnit
func ParseFeeUnit(s string) (FeeUnit, error) {
	switch s {
	case "per-piece", "piece", "pcs":
		return PerPiece, nil
	case "per-kg", "kg":
		return PerKilogram, nil
	case "per-cbm", "cbm":
		return PerCubicMeter, nil
	default:
		return 0, fmt.Errorf("unknown fee unit %q (expected per-piece, per-kg or per-cbm)", s)
	}
}

// ExtraFee is an additional charge on top of duty, such as an anti-dumping levy
type ExtraFee struct {
	Unit FeeUnit
	Rate decimal.Decimal
}

// Product represents a catalog product as resolved before a search starts
type Product struct {
	Name           ProductName
	UnitPrice      decimal.Decimal
	PiecesPerBox   int
	DutyRate       decimal.Decimal
	SurchargeRates []decimal.Decimal
	// FixedBoxWeight is authoritative when set; otherwise the box weight is averaged.
	FixedBoxWeight *decimal.Decimal
	ExtraFee       *ExtraFee
	Clothing       bool
	// WeightBound products need PiecesPerBox above the average single box weight.
	WeightBound bool
}

// NewProduct creates a validated Product
func NewProduct(
	name ProductName,
	unitPrice decimal.Decimal,
	piecesPerBox int,
	dutyRate decimal.Decimal,
	surchargeRates []decimal.Decimal,
) (*Product, error) {
	if string(name) == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative, got %s", unitPrice)
	}
	if piecesPerBox <= 0 {
		return nil, fmt.Errorf("pieces per box must be positive, got %d", piecesPerBox)
	}
	if dutyRate.IsNegative() {
		return nil, fmt.Errorf("duty rate cannot be negative, got %s", dutyRate)
	}
	for _, rate := range surchargeRates {
		if rate.IsNegative() {
			return nil, fmt.Errorf("surcharge rate cannot be negative, got %s", rate)
		}
	}

	return &Product{
		Name:           name,
		UnitPrice:      unitPrice,
		PiecesPerBox:   piecesPerBox,
		DutyRate:       dutyRate,
		SurchargeRates: surchargeRates,
	}, nil
}

// TotalSurchargeRate sums all additional surcharge rates
func (p *Product) TotalSurchargeRate() decimal.Decimal {
	total := decimal.Zero
	for _, rate := range p.SurchargeRates {
		total = total.Add(rate)
	}
	return total
}

// TotalDutyRate is the base duty rate plus all surcharges
func (p *Product) TotalDutyRate() decimal.Decimal {
	return p.DutyRate.Add(p.TotalSurchargeRate())
}

// HasFixedWeight reports whether the product carries an authoritative per-box weight
func (p *Product) HasFixedWeight() bool {
	return p != nil && p.FixedBoxWeight != nil
}
