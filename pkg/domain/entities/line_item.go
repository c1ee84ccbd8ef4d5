package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineKey identifies a line within a shipment
type LineKey string

// LineItem represents one product entry in a shipment
type LineItem struct {
	Key      LineKey
	Product  *Product
	BoxCount int
	// PiecesPerBox and UnitPrice override the product defaults when non-zero.
	PiecesPerBox int
	UnitPrice    decimal.Decimal

	// Derived by the valuation engine
	GoodsValue    decimal.Decimal
	EstimatedDuty decimal.Decimal
}

// NewLineItem creates a validated LineItem
func NewLineItem(key LineKey, product *Product, boxCount int) (*LineItem, error) {
	if string(key) == "" {
		return nil, fmt.Errorf("line key cannot be empty")
	}
	if boxCount < 0 {
		return nil, fmt.Errorf("box count cannot be negative, got %d", boxCount)
	}

	return &LineItem{
		Key:      key,
		Product:  product,
		BoxCount: boxCount,
	}, nil
}

// EffectivePiecesPerBox returns the override when set, else the product's value
func (l LineItem) EffectivePiecesPerBox() int {
	if l.PiecesPerBox > 0 {
		return l.PiecesPerBox
	}
	if l.Product == nil {
		return 0
	}
	return l.Product.PiecesPerBox
}

// EffectiveUnitPrice returns the override when set, else the product's value
func (l LineItem) EffectiveUnitPrice() decimal.Decimal {
	if !l.UnitPrice.IsZero() {
		return l.UnitPrice
	}
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.UnitPrice
}

// Pieces returns the total piece count on the line
func (l LineItem) Pieces() int {
	return l.BoxCount * l.EffectivePiecesPerBox()
}

// FixedBoxWeight returns the product's authoritative box weight, if any
func (l LineItem) FixedBoxWeight() (decimal.Decimal, bool) {
	if !l.Product.HasFixedWeight() {
		return decimal.Zero, false
	}
	return *l.Product.FixedBoxWeight, true
}

// Selected reports whether a product has been chosen for the line
func (l LineItem) Selected() bool {
	return l.Product != nil
}
