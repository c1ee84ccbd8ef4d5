package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProduct_Validation(t *testing.T) {
	validProduct, err := NewProduct(
		"COTTON_TEE",
		decimal.RequireFromString("2.50"),
		40,
		decimal.RequireFromString("0.165"),
		[]decimal.Decimal{decimal.RequireFromString("0.075"), decimal.RequireFromString("0.25")},
	)
	if err != nil {
		t.Fatalf("Expected valid product creation to succeed: %v", err)
	}
	if validProduct.Name != "COTTON_TEE" {
		t.Errorf("Expected product name COTTON_TEE, got %s", validProduct.Name)
	}
	if !validProduct.TotalSurchargeRate().Equal(decimal.RequireFromString("0.325")) {
		t.Errorf("Expected total surcharge 0.325, got %s", validProduct.TotalSurchargeRate())
	}
	if !validProduct.TotalDutyRate().Equal(decimal.RequireFromString("0.49")) {
		t.Errorf("Expected total duty rate 0.49, got %s", validProduct.TotalDutyRate())
	}

	one := decimal.NewFromInt(1)
	testCases := []struct {
		name        string
		productName ProductName
		unitPrice   decimal.Decimal
		pieces      int
		dutyRate    decimal.Decimal
		surcharges  []decimal.Decimal
		expectError string
	}{
		{"empty name", "", one, 1, one, nil, "product name cannot be empty"},
		{"negative price", "P", one.Neg(), 1, one, nil, "unit price cannot be negative, got -1"},
		{"zero pieces", "P", one, 0, one, nil, "pieces per box must be positive, got 0"},
		{"negative duty", "P", one, 1, one.Neg(), nil, "duty rate cannot be negative, got -1"},
		{
			"negative surcharge",
			"P",
			one,
			1,
			one,
			[]decimal.Decimal{one.Neg()},
			"surcharge rate cannot be negative, got -1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(tc.productName, tc.unitPrice, tc.pieces, tc.dutyRate, tc.surcharges)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestParseFeeUnit(t *testing.T) {
	for input, want := range map[string]FeeUnit{"per-kg": PerKilogram, "cbm": PerCubicMeter, "pcs": PerPiece} {
		got, err := ParseFeeUnit(input)
		if err != nil {
			t.Fatalf("ParseFeeUnit(%q) failed: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseFeeUnit(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseFeeUnit("per-pallet"); err == nil {
		t.Error("Expected error for unknown fee unit")
	}
}

func TestLineItem_EffectiveValues(t *testing.T) {
	product := &Product{Name: "DENIM", UnitPrice: decimal.NewFromInt(12), PiecesPerBox: 20}

	line := LineItem{Key: "L1", Product: product, BoxCount: 3}
	if line.EffectivePiecesPerBox() != 20 {
		t.Errorf("Expected inherited pieces per box 20, got %d", line.EffectivePiecesPerBox())
	}
	if !line.EffectiveUnitPrice().Equal(decimal.NewFromInt(12)) {
		t.Errorf("Expected inherited unit price 12, got %s", line.EffectiveUnitPrice())
	}
	if line.Pieces() != 60 {
		t.Errorf("Expected 60 pieces, got %d", line.Pieces())
	}

	line.PiecesPerBox = 25
	line.UnitPrice = decimal.NewFromInt(11)
	if line.EffectivePiecesPerBox() != 25 || !line.EffectiveUnitPrice().Equal(decimal.NewFromInt(11)) {
		t.Errorf("Expected overrides 25 / 11, got %d / %s", line.EffectivePiecesPerBox(), line.EffectiveUnitPrice())
	}

	unselected := LineItem{Key: "L2", BoxCount: 4}
	if unselected.Selected() || unselected.EffectivePiecesPerBox() != 0 {
		t.Error("Expected unselected line to report no product values")
	}
	if _, ok := unselected.FixedBoxWeight(); ok {
		t.Error("Expected unselected line to have no fixed weight")
	}
}
