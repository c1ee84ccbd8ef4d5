package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func teeProduct() *entities.Product {
	return &entities.Product{
		Name:           "COTTON_TEE",
		UnitPrice:      dec("2.50"),
		PiecesPerBox:   40,
		DutyRate:       dec("0.165"),
		SurchargeRates: []decimal.Decimal{dec("0.075")},
		Clothing:       true,
	}
}

func mugProduct() *entities.Product {
	return &entities.Product{
		Name:         "CERAMIC_MUG",
		UnitPrice:    dec("5"),
		PiecesPerBox: 10,
		DutyRate:     dec("0.1"),
	}
}

func TestEstimatedDuty(t *testing.T) {
	overridePieces := 50
	overridePrice := dec("3")

	tests := []struct {
		name     string
		boxes    int
		product  *entities.Product
		pieces   *int
		price    *decimal.Decimal
		expected string
	}{
		{"product_defaults", 10, teeProduct(), nil, nil, "240"},
		{"pieces_override", 10, teeProduct(), &overridePieces, nil, "300"},
		{"price_override", 10, teeProduct(), nil, &overridePrice, "288"},
		{"zero_boxes", 0, teeProduct(), nil, nil, "0"},
		{
			"half_cent_rounds_up",
			1,
			&entities.Product{Name: "P", UnitPrice: dec("0.333"), PiecesPerBox: 3, DutyRate: dec("0.125")},
			nil,
			nil,
			"0.13",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duty, ok := EstimatedDuty(tt.boxes, tt.product, tt.pieces, tt.price)
			if !ok {
				t.Fatal("Expected a duty for a selected product")
			}
			if !duty.Equal(dec(tt.expected)) {
				t.Errorf("EstimatedDuty = %s, want %s", duty, tt.expected)
			}
		})
	}
}

func TestEstimatedDuty_UnselectedLine(t *testing.T) {
	duty, ok := EstimatedDuty(10, nil, nil, nil)
	if ok {
		t.Error("Expected no duty without a product")
	}
	if !duty.IsZero() {
		t.Errorf("Expected zero duty, got %s", duty)
	}
}

func TestEstimateAndRevalue(t *testing.T) {
	line := entities.LineItem{Key: "L1", Product: teeProduct(), BoxCount: 10}

	v := Estimate(line)
	if !v.GoodsValue.Equal(dec("1000")) || !v.EstimatedDuty.Equal(dec("240")) {
		t.Errorf("Estimate = %s / %s, want 1000 / 240", v.GoodsValue, v.EstimatedDuty)
	}

	revalued := Revalue(line)
	if !revalued.GoodsValue.Equal(dec("1000")) || !revalued.EstimatedDuty.Equal(dec("240")) {
		t.Errorf("Revalue did not store derived figures: %s / %s", revalued.GoodsValue, revalued.EstimatedDuty)
	}
	if !line.GoodsValue.IsZero() {
		t.Error("Revalue must not modify its input")
	}

	if got := Estimate(entities.LineItem{Key: "EMPTY", BoxCount: 5}); !got.GoodsValue.IsZero() {
		t.Errorf("Expected zero valuation for unselected line, got %s", got.GoodsValue)
	}
}

func sampleShipment(mode entities.ShipmentMode) *entities.Shipment {
	return &entities.Shipment{
		Mode:         mode,
		TargetBoxes:  30,
		GrossWeight:  dec("600"),
		ExchangeRate: dec("7"),
		Lines: []entities.LineItem{
			{Key: "TEE", Product: teeProduct(), BoxCount: 10},
			{Key: "MUG", Product: mugProduct(), BoxCount: 20},
		},
	}
}

func TestValuator_ShipmentMetrics_Sea(t *testing.T) {
	m := NewValuator().ShipmentMetrics(sampleShipment(entities.Sea))

	checks := []struct {
		name     string
		got      decimal.Decimal
		expected string
	}{
		{"total_goods", m.TotalGoodsValue, "2000"},
		{"line_duty", m.LineDuty, "340"},
		{"processing_fee_floor", m.ProcessingFee, "32.71"},
		{"harbor_fee", m.AuxiliaryFees, "2.5"},
		{"total_duty", m.TotalDuty, "375.21"},
		{"duty_per_weight", m.DutyPerWeight, "4.37745"},
		{"clothing_percentage", m.ClothingValuePercentage, "50"},
		{"single_box_weight", m.SingleBoxWeight, "20"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.expected)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.expected)
		}
	}

	if m.ValuePerWeight.StringFixed(4) != "3.3333" {
		t.Errorf("value_per_weight = %s, want 3.3333", m.ValuePerWeight.StringFixed(4))
	}
}

func TestValuator_ShipmentMetrics_Air(t *testing.T) {
	m := NewValuator().ShipmentMetrics(sampleShipment(entities.Air))

	if !m.ProcessingFee.Equal(dec("33.58")) {
		t.Errorf("Expected air processing floor 33.58, got %s", m.ProcessingFee)
	}
	if !m.AuxiliaryFees.IsZero() {
		t.Errorf("Expected no auxiliary fee for air, got %s", m.AuxiliaryFees)
	}
	if !m.TotalDuty.Equal(dec("373.58")) {
		t.Errorf("Expected total duty 373.58, got %s", m.TotalDuty)
	}
}

func TestValuator_ZeroGrossWeightGuard(t *testing.T) {
	s := sampleShipment(entities.Sea)
	s.GrossWeight = decimal.Zero

	m := NewValuator().ShipmentMetrics(s)
	if !m.ValuePerWeight.IsZero() || !m.DutyPerWeight.IsZero() {
		t.Errorf("Expected zero ratios without gross weight, got %s / %s", m.ValuePerWeight, m.DutyPerWeight)
	}
}

func TestFeeSchedule_ProcessingFeeClamp(t *testing.T) {
	schedule := DefaultFeeSchedule(entities.Sea)

	tests := []struct {
		name     string
		goods    string
		expected string
	}{
		{"below_floor", "1000", "32.71"},
		{"inside_band", "50000", "173.2"},
		{"above_ceiling", "200000", "634.62"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := schedule.ProcessingFee(dec(tt.goods))
			if !fee.Equal(dec(tt.expected)) {
				t.Errorf("ProcessingFee(%s) = %s, want %s", tt.goods, fee, tt.expected)
			}
		})
	}
}

func TestValuator_CustomSchedule(t *testing.T) {
	v := NewValuatorWithSchedules(map[entities.ShipmentMode]FeeSchedule{
		entities.Sea: {
			ProcessingFeeRate:    decimal.Zero,
			ProcessingFeeFloor:   decimal.Zero,
			ProcessingFeeCeiling: decimal.Zero,
			AuxiliaryRate:        decimal.Zero,
		},
	})

	m := v.ShipmentMetrics(sampleShipment(entities.Sea))
	if !m.TotalDuty.Equal(dec("340")) {
		t.Errorf("Expected line duty only with an empty schedule, got %s", m.TotalDuty)
	}
	if !v.Schedule(entities.Air).ProcessingFeeFloor.Equal(dec("33.58")) {
		t.Error("Expected air schedule to keep its default")
	}
}

func TestValuator_ExtraFees(t *testing.T) {
	product := func(unit entities.FeeUnit, rate string) *entities.Product {
		return &entities.Product{
			Name:         "LEVIED",
			UnitPrice:    dec("1"),
			PiecesPerBox: 10,
			DutyRate:     decimal.Zero,
			ExtraFee:     &entities.ExtraFee{Unit: unit, Rate: dec(rate)},
		}
	}

	tests := []struct {
		name     string
		unit     entities.FeeUnit
		rate     string
		expected string
	}{
		{"per_kg_uses_average_weight", entities.PerKilogram, "0.5", "100"},
		{"per_cbm_uses_box_share", entities.PerCubicMeter, "50", "50"},
		{"per_piece", entities.PerPiece, "0.01", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &entities.Shipment{
				Mode:         entities.Sea,
				GrossWeight:  dec("600"),
				Volume:       dec("3"),
				ExchangeRate: dec("1"),
				Lines: []entities.LineItem{
					{Key: "LEVIED", Product: product(tt.unit, tt.rate), BoxCount: 10},
					{Key: "OTHER", Product: mugProduct(), BoxCount: 20},
				},
			}
			m := NewValuator().ShipmentMetrics(s)
			if !m.ExtraFees.Equal(dec(tt.expected)) {
				t.Errorf("ExtraFees = %s, want %s", m.ExtraFees, tt.expected)
			}
		})
	}
}
