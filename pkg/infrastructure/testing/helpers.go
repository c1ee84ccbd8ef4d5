package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/infrastructure/repositories/memory"
)

// Product names used by the apparel scenario
const (
	Jacket entities.ProductName = "WOOL_JACKET"
	Tee    entities.ProductName = "COTTON_TEE"
	Mug    entities.ProductName = "CERAMIC_MUG"
	Scarf  entities.ProductName = "SILK_SCARF"
)

// Scenario totals
const (
	ApparelTargetBoxes = 100
	ApparelFixedBoxes  = 20
)

func rates(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

// BuildApparelCatalog builds the catalog of the apparel scenario. Every box of jacket,
// tee and scarf is worth 100 in goods; a box of mugs is worth 50.
//
//	WOOL_JACKET  5 pcs × 20.00, duty 20%          -> 20.00 duty per box (clothing)
//	COTTON_TEE  40 pcs ×  2.50, duty 16.5% + 7.5% -> 24.00 duty per box (clothing)
//	CERAMIC_MUG 10 pcs ×  5.00, duty 10%          ->  5.00 duty per box
//	SILK_SCARF  25 pcs ×  4.00, duty 6%           ->  6.00 duty per box (clothing)
func BuildApparelCatalog() *memory.ProductRepository {
	repo := memory.NewProductRepository(4)

	products := []*entities.Product{
		{
			Name:         Jacket,
			UnitPrice:    decimal.NewFromInt(20),
			PiecesPerBox: 5,
			DutyRate:     decimal.RequireFromString("0.2"),
			Clothing:     true,
		},
		{
			Name:           Tee,
			UnitPrice:      decimal.RequireFromString("2.50"),
			PiecesPerBox:   40,
			DutyRate:       decimal.RequireFromString("0.165"),
			SurchargeRates: rates("0.075"),
			Clothing:       true,
		},
		{
			Name:         Mug,
			UnitPrice:    decimal.NewFromInt(5),
			PiecesPerBox: 10,
			DutyRate:     decimal.RequireFromString("0.1"),
		},
		{
			Name:         Scarf,
			UnitPrice:    decimal.NewFromInt(4),
			PiecesPerBox: 25,
			DutyRate:     decimal.RequireFromString("0.06"),
			Clothing:     true,
		},
	}

	if err := repo.LoadProducts(products); err != nil {
		panic(err)
	}
	return repo
}

// BuildApparelShipment builds a 100-box sea shipment with a fixed 20-box jacket line and
// one empty line per adjustable product, keyed by product name.
func BuildApparelShipment(catalog *memory.ProductRepository, adjustable ...entities.ProductName) *entities.Shipment {
	jacket, err := catalog.GetProduct(Jacket)
	if err != nil {
		panic(err)
	}

	shipment := &entities.Shipment{
		Mode:         entities.Sea,
		Port:         "LAX",
		PackingType:  "carton",
		TargetBoxes:  ApparelTargetBoxes,
		GrossWeight:  decimal.NewFromInt(1000),
		ExchangeRate: decimal.NewFromInt(1),
		Lines: []entities.LineItem{
			{Key: entities.LineKey(Jacket), Product: jacket, BoxCount: ApparelFixedBoxes},
		},
	}

	for _, name := range adjustable {
		product, err := catalog.GetProduct(name)
		if err != nil {
			panic(err)
		}
		shipment.Lines = append(shipment.Lines, entities.LineItem{
			Key:     entities.LineKey(name),
			Product: product,
		})
	}
	return shipment
}

// ApparelConditions returns the sea conditions used by the apparel scenario
func ApparelConditions() []entities.Condition {
	return []entities.Condition{
		{
			Metric:    entities.MetricClothingValuePercentage,
			Operator:  entities.OpGreaterEqual,
			Threshold: decimal.NewFromInt(50),
			Enabled:   true,
		},
		{
			Metric:    entities.MetricValuePerWeight,
			Operator:  entities.OpGreater,
			Threshold: decimal.NewFromInt(6),
			Enabled:   true,
		},
		{
			Metric:    entities.MetricTaxPerWeight,
			Operator:  entities.OpLessEqual,
			Threshold: decimal.NewFromInt(2),
			Enabled:   true,
		},
		{
			Metric:    entities.MetricTotalValue,
			Operator:  entities.OpGreaterEqual,
			Threshold: decimal.NewFromInt(1000000),
			Enabled:   true,
		},
	}
}

// BuildApparelConditionRepository stores ApparelConditions as the LAX sea profile
func BuildApparelConditionRepository() *memory.ConditionRepository {
	repo := memory.NewConditionRepository()
	err := repo.LoadProfiles([]entities.ConditionProfile{{
		Key:        entities.ConditionProfileKey{Mode: entities.Sea, Port: "LAX"},
		Conditions: ApparelConditions(),
	}})
	if err != nil {
		panic(err)
	}
	return repo
}
