package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/boxopt/pkg/application/services/search"
	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/domain/services"
	"github.com/vsinha/boxopt/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Set up a small homeware catalog
	catalog := memory.NewProductRepository(3)
	if err := setupCatalog(catalog); err != nil {
		fmt.Printf("❌ Catalog setup failed: %v\n", err)
		return
	}

	shipment, err := buildShipment(catalog)
	if err != nil {
		fmt.Printf("❌ Shipment setup failed: %v\n", err)
		return
	}

	conditions := []entities.Condition{
		{Metric: entities.MetricValuePerWeight, Operator: entities.OpGreaterEqual, Threshold: decimal.NewFromInt(4), Enabled: true},
		{Metric: entities.MetricTaxPerWeight, Operator: entities.OpLessEqual, Threshold: decimal.RequireFromString("0.6"), Enabled: true},
	}

	valuator := services.NewValuator()
	before := valuator.ShipmentMetrics(shipment)

	fmt.Println("🚢 Optimizing sea shipment to SEA...")
	fmt.Printf("Target: %d boxes, current total duty %s\n", shipment.TargetBoxes, before.TotalDuty.StringFixed(2))
	fmt.Println()

	searcher := search.NewSearcherWithConfig(search.Config{Capacity: 5, Workers: 2}, valuator, nil)
	req := search.Request{
		Shipment:       shipment,
		AdjustableKeys: []entities.LineKey{"TOWELS", "CANDLES", "VASES"},
		Conditions:     conditions,
	}

	history := search.NewHistory()
	for round := 1; round <= 2; round++ {
		result, err := searcher.Search(ctx, req, history)
		if errors.Is(err, search.ErrNoFeasibleSolution) {
			fmt.Println("⚠️  No further feasible distributions")
			return
		}
		if err != nil {
			fmt.Printf("❌ Search failed: %v\n", err)
			return
		}

		fmt.Printf("📊 Round %d: %d candidates, %d feasible, %d already seen\n",
			round, result.Stats.Enumerated, result.Stats.Accepted, result.Stats.SkippedSeen)
		for i, solution := range result.Solutions {
			fmt.Printf("  %d. %-14s total duty %s  value/kg %s\n",
				i+1,
				solution.Distribution,
				solution.TotalDuty().StringFixed(2),
				solution.Metrics.ValuePerWeight.StringFixed(2))
		}
		fmt.Println()

		if round == 1 {
			fmt.Println("📦 Best shipment:")
			for _, line := range result.Applied.Lines {
				fmt.Printf("  %-8s %3d boxes  goods %10s  duty %8s\n",
					line.Key, line.BoxCount, line.GoodsValue.StringFixed(2), line.EstimatedDuty.StringFixed(2))
			}
			fmt.Println()
		}

		history = result.History
	}
}

func setupCatalog(catalog *memory.ProductRepository) error {
	type productRow struct {
		name      entities.ProductName
		price     string
		pieces    int
		duty      string
		surcharge []string
		boxKilos  string
	}
	rows := []productRow{
		{name: "BATH_TOWEL", price: "3.20", pieces: 24, duty: "0.091", boxKilos: "12.5"},
		{name: "SOY_CANDLE", price: "1.75", pieces: 48, duty: "0.06", surcharge: []string{"0.25"}},
		{name: "GLASS_VASE", price: "6.00", pieces: 12, duty: "0.035"},
	}

	products := make([]*entities.Product, 0, len(rows))
	for _, s := range rows {
		surcharges := make([]decimal.Decimal, len(s.surcharge))
		for i, rate := range s.surcharge {
			surcharges[i] = decimal.RequireFromString(rate)
		}
		product, err := entities.NewProduct(s.name, decimal.RequireFromString(s.price), s.pieces,
			decimal.RequireFromString(s.duty), surcharges)
		if err != nil {
			return err
		}
		if s.boxKilos != "" {
			weight := decimal.RequireFromString(s.boxKilos)
			product.FixedBoxWeight = &weight
		}
		products = append(products, product)
	}
	return catalog.LoadProducts(products)
}

func buildShipment(catalog *memory.ProductRepository) (*entities.Shipment, error) {
	shipment := &entities.Shipment{
		Mode:         entities.Sea,
		Port:         "SEA",
		PackingType:  "carton",
		TargetBoxes:  120,
		GrossWeight:  decimal.NewFromInt(1800),
		ExchangeRate: decimal.NewFromInt(1),
	}

	lines := []struct {
		key     entities.LineKey
		product entities.ProductName
		boxes   int
	}{
		{"TOWELS", "BATH_TOWEL", 40},
		{"CANDLES", "SOY_CANDLE", 40},
		{"VASES", "GLASS_VASE", 40},
	}
	for _, l := range lines {
		product, err := catalog.GetProduct(l.product)
		if err != nil {
			return nil, err
		}
		line, err := entities.NewLineItem(l.key, product, l.boxes)
		if err != nil {
			return nil, err
		}
		shipment.Lines = append(shipment.Lines, services.Revalue(*line))
	}
	return shipment, nil
}
