package calculator

import (
	"testing"

	"github.com/google/uuid"

	"inkstitch_backend/internal/pricing/engine"
)

func lookupTable(costs map[string]float64) ServiceCostLookup {
	return func(serviceID string) (float64, bool) {
		cost, ok := costs[serviceID]
		return cost, ok
	}
}

func TestLineItemCostWithPrinting(t *testing.T) {
	item := engine.LineItem{
		ID:          uuid.New(),
		Kind:        engine.KindProduct,
		ProductName: "Heavy Cotton Tee",
		BasePrice:   8.00,
		Quantity:    50,
		TotalPrice:  600.00,
		Printing:    &engine.ServiceCharge{ServiceID: "print_1_small", UnitPrice: 4.50, TotalPrice: 191.25},
	}
	lookup := lookupTable(map[string]float64{"print_1_small": 2.00})

	got := LineItemCost(item, lookup)

	if got.ProductCost != 400.00 {
		t.Errorf("product cost = %v, want 400.00", got.ProductCost)
	}
	if got.PrintingCosts != 100.00 {
		t.Errorf("printing cost = %v, want 100.00", got.PrintingCosts)
	}
	if got.TotalCost != 500.00 {
		t.Errorf("total cost = %v, want 500.00", got.TotalCost)
	}
	if got.Profit != 100.00 {
		t.Errorf("profit = %v, want 100.00", got.Profit)
	}
	if got.ProfitMargin != 16.67 {
		t.Errorf("profit margin = %v, want 16.67", got.ProfitMargin)
	}
}

func TestLineItemCostMissingServiceContributesZero(t *testing.T) {
	item := engine.LineItem{
		ID:         uuid.New(),
		Kind:       engine.KindProduct,
		BasePrice:  5.00,
		Quantity:   10,
		TotalPrice: 100.00,
		Printing:   &engine.ServiceCharge{ServiceID: "deleted_service"},
	}

	got := LineItemCost(item, lookupTable(nil))

	if got.PrintingCosts != 0 {
		t.Errorf("missing service cost = %v, want 0", got.PrintingCosts)
	}
	if got.TotalCost != 50.00 {
		t.Errorf("total cost = %v, want 50.00", got.TotalCost)
	}
	if got.Profit != 50.00 {
		t.Errorf("profit = %v, want 50.00", got.Profit)
	}
}

func TestLineItemCostNilLookup(t *testing.T) {
	item := engine.LineItem{
		Kind:       engine.KindProduct,
		BasePrice:  5.00,
		Quantity:   10,
		TotalPrice: 100.00,
		Printing:   &engine.ServiceCharge{ServiceID: "p1"},
		Embroidery: &engine.ServiceCharge{ServiceID: "e1"},
	}

	got := LineItemCost(item, nil)
	if got.TotalCost != 50.00 {
		t.Fatalf("nil lookup total cost = %v, want 50.00", got.TotalCost)
	}
}

func TestLineItemCostZeroRevenueMargin(t *testing.T) {
	item := engine.LineItem{
		Kind:      engine.KindProduct,
		BasePrice: 5.00,
		Quantity:  10,
	}

	got := LineItemCost(item, lookupTable(nil))
	if got.ProfitMargin != 0 {
		t.Fatalf("zero revenue margin = %v, want 0", got.ProfitMargin)
	}
	if got.Profit != -50.00 {
		t.Fatalf("profit = %v, want -50.00", got.Profit)
	}
}

func TestLineItemCostServiceOnlyLine(t *testing.T) {
	item := engine.LineItem{
		ID:          uuid.New(),
		Kind:        engine.KindService,
		ServiceID:   "emb_1_small",
		ServiceName: "Small logo embroidery",
		ServiceType: "embroidery",
		BasePrice:   6.00,
		Quantity:    12,
		TotalPrice:  68.40,
	}
	lookup := lookupTable(map[string]float64{"emb_1_small": 3.50})

	got := LineItemCost(item, lookup)

	if got.ProductCost != 0 {
		t.Errorf("service-only product cost = %v, want 0", got.ProductCost)
	}
	if got.EmbroideryCosts != 42.00 {
		t.Errorf("embroidery cost = %v, want 42.00", got.EmbroideryCosts)
	}
	if got.PrintingCosts != 0 {
		t.Errorf("printing cost = %v, want 0", got.PrintingCosts)
	}
}

func TestQuoteCostAndProfitEmpty(t *testing.T) {
	got := QuoteCostAndProfit(nil, lookupTable(nil))

	if got.TotalRevenue != 0 || got.TotalCost != 0 || got.TotalProfit != 0 || got.ProfitMargin != 0 {
		t.Fatalf("empty quote must be all zeros, got %+v", got)
	}
	if got.LineItems == nil || len(got.LineItems) != 0 {
		t.Fatalf("empty quote must return an empty per-item slice, got %v", got.LineItems)
	}
}

func TestQuoteCostAndProfitAggregation(t *testing.T) {
	lookup := lookupTable(map[string]float64{"print_1_small": 2.00})
	items := []engine.LineItem{
		{
			ID: uuid.New(), Kind: engine.KindProduct, ProductName: "Tee",
			BasePrice: 8.00, Quantity: 50, TotalPrice: 600.00,
			Printing: &engine.ServiceCharge{ServiceID: "print_1_small"},
		},
		{
			ID: uuid.New(), Kind: engine.KindProduct, ProductName: "Hoodie",
			BasePrice: 15.00, Quantity: 10, TotalPrice: 300.00,
		},
	}

	got := QuoteCostAndProfit(items, lookup)

	if got.TotalRevenue != 900.00 {
		t.Errorf("total revenue = %v, want 900.00", got.TotalRevenue)
	}
	if got.TotalCost != 650.00 {
		t.Errorf("total cost = %v, want 650.00", got.TotalCost)
	}
	if got.TotalProfit != 250.00 {
		t.Errorf("total profit = %v, want 250.00", got.TotalProfit)
	}
	if got.ProfitMargin != 27.78 {
		t.Errorf("profit margin = %v, want 27.78", got.ProfitMargin)
	}
	if len(got.LineItems) != 2 {
		t.Fatalf("per-item results = %d, want 2", len(got.LineItems))
	}
	if got.LineItems[0].Name != "Tee" || got.LineItems[0].Quantity != 50 {
		t.Errorf("per-item identifying data missing: %+v", got.LineItems[0])
	}
}
