// Package calculator derives supplier-side costs and profit from priced line
// items. Everything here is pure: cost tables arrive through the lookup
// function and results are recomputed on demand, never stored.
package calculator

import (
	"github.com/google/uuid"

	"inkstitch_backend/internal/pricing/engine"
)

// ServiceCostLookup resolves a decoration service's per-unit supplier cost.
// A false return means the service no longer exists; callers treat that as a
// zero cost contribution, not an error, since services can be deleted after
// quotes referencing them were created.
type ServiceCostLookup func(serviceID string) (float64, bool)

// CostBreakdown is the supplier-side cost of a single line item next to its
// revenue.
type CostBreakdown struct {
	ProductCost     float64 `json:"productCost"`
	PrintingCosts   float64 `json:"printingCosts"`
	EmbroideryCosts float64 `json:"embroideryCosts"`
	TotalCost       float64 `json:"totalCost"`
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	ProfitMargin    float64 `json:"profitMargin"`
}

// LineItemResult carries a per-item breakdown plus enough identifying data
// for presentation.
type LineItemResult struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Quantity     int           `json:"quantity"`
	Revenue      float64       `json:"revenue"`
	Costs        CostBreakdown `json:"costs"`
	Profit       float64       `json:"profit"`
	ProfitMargin float64       `json:"profitMargin"`
}

// QuoteProfit aggregates cost and profit across a whole quote.
type QuoteProfit struct {
	TotalRevenue float64          `json:"totalRevenue"`
	TotalCost    float64          `json:"totalCost"`
	TotalProfit  float64          `json:"totalProfit"`
	ProfitMargin float64          `json:"profitMargin"`
	LineItems    []LineItemResult `json:"lineItems"`
}

// LineItemCost computes the supplier cost and profit of one line item.
// Product cost uses the supplier base price, never the marked-up unit price.
// Missing service references and zero revenue degrade to zero contributions.
func LineItemCost(item engine.LineItem, lookup ServiceCostLookup) CostBreakdown {
	quantity := float64(item.Quantity)
	if quantity < 0 {
		quantity = 0
	}

	var productCost, printingCost, embroideryCost float64

	switch item.Kind {
	case engine.KindProduct:
		productCost = item.BasePrice * quantity
		if item.Printing != nil {
			printingCost = serviceCost(item.Printing.ServiceID, quantity, lookup)
		}
		if item.Embroidery != nil {
			embroideryCost = serviceCost(item.Embroidery.ServiceID, quantity, lookup)
		}
	case engine.KindService:
		cost := serviceCost(item.ServiceID, quantity, lookup)
		if item.ServiceType == "embroidery" {
			embroideryCost = cost
		} else {
			printingCost = cost
		}
	}

	totalCost := productCost + printingCost + embroideryCost
	revenue := item.TotalPrice
	profit := revenue - totalCost

	margin := 0.0
	if revenue > 0 {
		margin = profit / revenue * 100
	}

	return CostBreakdown{
		ProductCost:     engine.Round2(productCost),
		PrintingCosts:   engine.Round2(printingCost),
		EmbroideryCosts: engine.Round2(embroideryCost),
		TotalCost:       engine.Round2(totalCost),
		Revenue:         revenue,
		Profit:          engine.Round2(profit),
		ProfitMargin:    engine.Round2(margin),
	}
}

// QuoteCostAndProfit sums LineItemCost across all items. An empty quote
// yields all zeros, never a division fault.
func QuoteCostAndProfit(items []engine.LineItem, lookup ServiceCostLookup) QuoteProfit {
	result := QuoteProfit{LineItems: []LineItemResult{}}

	var totalRevenue, totalCost float64
	for _, item := range items {
		costs := LineItemCost(item, lookup)

		result.LineItems = append(result.LineItems, LineItemResult{
			ID:           item.ID,
			Name:         displayName(item),
			Quantity:     item.Quantity,
			Revenue:      costs.Revenue,
			Costs:        costs,
			Profit:       costs.Profit,
			ProfitMargin: costs.ProfitMargin,
		})

		totalRevenue += costs.Revenue
		totalCost += costs.TotalCost
	}

	totalProfit := engine.Round2(totalRevenue - totalCost)
	margin := 0.0
	if totalRevenue > 0 {
		margin = engine.Round2(totalProfit / totalRevenue * 100)
	}

	result.TotalRevenue = engine.Round2(totalRevenue)
	result.TotalCost = engine.Round2(totalCost)
	result.TotalProfit = totalProfit
	result.ProfitMargin = margin

	return result
}

func serviceCost(serviceID string, quantity float64, lookup ServiceCostLookup) float64 {
	if serviceID == "" || lookup == nil {
		return 0
	}
	unitCost, ok := lookup(serviceID)
	if !ok {
		return 0
	}
	return unitCost * quantity
}

func displayName(item engine.LineItem) string {
	if item.Kind == engine.KindService {
		return item.ServiceName
	}
	return item.ProductName
}
