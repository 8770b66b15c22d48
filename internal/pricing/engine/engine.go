// Package engine implements the quantity-discount and markup pricing rules.
// All functions are pure: policies and line items are passed in explicitly
// and inputs are never mutated, so callers own all state.
package engine

import (
	"math"

	"github.com/google/uuid"
)

// LineKind discriminates product lines from standalone service lines.
type LineKind string

const (
	// KindProduct is a physical garment line, optionally with decoration.
	KindProduct LineKind = "product"
	// KindService is a standalone decoration service line with no garment.
	KindService LineKind = "service"
)

// Bracket maps a quantity range to a discount percentage.
// A valid bracket has Min >= 1, Max >= Min and DiscountPercent in [0,100].
type Bracket struct {
	Min             int     `json:"min"`
	Max             int     `json:"max"`
	DiscountPercent float64 `json:"discountPercent"`
}

// Contains reports whether the quantity falls inside the bracket.
func (b Bracket) Contains(quantity int) bool {
	return b.Min <= quantity && quantity <= b.Max
}

// DiscountPolicy is an ordered list of quantity brackets. Lookup is
// first-match in list order; overlapping brackets therefore resolve to the
// earlier entry.
type DiscountPolicy struct {
	Brackets []Bracket `json:"brackets"`
}

// DiscountFor returns the discount percentage of the first bracket containing
// the quantity, or 0 when no bracket matches (including the empty policy).
func (p DiscountPolicy) DiscountFor(quantity int) float64 {
	for _, b := range p.Brackets {
		if b.Contains(quantity) {
			return b.DiscountPercent
		}
	}
	return 0
}

// MarkupPolicy is the single global markup applied to physical product base
// prices. It is never applied to decoration service prices.
type MarkupPolicy struct {
	Percentage float64 `json:"percentage"`
}

// ApplyMarkup returns the base price increased by the markup percentage.
func ApplyMarkup(basePrice, markupPercent float64) float64 {
	return basePrice * (1 + markupPercent/100)
}

// Round2 rounds to two decimal places, half away from zero. Monetary amounts
// across the engine are rounded this way at the point they become totals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to three decimal places. Used for per-run electricity costs
// where sub-penny precision matters.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// GroupKey identifies the (supplier, product group) pair used to aggregate
// quantities across line items for bulk-discount purposes.
type GroupKey struct {
	Supplier     string
	ProductGroup string
}

// ServiceCharge is an optional decoration service attached to a product line.
type ServiceCharge struct {
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// LineItem is a single priced row in a quote. ID is assigned once at creation
// and survives recalculation; it is the only key used to address a line.
type LineItem struct {
	ID   uuid.UUID `json:"id"`
	Kind LineKind  `json:"kind"`

	// Product fields (KindProduct). Supplier and ProductGroup double as the
	// bulk-discount group key.
	Supplier     string `json:"supplier,omitempty"`
	ProductGroup string `json:"productGroup,omitempty"`
	ProductName  string `json:"productName,omitempty"`
	SizeRange    string `json:"sizeRange,omitempty"`
	ColourName   string `json:"colourName,omitempty"`
	ColourCode   string `json:"colourCode,omitempty"`

	// Standalone service fields (KindService).
	ServiceID   string `json:"serviceId,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`

	BasePrice         float64 `json:"basePrice"`
	Quantity          int     `json:"quantity"`
	UnitPrice         float64 `json:"unitPrice"`
	MarkupPercent     float64 `json:"markupPercent"`
	DiscountPercent   float64 `json:"discountPercent"`
	ProductTotalPrice float64 `json:"productTotalPrice"`

	Printing   *ServiceCharge `json:"printing,omitempty"`
	Embroidery *ServiceCharge `json:"embroidery,omitempty"`

	// TotalPrice is always the product portion plus any attached service
	// portions; recomputed whenever DiscountPercent changes.
	TotalPrice float64 `json:"totalPrice"`
}

// GroupQuantity returns the summed quantity of all product lines matching the
// key exactly. Standalone service lines never participate.
func GroupQuantity(key GroupKey, items []LineItem) int {
	total := 0
	for _, item := range items {
		if item.Kind != KindProduct {
			continue
		}
		if item.Supplier == key.Supplier && item.ProductGroup == key.ProductGroup {
			total += item.Quantity
		}
	}
	return total
}

// PricedResult is the outcome of pricing a candidate product or service.
type PricedResult struct {
	BasePrice       float64 `json:"basePrice"`
	UnitPrice       float64 `json:"unitPrice"`
	MarkupPercent   float64 `json:"markupPercent"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discountPercent"`
	TotalPrice      float64 `json:"totalPrice"`
}

// Engine combines the discount and markup policies. It holds no other state.
type Engine struct {
	discounts DiscountPolicy
	markup    MarkupPolicy
}

// New creates a pricing engine over the given policies.
func New(discounts DiscountPolicy, markup MarkupPolicy) *Engine {
	return &Engine{discounts: discounts, markup: markup}
}

// DiscountPolicy returns the policy the engine was built with.
func (e *Engine) DiscountPolicy() DiscountPolicy { return e.discounts }

// MarkupPolicy returns the markup the engine was built with.
func (e *Engine) MarkupPolicy() MarkupPolicy { return e.markup }

// PriceProduct prices a candidate product line. When a group key is supplied
// the discount tier is looked up against the combined quantity of all product
// lines already in the quote sharing that key plus the quantity being added,
// so multiple colours and sizes of one product line earn volume pricing
// together. Without a key the item's own quantity decides the tier.
func (e *Engine) PriceProduct(basePrice float64, quantity int, key *GroupKey, items []LineItem) PricedResult {
	markedUp := ApplyMarkup(basePrice, e.markup.Percentage)

	tierQuantity := quantity
	if key != nil {
		tierQuantity = GroupQuantity(*key, items) + quantity
	}
	discount := e.discounts.DiscountFor(tierQuantity)

	total := markedUp * float64(quantity) * (1 - discount/100)

	return PricedResult{
		BasePrice:       basePrice,
		UnitPrice:       Round2(markedUp),
		MarkupPercent:   e.markup.Percentage,
		Quantity:        quantity,
		DiscountPercent: discount,
		TotalPrice:      Round2(total),
	}
}

// PriceService prices a decoration service. Markup never applies and the
// discount tier is decided by the item's own quantity alone: services do not
// participate in supplier/product-group bulk aggregation.
func (e *Engine) PriceService(price float64, quantity int) PricedResult {
	discount := e.discounts.DiscountFor(quantity)
	total := price * float64(quantity) * (1 - discount/100)

	return PricedResult{
		BasePrice:       price,
		UnitPrice:       Round2(price),
		MarkupPercent:   0,
		Quantity:        quantity,
		DiscountPercent: discount,
		TotalPrice:      Round2(total),
	}
}

// RecalculateAll re-derives the discount tier and totals of every product
// line from the current aggregate group quantities. It is a single atomic
// pass over the whole collection: callers invoke it once after every line
// add, edit, or delete. Standalone service lines pass through unchanged and
// IDs are preserved. The pass is idempotent.
func (e *Engine) RecalculateAll(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)

	for i := range out {
		if out[i].Kind != KindProduct {
			continue
		}

		rest := groupQuantityExcluding(out, i)
		tierQuantity := rest + out[i].Quantity

		out[i].DiscountPercent = e.discounts.DiscountFor(tierQuantity)
		out[i].ProductTotalPrice = Round2(out[i].UnitPrice * float64(out[i].Quantity) * (1 - out[i].DiscountPercent/100))

		total := out[i].ProductTotalPrice
		if out[i].Printing != nil {
			total += out[i].Printing.TotalPrice
		}
		if out[i].Embroidery != nil {
			total += out[i].Embroidery.TotalPrice
		}
		out[i].TotalPrice = Round2(total)
	}

	return out
}

// QuoteTotal sums the line totals of the whole quote.
func QuoteTotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}
	return Round2(total)
}

// groupQuantityExcluding sums the group quantity for the line at index self,
// leaving that line itself out so its quantity is not counted twice.
func groupQuantityExcluding(items []LineItem, self int) int {
	key := GroupKey{Supplier: items[self].Supplier, ProductGroup: items[self].ProductGroup}
	total := 0
	for i, item := range items {
		if i == self || item.Kind != KindProduct {
			continue
		}
		if item.Supplier == key.Supplier && item.ProductGroup == key.ProductGroup {
			total += item.Quantity
		}
	}
	return total
}

// ValidateBrackets drops individually invalid brackets (min below 1, max
// below min, discount outside 0..100) and sorts the survivors ascending by
// Min. A save with some bad rows still persists the good ones; the dropped
// count lets the caller report what was ignored.
func ValidateBrackets(brackets []Bracket) (valid []Bracket, dropped int) {
	valid = make([]Bracket, 0, len(brackets))
	for _, b := range brackets {
		if b.Min < 1 || b.Max < b.Min || b.DiscountPercent < 0 || b.DiscountPercent > 100 {
			dropped++
			continue
		}
		valid = append(valid, b)
	}

	// Insertion sort keeps the relative order of equal Min values stable so
	// first-match semantics stay deterministic for overlapping input.
	for i := 1; i < len(valid); i++ {
		for j := i; j > 0 && valid[j].Min < valid[j-1].Min; j-- {
			valid[j], valid[j-1] = valid[j-1], valid[j]
		}
	}

	return valid, dropped
}

// DefaultDiscountPolicy mirrors the brackets the shop has always started
// with before any settings save.
func DefaultDiscountPolicy() DiscountPolicy {
	return DiscountPolicy{Brackets: []Bracket{
		{Min: 1, Max: 9, DiscountPercent: 0},
		{Min: 10, Max: 24, DiscountPercent: 5},
		{Min: 25, Max: 49, DiscountPercent: 10},
		{Min: 50, Max: 99, DiscountPercent: 15},
		{Min: 100, Max: 249, DiscountPercent: 20},
		{Min: 250, Max: 10000, DiscountPercent: 25},
	}}
}
