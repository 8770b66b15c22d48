package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func testPolicy() DiscountPolicy {
	return DefaultDiscountPolicy()
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDiscountForQuantity(t *testing.T) {
	policy := testPolicy()

	cases := []struct {
		quantity int
		want     float64
	}{
		{1, 0},
		{9, 0},
		{10, 5},
		{24, 5},
		{25, 10},
		{49, 10},
		{50, 15},
		{100, 20},
		{250, 25},
		{10000, 25},
		{10001, 0},
		{0, 0},
		{-5, 0},
	}
	for _, tc := range cases {
		if got := policy.DiscountFor(tc.quantity); got != tc.want {
			t.Errorf("DiscountFor(%d) = %v, want %v", tc.quantity, got, tc.want)
		}
	}
}

func TestDiscountForQuantityEmptyPolicy(t *testing.T) {
	var policy DiscountPolicy
	if got := policy.DiscountFor(100); got != 0 {
		t.Fatalf("empty policy should yield 0, got %v", got)
	}
}

func TestDiscountMonotonicity(t *testing.T) {
	policy := testPolicy()
	prev := policy.DiscountFor(1)
	for q := 2; q <= 10000; q++ {
		cur := policy.DiscountFor(q)
		if cur < prev {
			t.Fatalf("discount decreased from %v to %v at quantity %d", prev, cur, q)
		}
		prev = cur
	}
}

func TestDiscountFirstMatchOnOverlap(t *testing.T) {
	policy := DiscountPolicy{Brackets: []Bracket{
		{Min: 1, Max: 50, DiscountPercent: 5},
		{Min: 10, Max: 100, DiscountPercent: 20},
	}}
	if got := policy.DiscountFor(30); got != 5 {
		t.Fatalf("overlapping brackets must resolve first-match, got %v", got)
	}
	if got := policy.DiscountFor(60); got != 20 {
		t.Fatalf("quantity past first bracket should reach second, got %v", got)
	}
}

func TestValidateBrackets(t *testing.T) {
	in := []Bracket{
		{Min: 50, Max: 99, DiscountPercent: 15},
		{Min: 0, Max: 9, DiscountPercent: 0},     // min below 1
		{Min: 25, Max: 10, DiscountPercent: 10},  // max below min
		{Min: 10, Max: 24, DiscountPercent: 120}, // discount out of range
		{Min: 1, Max: 9, DiscountPercent: 0},
		{Min: 10, Max: 24, DiscountPercent: 5},
	}
	valid, dropped := ValidateBrackets(in)
	if dropped != 3 {
		t.Fatalf("dropped = %d, want 3", dropped)
	}
	want := []Bracket{
		{Min: 1, Max: 9, DiscountPercent: 0},
		{Min: 10, Max: 24, DiscountPercent: 5},
		{Min: 50, Max: 99, DiscountPercent: 15},
	}
	if !reflect.DeepEqual(valid, want) {
		t.Fatalf("valid = %+v, want %+v", valid, want)
	}
}

func TestApplyMarkup(t *testing.T) {
	if got := ApplyMarkup(10.00, 50); !almostEqual(got, 15.00) {
		t.Fatalf("ApplyMarkup(10, 50) = %v, want 15", got)
	}
	if got := ApplyMarkup(8.40, 0); !almostEqual(got, 8.40) {
		t.Fatalf("zero markup must be identity, got %v", got)
	}
}

func TestPriceProductExampleScenario(t *testing.T) {
	e := New(testPolicy(), MarkupPolicy{Percentage: 50})

	got := e.PriceProduct(10.00, 30, nil, nil)
	if got.UnitPrice != 15.00 {
		t.Errorf("unit price = %v, want 15.00", got.UnitPrice)
	}
	if got.DiscountPercent != 10 {
		t.Errorf("discount = %v, want 10", got.DiscountPercent)
	}
	if got.TotalPrice != 405.00 {
		t.Errorf("total = %v, want 405.00", got.TotalPrice)
	}
}

func TestPriceProductGroupAggregation(t *testing.T) {
	e := New(testPolicy(), MarkupPolicy{Percentage: 50})
	existing := []LineItem{
		{
			ID: uuid.New(), Kind: KindProduct,
			Supplier: "Fruit of the Loom", ProductGroup: "Valueweight T",
			Quantity: 60, UnitPrice: 15.00,
		},
	}
	key := &GroupKey{Supplier: "Fruit of the Loom", ProductGroup: "Valueweight T"}

	// 60 existing + 40 new = 100, lands in the 20% bracket even though 40
	// alone would only earn 10%.
	got := e.PriceProduct(10.00, 40, key, existing)
	if got.DiscountPercent != 20 {
		t.Fatalf("aggregated discount = %v, want 20", got.DiscountPercent)
	}

	other := &GroupKey{Supplier: "Gildan", ProductGroup: "Heavy Cotton"}
	got = e.PriceProduct(10.00, 40, other, existing)
	if got.DiscountPercent != 10 {
		t.Fatalf("non-matching key must use own quantity, got %v", got.DiscountPercent)
	}
}

func TestPriceServiceExampleScenario(t *testing.T) {
	e := New(testPolicy(), MarkupPolicy{Percentage: 50})

	got := e.PriceService(5.00, 12)
	if got.UnitPrice != 5.00 {
		t.Errorf("service unit price = %v, want 5.00 regardless of markup", got.UnitPrice)
	}
	if got.MarkupPercent != 0 {
		t.Errorf("service markup = %v, want 0", got.MarkupPercent)
	}
	if got.DiscountPercent != 5 {
		t.Errorf("service discount = %v, want 5", got.DiscountPercent)
	}
	if got.TotalPrice != 57.00 {
		t.Errorf("service total = %v, want 57.00", got.TotalPrice)
	}
}

func TestGroupQuantityIgnoresServiceLines(t *testing.T) {
	key := GroupKey{Supplier: "Gildan", ProductGroup: "Softstyle"}
	items := []LineItem{
		{Kind: KindProduct, Supplier: "Gildan", ProductGroup: "Softstyle", Quantity: 30},
		{Kind: KindProduct, Supplier: "Gildan", ProductGroup: "Softstyle", Quantity: 20},
		{Kind: KindProduct, Supplier: "Gildan", ProductGroup: "Heavy Cotton", Quantity: 500},
		{Kind: KindService, Supplier: "Gildan", ProductGroup: "Softstyle", Quantity: 999},
	}
	if got := GroupQuantity(key, items); got != 50 {
		t.Fatalf("group quantity = %d, want 50", got)
	}
}

func TestRecalculateAllGroupDiscount(t *testing.T) {
	e := New(testPolicy(), MarkupPolicy{Percentage: 50})

	a := uuid.New()
	b := uuid.New()
	items := []LineItem{
		{
			ID: a, Kind: KindProduct,
			Supplier: "Stanley Stella", ProductGroup: "Creator",
			BasePrice: 10.00, Quantity: 60, UnitPrice: 15.00,
			MarkupPercent: 50, DiscountPercent: 15,
		},
		{
			ID: b, Kind: KindProduct,
			Supplier: "Stanley Stella", ProductGroup: "Creator",
			BasePrice: 10.00, Quantity: 40, UnitPrice: 15.00,
			MarkupPercent: 50, DiscountPercent: 10,
		},
	}

	out := e.RecalculateAll(items)

	// Combined group quantity is 100, so both lines move to the 20% tier.
	for i, item := range out {
		if item.DiscountPercent != 20 {
			t.Errorf("item %d discount = %v, want 20", i, item.DiscountPercent)
		}
	}
	if out[0].ID != a || out[1].ID != b {
		t.Error("recalculation must preserve line item IDs")
	}
	if out[0].ProductTotalPrice != 720.00 {
		t.Errorf("item 0 product total = %v, want 720.00", out[0].ProductTotalPrice)
	}
	if out[1].ProductTotalPrice != 480.00 {
		t.Errorf("item 1 product total = %v, want 480.00", out[1].ProductTotalPrice)
	}

	// Input must not be mutated.
	if items[0].DiscountPercent != 15 || items[1].DiscountPercent != 10 {
		t.Error("RecalculateAll mutated its input")
	}
}

func TestRecalculateAllIdempotent(t *testing.T) {
	e := New(testPolicy(), MarkupPolicy{Percentage: 40})

	items := []LineItem{
		{
			ID: uuid.New(), Kind: KindProduct,
			Supplier: "Gildan", ProductGroup: "Softstyle",
			BasePrice: 7.25, Quantity: 35, UnitPrice: 10.15, MarkupPercent: 40,
			Printing: &ServiceCharge{ServiceID: "p1", ServiceName: "DTF A4", UnitPrice: 4.50, TotalPrice: 141.75},
		},
		{
			ID: uuid.New(), Kind: KindService,
			ServiceID: "e1", ServiceName: "Chest logo", ServiceType: "embroidery",
			BasePrice: 6.00, Quantity: 12, UnitPrice: 6.00,
			DiscountPercent: 5, TotalPrice: 68.40,
		},
	}

	once := e.RecalculateAll(items)
	twice := e.RecalculateAll(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("recalculation drift:\nfirst  %+v\nsecond %+v", once, twice)
	}
}

func TestRecalculateAllServiceLinesPassThrough(t *testing.T) {
	e := New(testPolicy(), MarkupPolicy{Percentage: 50})

	svc := LineItem{
		ID: uuid.New(), Kind: KindService,
		ServiceID: "s9", ServiceName: "Back print", ServiceType: "printing",
		BasePrice: 5.00, Quantity: 12, UnitPrice: 5.00,
		DiscountPercent: 5, TotalPrice: 57.00,
	}
	out := e.RecalculateAll([]LineItem{svc})
	if !reflect.DeepEqual(out[0], svc) {
		t.Fatalf("service line changed by recalculation: %+v", out[0])
	}
}

func TestRecalculateAllIncludesAttachedServices(t *testing.T) {
	e := New(testPolicy(), MarkupPolicy{Percentage: 0})

	items := []LineItem{{
		ID: uuid.New(), Kind: KindProduct,
		Supplier: "Gildan", ProductGroup: "Softstyle",
		BasePrice: 10.00, Quantity: 10, UnitPrice: 10.00,
		Printing:   &ServiceCharge{ServiceID: "p1", UnitPrice: 3.00, TotalPrice: 28.50},
		Embroidery: &ServiceCharge{ServiceID: "e1", UnitPrice: 6.00, TotalPrice: 57.00},
	}}

	out := e.RecalculateAll(items)
	if out[0].DiscountPercent != 5 {
		t.Fatalf("discount = %v, want 5", out[0].DiscountPercent)
	}
	if out[0].ProductTotalPrice != 95.00 {
		t.Fatalf("product total = %v, want 95.00", out[0].ProductTotalPrice)
	}
	if out[0].TotalPrice != 180.50 {
		t.Fatalf("line total = %v, want 180.50", out[0].TotalPrice)
	}
}

func TestQuoteTotal(t *testing.T) {
	items := []LineItem{
		{TotalPrice: 405.00},
		{TotalPrice: 57.00},
		{TotalPrice: 0.01},
	}
	if got := QuoteTotal(items); got != 462.01 {
		t.Fatalf("quote total = %v, want 462.01", got)
	}
	if got := QuoteTotal(nil); got != 0 {
		t.Fatalf("empty quote total = %v, want 0", got)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.006, 1.01},
		{2.674, 2.67},
		{-1.006, -1.01},
		{16.666666, 16.67},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
