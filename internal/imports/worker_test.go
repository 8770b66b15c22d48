package imports

import (
	"strings"
	"testing"
)

func TestParsePriceListCSV(t *testing.T) {
	input := strings.Join([]string{
		"Style No,Supplier,Product Group,Category,Product Name,Size Range,Colour Name,Colour Code,Base Price",
		"STTU755,Stanley Stella,Creator,T-Shirts,Creator T-Shirt,XS-3XL,Black,C002,10.50",
		"STTU755,Stanley Stella,Creator,T-Shirts,Creator T-Shirt,XS-3XL,White,C001,10.50",
	}, "\n")

	rows, err := ParsePriceListCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePriceListCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	first := rows[0]
	if first.StyleNo != "STTU755" {
		t.Errorf("style no = %q", first.StyleNo)
	}
	if first.Supplier != "Stanley Stella" || first.ProductGroup != "Creator" {
		t.Errorf("group key = %q/%q", first.Supplier, first.ProductGroup)
	}
	if first.BasePrice != 10.50 {
		t.Errorf("base price = %v, want 10.50", first.BasePrice)
	}
	if rows[1].ColourName != "White" {
		t.Errorf("second colour = %q, want White", rows[1].ColourName)
	}
}

func TestParsePriceListCSVHeaderVariants(t *testing.T) {
	input := "supplier,product_group,product_name,price\nFruit of the Loom,Valueweight,Valueweight T,3.20\n"

	rows, err := ParsePriceListCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePriceListCSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].BasePrice != 3.20 {
		t.Errorf("base price = %v, want 3.20", rows[0].BasePrice)
	}
}

func TestParsePriceListCSVMissingPriceColumn(t *testing.T) {
	input := "supplier,product_name\nStanley Stella,Creator T-Shirt\n"

	if _, err := ParsePriceListCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing price column")
	}
}

func TestParsePriceListCSVBadPriceMarkedForSkip(t *testing.T) {
	input := "supplier,product_group,product_name,base_price\nStanley Stella,Creator,Creator T-Shirt,not-a-number\n"

	rows, err := ParsePriceListCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePriceListCSV: %v", err)
	}
	if rows[0].BasePrice >= 0 {
		t.Errorf("bad price should map to a negative sentinel, got %v", rows[0].BasePrice)
	}
}
