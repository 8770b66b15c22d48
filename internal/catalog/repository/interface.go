package repository

import (
	"context"

	"github.com/google/uuid"
)

// Product is one supplier price list row: a product variant with its base
// unit price. Supplier and ProductGroup double as the bulk-discount group key.
type Product struct {
	ID           uuid.UUID `db:"id"`
	StyleNo      string    `db:"style_no"`
	Supplier     string    `db:"supplier"`
	ProductGroup string    `db:"product_group"`
	Category     string    `db:"category"`
	ProductName  string    `db:"product_name"`
	SizeRange    string    `db:"size_range"`
	ColourName   string    `db:"colour_name"`
	ColourCode   string    `db:"colour_code"`
	BasePrice    float64   `db:"base_price"`
}

// ListFilters narrows a product search. Zero values mean no filtering.
type ListFilters struct {
	Supplier     string
	ProductGroup string
	Category     string
	Colour       string
	Size         string
	Search       string
	Limit        int
	Offset       int
}

// FilterColumn names a column whose distinct values feed filter dropdowns.
type FilterColumn string

const (
	ColumnSupplier     FilterColumn = "supplier"
	ColumnProductGroup FilterColumn = "product_group"
	ColumnCategory     FilterColumn = "category"
	ColumnColourName   FilterColumn = "colour_name"
	ColumnSizeRange    FilterColumn = "size_range"
)

// Reader provides read operations over the product catalog.
type Reader interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	DistinctValues(ctx context.Context, column FilterColumn) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// Writer provides the wholesale import path. The catalog has no row-level
// mutation; a new price list always replaces the previous one entirely.
type Writer interface {
	ReplaceAll(ctx context.Context, products []Product) error
}

// Repository combines catalog read and import operations.
type Repository interface {
	Reader
	Writer
}
