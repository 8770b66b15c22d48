package transport

import "github.com/google/uuid"

// ListProductsRequest carries catalog search filters as query parameters.
type ListProductsRequest struct {
	Supplier     string `form:"supplier"`
	ProductGroup string `form:"productGroup"`
	Category     string `form:"category"`
	Colour       string `form:"colour"`
	Size         string `form:"size"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// ProductResponse represents a product variant in API responses.
type ProductResponse struct {
	ID           uuid.UUID `json:"id"`
	StyleNo      string    `json:"styleNo"`
	Supplier     string    `json:"supplier"`
	ProductGroup string    `json:"productGroup"`
	Category     string    `json:"category"`
	ProductName  string    `json:"productName"`
	SizeRange    string    `json:"sizeRange"`
	ColourName   string    `json:"colourName"`
	ColourCode   string    `json:"colourCode"`
	BasePrice    float64   `json:"basePrice"`
}

// ProductListResponse wraps a filtered page of products.
type ProductListResponse struct {
	Items    []ProductResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// FilterOptionsResponse supplies the distinct values for search dropdowns.
type FilterOptionsResponse struct {
	Suppliers     []string `json:"suppliers"`
	ProductGroups []string `json:"productGroups"`
	Categories    []string `json:"categories"`
	Colours       []string `json:"colours"`
	Sizes         []string `json:"sizes"`
}

// ImportRow is one parsed price list row submitted for import.
type ImportRow struct {
	StyleNo      string  `json:"styleNo"`
	Supplier     string  `json:"supplier" validate:"required"`
	ProductGroup string  `json:"productGroup" validate:"required"`
	Category     string  `json:"category"`
	ProductName  string  `json:"productName" validate:"required"`
	SizeRange    string  `json:"sizeRange"`
	ColourName   string  `json:"colourName"`
	ColourCode   string  `json:"colourCode"`
	BasePrice    float64 `json:"basePrice" validate:"min=0"`
}

// ImportResult reports the outcome of a catalog import.
type ImportResult struct {
	RowsImported int `json:"rowsImported"`
	RowsSkipped  int `json:"rowsSkipped"`
}
