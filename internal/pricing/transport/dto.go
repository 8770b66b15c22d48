package transport

// BracketDTO is a single discount bracket in API requests and responses.
type BracketDTO struct {
	Min             int     `json:"min" validate:"required,min=1"`
	Max             int     `json:"max" validate:"required,min=1"`
	DiscountPercent float64 `json:"discountPercent" validate:"min=0,max=100"`
}

// SaveDiscountPolicyRequest replaces the whole bracket table.
type SaveDiscountPolicyRequest struct {
	Brackets []BracketDTO `json:"brackets" validate:"required,dive"`
}

// DiscountPolicyResponse returns the persisted brackets. DroppedRows reports
// how many submitted rows were rejected on the last save.
type DiscountPolicyResponse struct {
	Brackets    []BracketDTO `json:"brackets"`
	DroppedRows int          `json:"droppedRows,omitempty"`
}

// SaveMarkupRequest replaces the global markup percentage.
type SaveMarkupRequest struct {
	Percentage float64 `json:"percentage" validate:"min=0"`
}

// MarkupResponse returns the persisted markup percentage.
type MarkupResponse struct {
	Percentage float64 `json:"percentage"`
}

// PreviewProductRequest prices a candidate product line before it is added
// to a quote. ExistingGroupQuantity carries the summed quantity of lines
// already in the working quote sharing the same supplier and product group.
type PreviewProductRequest struct {
	BasePrice             float64 `json:"basePrice" validate:"min=0"`
	Quantity              int     `json:"quantity" validate:"required,min=1"`
	Supplier              string  `json:"supplier,omitempty"`
	ProductGroup          string  `json:"productGroup,omitempty"`
	ExistingGroupQuantity int     `json:"existingGroupQuantity,omitempty" validate:"min=0"`
}

// PreviewServiceRequest prices a standalone decoration service.
type PreviewServiceRequest struct {
	Price    float64 `json:"price" validate:"min=0"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
}

// PreviewResponse is the priced outcome of a preview request.
type PreviewResponse struct {
	BasePrice       float64 `json:"basePrice"`
	UnitPrice       float64 `json:"unitPrice"`
	MarkupPercent   float64 `json:"markupPercent"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discountPercent"`
	TotalPrice      float64 `json:"totalPrice"`
}
