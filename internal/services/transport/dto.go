package transport

// Decoration service kinds.
const (
	KindPrinting   = "printing"
	KindEmbroidery = "embroidery"
)

// UpsertServiceRequest creates or replaces a decoration service. The total
// cost is always recomputed from the breakdown server-side.
type UpsertServiceRequest struct {
	ID            string             `json:"id" validate:"required,min=1,max=100"`
	Kind          string             `json:"kind" validate:"required,oneof=printing embroidery"`
	Name          string             `json:"name" validate:"required,min=1,max=200"`
	Price         float64            `json:"price" validate:"min=0"`
	CostBreakdown map[string]float64 `json:"costBreakdown" validate:"required"`
}

// ServiceResponse represents a decoration service in API responses.
type ServiceResponse struct {
	ID            string             `json:"id"`
	Kind          string             `json:"kind"`
	Name          string             `json:"name"`
	Price         float64            `json:"price"`
	CostBreakdown map[string]float64 `json:"costBreakdown"`
	TotalCost     float64            `json:"totalCost"`
	CreatedAt     string             `json:"createdAt"`
	UpdatedAt     string             `json:"updatedAt"`
}

// ServiceListResponse wraps a list of decoration services.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int               `json:"total"`
}
