package repository

import "context"

// ServiceRecord is a decoration service offered by the shop. IDs are stable
// slugs such as "print_1_small" so saved quotes keep resolving after edits.
type ServiceRecord struct {
	ID            string             `db:"id"`
	Kind          string             `db:"kind"` // printing | embroidery
	Name          string             `db:"name"`
	Price         float64            `db:"price"`
	CostBreakdown map[string]float64 `db:"cost_breakdown"`
	TotalCost     float64            `db:"total_cost"`
	CreatedAt     string             `db:"created_at"`
	UpdatedAt     string             `db:"updated_at"`
}

// UpsertParams contains parameters for creating or replacing a service.
// TotalCost is derived from the breakdown by the service layer, never taken
// from the caller.
type UpsertParams struct {
	ID            string
	Kind          string
	Name          string
	Price         float64
	CostBreakdown map[string]float64
	TotalCost     float64
}

// Reader provides read operations for decoration services.
type Reader interface {
	GetByID(ctx context.Context, id string) (ServiceRecord, error)
	List(ctx context.Context, kind string) ([]ServiceRecord, error)
}

// Writer provides write operations for decoration services.
type Writer interface {
	Upsert(ctx context.Context, params UpsertParams) (ServiceRecord, error)
	Delete(ctx context.Context, id string) error
}

// Repository combines all decoration service operations.
type Repository interface {
	Reader
	Writer
}
