package repository

import "context"

// BracketRow is a persisted discount bracket. Position preserves the saved
// order so first-match lookup stays deterministic.
type BracketRow struct {
	Position        int     `db:"position"`
	Min             int     `db:"min_quantity"`
	Max             int     `db:"max_quantity"`
	DiscountPercent float64 `db:"discount_percent"`
}

// PolicyReader provides read access to the pricing policy.
type PolicyReader interface {
	GetBrackets(ctx context.Context) ([]BracketRow, error)
	GetMarkup(ctx context.Context) (float64, error)
}

// PolicyWriter provides wholesale replacement of the pricing policy.
type PolicyWriter interface {
	ReplaceBrackets(ctx context.Context, rows []BracketRow) error
	SetMarkup(ctx context.Context, percentage float64) error
}

// Repository combines all pricing policy operations.
type Repository interface {
	PolicyReader
	PolicyWriter
}
