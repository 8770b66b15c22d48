package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkstitch_backend/internal/pricing/engine"
)

// Quote statuses. A quote moves draft -> sent -> viewed and never back.
const (
	StatusDraft  = "draft"
	StatusSent   = "sent"
	StatusViewed = "viewed"
)

// Quote is a persisted quote with its priced line items.
type Quote struct {
	ID            uuid.UUID
	Reference     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	Terms         []string
	VATRegistered bool
	VATRate       float64
	Status        string
	TotalPrice    float64
	ValidUntil    time.Time
	PublicToken   *string
	SentAt        *time.Time
	ViewedAt      *time.Time
	CreatedBy     uuid.UUID
	Items         []engine.LineItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Summary is a quote without its line items, used for listings.
type Summary struct {
	ID            uuid.UUID
	Reference     string
	CustomerName  string
	CustomerEmail string
	Status        string
	TotalPrice    float64
	ValidUntil    time.Time
	LineItemCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListFilters narrows a quote listing.
type ListFilters struct {
	Status string
	Limit  int
	Offset int
}

// Reader provides read operations for saved quotes.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Quote, error)
	GetByPublicToken(ctx context.Context, token string) (Quote, error)
	List(ctx context.Context, filters ListFilters) ([]Summary, int, error)
}

// Writer provides write operations for saved quotes.
type Writer interface {
	Save(ctx context.Context, quote Quote) error
	MarkSent(ctx context.Context, id uuid.UUID, token string, validUntil time.Time) error
	MarkViewed(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all saved quote operations.
type Repository interface {
	Reader
	Writer
}
