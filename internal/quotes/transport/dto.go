// Package transport contains request and response DTOs for the quotes module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"inkstitch_backend/internal/costs/calculator"
	"inkstitch_backend/internal/pricing/engine"
)

// AddProductLineRequest adds a garment line to the working quote. The
// optional service IDs attach per-garment printing and embroidery charges.
type AddProductLineRequest struct {
	ProductID           uuid.UUID `json:"productId" validate:"required"`
	Quantity            int       `json:"quantity" validate:"required,min=1"`
	PrintingServiceID   string    `json:"printingServiceId"`
	EmbroideryServiceID string    `json:"embroideryServiceId"`
}

// AddServiceLineRequest adds a standalone decoration service line, for
// decorating garments the customer supplies themselves.
type AddServiceLineRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// UpdateLineRequest changes the quantity of an existing line.
type UpdateLineRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// SetCustomerRequest fills in the quote header on the working quote. The
// VAT rate only applies while the registered flag is set; Terms replaces
// the default terms when provided.
type SetCustomerRequest struct {
	CustomerName  string   `json:"customerName" validate:"required,max=200"`
	CustomerEmail string   `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string   `json:"customerPhone" validate:"omitempty,max=50"`
	Notes         string   `json:"notes" validate:"omitempty,max=2000"`
	Terms         []string `json:"terms" validate:"omitempty,dive,max=500"`
	VATRegistered bool     `json:"vatRegistered"`
	VATRate       float64  `json:"vatRate" validate:"omitempty,min=0,max=100"`
}

// WorkingQuoteResponse is the current state of the draft being built.
// TotalPrice is the subtotal plus VAT when the customer is VAT registered.
type WorkingQuoteResponse struct {
	Reference     string            `json:"reference"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerPhone string            `json:"customerPhone"`
	Notes         string            `json:"notes"`
	Terms         []string          `json:"terms"`
	VATRegistered bool              `json:"vatRegistered"`
	VATRate       float64           `json:"vatRate"`
	ValidUntil    time.Time         `json:"validUntil"`
	Items         []engine.LineItem `json:"items"`
	Subtotal      float64           `json:"subtotal"`
	VATAmount     float64           `json:"vatAmount"`
	TotalPrice    float64           `json:"totalPrice"`
}

// QuoteResponse is a saved quote.
type QuoteResponse struct {
	ID            uuid.UUID         `json:"id"`
	Reference     string            `json:"reference"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerPhone string            `json:"customerPhone"`
	Notes         string            `json:"notes"`
	Terms         []string          `json:"terms"`
	VATRegistered bool              `json:"vatRegistered"`
	VATRate       float64           `json:"vatRate"`
	Status        string            `json:"status"`
	Subtotal      float64           `json:"subtotal"`
	VATAmount     float64           `json:"vatAmount"`
	TotalPrice    float64           `json:"totalPrice"`
	ValidUntil    time.Time         `json:"validUntil"`
	PublicURL     string            `json:"publicUrl,omitempty"`
	SentAt        *time.Time        `json:"sentAt,omitempty"`
	ViewedAt      *time.Time        `json:"viewedAt,omitempty"`
	Items         []engine.LineItem `json:"items"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// QuoteSummaryResponse is one row in a quote listing.
type QuoteSummaryResponse struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Status        string    `json:"status"`
	TotalPrice    float64   `json:"totalPrice"`
	ValidUntil    time.Time `json:"validUntil"`
	LineItemCount int       `json:"lineItemCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ListQuotesRequest pages through saved quotes.
type ListQuotesRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=draft sent viewed"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// QuoteListResponse is a page of saved quotes.
type QuoteListResponse struct {
	Items    []QuoteSummaryResponse `json:"items"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

// SendQuoteRequest emails the quote to the customer. Email overrides the
// address stored on the quote when set.
type SendQuoteRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// PublicQuoteResponse is the customer-facing view of a sent quote. It
// carries no cost, margin or internal data.
type PublicQuoteResponse struct {
	Reference    string            `json:"reference"`
	CustomerName string            `json:"customerName"`
	Notes        string            `json:"notes"`
	Terms        []string          `json:"terms"`
	Subtotal     float64           `json:"subtotal"`
	VATRate      float64           `json:"vatRate"`
	VATAmount    float64           `json:"vatAmount"`
	TotalPrice   float64           `json:"totalPrice"`
	ValidUntil   time.Time         `json:"validUntil"`
	Expired      bool              `json:"expired"`
	Items        []engine.LineItem `json:"items"`
}

// ProfitResponse is the cost and profit breakdown of a saved quote.
type ProfitResponse = calculator.QuoteProfit
