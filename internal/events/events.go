// Package events provides domain event definitions for decoupled
// communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"inkstitch_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quotes Domain Events
// =============================================================================

// QuoteSaved is published when a working quote session is persisted.
type QuoteSaved struct {
	BaseEvent
	QuoteID       uuid.UUID `json:"quoteId"`
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	LineItemCount int       `json:"lineItemCount"`
	TotalPrice    float64   `json:"totalPrice"`
}

func (e QuoteSaved) EventName() string { return "quotes.quote.saved" }

// QuoteSent is published when a quote is emailed to the customer with its
// public link.
type QuoteSent struct {
	BaseEvent
	QuoteID       uuid.UUID `json:"quoteId"`
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	PublicToken   string    `json:"publicToken"`
	TotalPrice    float64   `json:"totalPrice"`
	ValidUntil    time.Time `json:"validUntil"`
}

func (e QuoteSent) EventName() string { return "quotes.quote.sent" }

// QuoteViewed is published when the customer first opens the public quote link.
type QuoteViewed struct {
	BaseEvent
	QuoteID   uuid.UUID `json:"quoteId"`
	Reference string    `json:"reference"`
	ViewerIP  string    `json:"viewerIp"`
}

func (e QuoteViewed) EventName() string { return "quotes.quote.viewed" }

// =============================================================================
// Pricing Domain Events
// =============================================================================

// PricingPolicyChanged is published after a wholesale save of the discount
// brackets or the markup percentage. Sessions recalculate lazily on next
// touch, so subscribers only need this for audit logging.
type PricingPolicyChanged struct {
	BaseEvent
	ChangedBy      uuid.UUID `json:"changedBy"`
	BracketCount   int       `json:"bracketCount"`
	DroppedRows    int       `json:"droppedRows"`
	MarkupPercent  float64   `json:"markupPercent"`
	MarkupAffected bool      `json:"markupAffected"`
}

func (e PricingPolicyChanged) EventName() string { return "pricing.policy.changed" }

// =============================================================================
// Catalog Domain Events
// =============================================================================

// PriceListImported is published when a supplier price list import finishes.
type PriceListImported struct {
	BaseEvent
	JobID        uuid.UUID `json:"jobId"`
	FileName     string    `json:"fileName"`
	RowsImported int       `json:"rowsImported"`
	RowsSkipped  int       `json:"rowsSkipped"`
}

func (e PriceListImported) EventName() string { return "catalog.pricelist.imported" }

// PriceListImportFailed is published when an import job cannot complete.
type PriceListImportFailed struct {
	BaseEvent
	JobID    uuid.UUID `json:"jobId"`
	FileName string    `json:"fileName"`
	Reason   string    `json:"reason"`
}

func (e PriceListImportFailed) EventName() string { return "catalog.pricelist.import_failed" }
