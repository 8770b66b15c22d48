// Package notification provides event handlers for sending notifications in
// response to domain events. Domain modules publish events and never touch
// email providers or templates directly.
package notification

import (
	"context"
	"fmt"
	"strings"

	"inkstitch_backend/internal/email"
	"inkstitch_backend/internal/events"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/logger"
)

// Module wires domain events to outgoing notifications.
type Module struct {
	sender email.Sender
	links  config.PublicLinkConfig
	log    *logger.Logger
}

// New creates the notification module.
func New(sender email.Sender, links config.PublicLinkConfig, log *logger.Logger) *Module {
	return &Module{sender: sender, links: links, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuoteSent{}.EventName(), events.HandlerFunc(m.handleQuoteSent))
	bus.Subscribe(events.QuoteSaved{}.EventName(), events.HandlerFunc(m.handleQuoteSaved))
	bus.Subscribe(events.QuoteViewed{}.EventName(), events.HandlerFunc(m.handleQuoteViewed))
	bus.Subscribe(events.PriceListImported{}.EventName(), events.HandlerFunc(m.handlePriceListImported))
	bus.Subscribe(events.PriceListImportFailed{}.EventName(), events.HandlerFunc(m.handlePriceListImportFailed))
	bus.Subscribe(events.PricingPolicyChanged{}.EventName(), events.HandlerFunc(m.handlePricingPolicyChanged))
}

func (m *Module) handleQuoteSent(ctx context.Context, event events.Event) error {
	sent, ok := event.(events.QuoteSent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	quoteURL := strings.TrimRight(m.links.GetAppBaseURL(), "/") + "/quotes/view/" + sent.PublicToken
	err := m.sender.SendQuoteEmail(ctx, sent.CustomerEmail, email.QuoteEmailData{
		CustomerName: sent.CustomerName,
		Reference:    sent.Reference,
		TotalPrice:   sent.TotalPrice,
		ValidUntil:   sent.ValidUntil.Format("2 January 2006"),
		QuoteURL:     quoteURL,
	})
	if err != nil {
		m.log.Error("failed to email quote", "quote_id", sent.QuoteID, "reference", sent.Reference, "error", err)
		return err
	}

	m.log.Info("quote emailed", "quote_id", sent.QuoteID, "reference", sent.Reference)
	return nil
}

func (m *Module) handleQuoteSaved(ctx context.Context, event events.Event) error {
	saved, ok := event.(events.QuoteSaved)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.log.Info("quote saved",
		"quote_id", saved.QuoteID,
		"reference", saved.Reference,
		"customer", saved.CustomerName,
		"line_items", saved.LineItemCount,
		"total", saved.TotalPrice)
	return nil
}

func (m *Module) handleQuoteViewed(ctx context.Context, event events.Event) error {
	viewed, ok := event.(events.QuoteViewed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.log.Info("quote viewed by customer",
		"quote_id", viewed.QuoteID,
		"reference", viewed.Reference,
		"viewer_ip", viewed.ViewerIP)
	return nil
}

func (m *Module) handlePriceListImported(ctx context.Context, event events.Event) error {
	imported, ok := event.(events.PriceListImported)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.log.Info("price list imported",
		"job_id", imported.JobID,
		"file", imported.FileName,
		"rows_imported", imported.RowsImported,
		"rows_skipped", imported.RowsSkipped)
	return nil
}

func (m *Module) handlePriceListImportFailed(ctx context.Context, event events.Event) error {
	failed, ok := event.(events.PriceListImportFailed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.log.Error("price list import failed",
		"job_id", failed.JobID,
		"file", failed.FileName,
		"reason", failed.Reason)
	return nil
}

func (m *Module) handlePricingPolicyChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(events.PricingPolicyChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.log.Info("pricing policy changed",
		"changed_by", changed.ChangedBy,
		"bracket_count", changed.BracketCount,
		"dropped_rows", changed.DroppedRows,
		"markup_affected", changed.MarkupAffected)
	return nil
}
