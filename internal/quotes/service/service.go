// Package service implements the quote building workflow: a redis-backed
// working quote per user, persistence to postgres on save, and the customer
// facing send, view and QR code operations.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"inkstitch_backend/internal/costs/calculator"
	"inkstitch_backend/internal/events"
	"inkstitch_backend/internal/pricing/engine"
	"inkstitch_backend/internal/quotes/repository"
	"inkstitch_backend/internal/quotes/session"
	"inkstitch_backend/internal/quotes/transport"
	"inkstitch_backend/platform/apperr"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/logger"

	catalogtransport "inkstitch_backend/internal/catalog/transport"
	servicestransport "inkstitch_backend/internal/services/transport"
)

// Quotes stay valid for 30 days unless the header says otherwise.
const defaultValidity = 30 * 24 * time.Hour

// Standard terms preselected on every new quote. The header endpoint can
// replace them per quote.
var defaultTerms = []string{
	"Please note that due to current supply price changes, we can only guarantee our quotations for 30 days from the above-mentioned date, after this, our quote may change.",
	"The client acknowledges that the seller cannot be held responsible for replacing or repairing items supplied by the client that may be damaged during the embroidery or print process.",
}

// EngineProvider builds a pricing engine from the current discount and
// markup policies.
type EngineProvider interface {
	Engine(ctx context.Context) (*engine.Engine, error)
}

// ProductCatalog resolves garment products added to a quote.
type ProductCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (catalogtransport.ProductResponse, error)
}

// DecorationServices resolves printing and embroidery services added to a
// quote, attached or standalone.
type DecorationServices interface {
	GetByID(ctx context.Context, id string) (servicestransport.ServiceResponse, error)
}

// ProfitCalculator computes cost and profit for a priced quote.
type ProfitCalculator interface {
	QuoteProfit(ctx context.Context, items []engine.LineItem) calculator.QuoteProfit
}

// Service orchestrates quote sessions and saved quotes.
type Service struct {
	sessions *session.Store
	repo     repository.Repository
	pricing  EngineProvider
	catalog  ProductCatalog
	services DecorationServices
	profit   ProfitCalculator
	bus      events.Bus
	links    config.PublicLinkConfig
	log      *logger.Logger
}

// New creates a new quotes service.
func New(
	sessions *session.Store,
	repo repository.Repository,
	pricing EngineProvider,
	catalog ProductCatalog,
	services DecorationServices,
	profit ProfitCalculator,
	bus events.Bus,
	links config.PublicLinkConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		repo:     repo,
		pricing:  pricing,
		catalog:  catalog,
		services: services,
		profit:   profit,
		bus:      bus,
		links:    links,
		log:      log,
	}
}

// =============================================================================
// Working quote (session)
// =============================================================================

// Working returns the user's current working quote, creating an empty one
// when none exists.
func (s *Service) Working(ctx context.Context, userID uuid.UUID) (transport.WorkingQuoteResponse, error) {
	state, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}
	return toWorkingResponse(state), nil
}

// AddProductLine adds a garment line to the working quote and reprices every
// product line so bulk discounts reflect the new combined quantities.
func (s *Service) AddProductLine(ctx context.Context, userID uuid.UUID, req transport.AddProductLineRequest) (transport.WorkingQuoteResponse, error) {
	state, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	eng, err := s.pricing.Engine(ctx)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	// The product and the attached services live in different tables, so
	// fetch them concurrently.
	var (
		product    catalogtransport.ProductResponse
		printing   *engine.ServiceCharge
		embroidery *engine.ServiceCharge
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.catalog.GetByID(gctx, req.ProductID)
		return err
	})
	if req.PrintingServiceID != "" {
		g.Go(func() error {
			var err error
			printing, err = s.attachedCharge(gctx, eng, req.PrintingServiceID, servicestransport.KindPrinting, req.Quantity)
			return err
		})
	}
	if req.EmbroideryServiceID != "" {
		g.Go(func() error {
			var err error
			embroidery, err = s.attachedCharge(gctx, eng, req.EmbroideryServiceID, servicestransport.KindEmbroidery, req.Quantity)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	item := engine.LineItem{
		ID:            uuid.New(),
		Kind:          engine.KindProduct,
		Supplier:      product.Supplier,
		ProductGroup:  product.ProductGroup,
		ProductName:   product.ProductName,
		SizeRange:     product.SizeRange,
		ColourName:    product.ColourName,
		ColourCode:    product.ColourCode,
		BasePrice:     product.BasePrice,
		Quantity:      req.Quantity,
		MarkupPercent: eng.MarkupPolicy().Percentage,
		UnitPrice:     engine.Round2(engine.ApplyMarkup(product.BasePrice, eng.MarkupPolicy().Percentage)),
	}

	item.Printing = printing
	item.Embroidery = embroidery

	state.Items = eng.RecalculateAll(append(state.Items, item))
	return s.storeAndRespond(ctx, userID, state)
}

// AddServiceLine adds a standalone decoration line. Its discount depends on
// its own quantity only, so other lines are unaffected.
func (s *Service) AddServiceLine(ctx context.Context, userID uuid.UUID, req transport.AddServiceLineRequest) (transport.WorkingQuoteResponse, error) {
	state, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	eng, err := s.pricing.Engine(ctx)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	state.Items = eng.RecalculateAll(append(state.Items, serviceLine(eng, svc, req.Quantity)))
	return s.storeAndRespond(ctx, userID, state)
}

// UpdateLine changes a line's quantity and reprices the quote.
func (s *Service) UpdateLine(ctx context.Context, userID uuid.UUID, lineID uuid.UUID, req transport.UpdateLineRequest) (transport.WorkingQuoteResponse, error) {
	state, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	idx := indexOfLine(state.Items, lineID)
	if idx < 0 {
		return transport.WorkingQuoteResponse{}, apperr.NotFound("line item not found")
	}

	eng, err := s.pricing.Engine(ctx)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	item := &state.Items[idx]
	item.Quantity = req.Quantity

	switch item.Kind {
	case engine.KindProduct:
		// Attached charges follow the garment quantity into its bracket.
		rescaleCharge(eng, item.Printing, req.Quantity)
		rescaleCharge(eng, item.Embroidery, req.Quantity)
	case engine.KindService:
		result := eng.PriceService(item.BasePrice, req.Quantity)
		item.DiscountPercent = result.DiscountPercent
		item.ProductTotalPrice = result.TotalPrice
		item.TotalPrice = result.TotalPrice
	}

	state.Items = eng.RecalculateAll(state.Items)
	return s.storeAndRespond(ctx, userID, state)
}

// RemoveLine deletes a line and reprices the remaining ones.
func (s *Service) RemoveLine(ctx context.Context, userID uuid.UUID, lineID uuid.UUID) (transport.WorkingQuoteResponse, error) {
	state, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	idx := indexOfLine(state.Items, lineID)
	if idx < 0 {
		return transport.WorkingQuoteResponse{}, apperr.NotFound("line item not found")
	}

	eng, err := s.pricing.Engine(ctx)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	state.Items = eng.RecalculateAll(append(state.Items[:idx], state.Items[idx+1:]...))
	return s.storeAndRespond(ctx, userID, state)
}

// SetCustomer fills in the quote header on the working quote.
func (s *Service) SetCustomer(ctx context.Context, userID uuid.UUID, req transport.SetCustomerRequest) (transport.WorkingQuoteResponse, error) {
	state, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return transport.WorkingQuoteResponse{}, err
	}

	state.CustomerName = req.CustomerName
	state.CustomerEmail = req.CustomerEmail
	state.CustomerPhone = req.CustomerPhone
	state.Notes = req.Notes
	if req.Terms != nil {
		state.Terms = req.Terms
	}
	state.VATRegistered = req.VATRegistered
	state.VATRate = req.VATRate
	if !state.VATRegistered {
		state.VATRate = 0
	}
	return s.storeAndRespond(ctx, userID, state)
}

// Clear discards the working quote entirely.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.Delete(ctx, userID)
}

// SaveWorking persists the working quote. Re-saving after edits overwrites
// the previously saved quote rather than creating a new one.
func (s *Service) SaveWorking(ctx context.Context, userID uuid.UUID) (transport.QuoteResponse, error) {
	state, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return transport.QuoteResponse{}, apperr.BadRequest("no working quote to save")
	}
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	if len(state.Items) == 0 {
		return transport.QuoteResponse{}, apperr.Validation("cannot save an empty quote")
	}
	if strings.TrimSpace(state.CustomerName) == "" {
		return transport.QuoteResponse{}, apperr.Validation("customer name is required before saving")
	}

	if state.QuoteID == uuid.Nil {
		state.QuoteID = uuid.New()
	}

	subtotal := engine.QuoteTotal(state.Items)
	vat := vatAmount(subtotal, state.VATRegistered, state.VATRate)

	quote := repository.Quote{
		ID:            state.QuoteID,
		Reference:     state.Reference,
		CustomerName:  state.CustomerName,
		CustomerEmail: state.CustomerEmail,
		CustomerPhone: state.CustomerPhone,
		Notes:         state.Notes,
		Terms:         state.Terms,
		VATRegistered: state.VATRegistered,
		VATRate:       state.VATRate,
		Status:        repository.StatusDraft,
		TotalPrice:    engine.Round2(subtotal + vat),
		ValidUntil:    state.ValidUntil,
		CreatedBy:     userID,
		Items:         state.Items,
	}

	if err := s.repo.Save(ctx, quote); err != nil {
		return transport.QuoteResponse{}, err
	}
	if err := s.sessions.Put(ctx, userID, state); err != nil {
		return transport.QuoteResponse{}, err
	}

	s.bus.Publish(ctx, events.QuoteSaved{
		BaseEvent:     events.NewBaseEvent(),
		QuoteID:       quote.ID,
		Reference:     quote.Reference,
		CustomerName:  quote.CustomerName,
		CustomerEmail: quote.CustomerEmail,
		LineItemCount: len(quote.Items),
		TotalPrice:    quote.TotalPrice,
	})

	saved, err := s.repo.GetByID(ctx, quote.ID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return s.toQuoteResponse(saved), nil
}

// =============================================================================
// Saved quotes
// =============================================================================

// Get retrieves a saved quote.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return s.toQuoteResponse(quote), nil
}

// List pages through saved quotes, newest first.
func (s *Service) List(ctx context.Context, req transport.ListQuotesRequest) (transport.QuoteListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	if pageSize > 200 {
		pageSize = 200
	}

	summaries, total, err := s.repo.List(ctx, repository.ListFilters{
		Status: req.Status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.QuoteListResponse{}, err
	}

	items := make([]transport.QuoteSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		items = append(items, transport.QuoteSummaryResponse{
			ID:            sum.ID,
			Reference:     sum.Reference,
			CustomerName:  sum.CustomerName,
			CustomerEmail: sum.CustomerEmail,
			Status:        sum.Status,
			TotalPrice:    sum.TotalPrice,
			ValidUntil:    sum.ValidUntil,
			LineItemCount: sum.LineItemCount,
			CreatedAt:     sum.CreatedAt,
			UpdatedAt:     sum.UpdatedAt,
		})
	}

	return transport.QuoteListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Delete removes a saved quote.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Send generates the public link token, marks the quote sent and publishes
// the event the notification module emails from.
func (s *Service) Send(ctx context.Context, id uuid.UUID, req transport.SendQuoteRequest) (transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	email := req.Email
	if email == "" {
		email = quote.CustomerEmail
	}
	if email == "" {
		return transport.QuoteResponse{}, apperr.Validation("quote has no customer email address")
	}

	token := quote.PublicToken
	if token == nil {
		generated, err := newPublicToken()
		if err != nil {
			return transport.QuoteResponse{}, err
		}
		token = &generated
	}

	validUntil := quote.ValidUntil
	if validUntil.Before(time.Now()) {
		validUntil = time.Now().UTC().Add(defaultValidity)
	}

	if err := s.repo.MarkSent(ctx, id, *token, validUntil); err != nil {
		return transport.QuoteResponse{}, err
	}

	s.bus.Publish(ctx, events.QuoteSent{
		BaseEvent:     events.NewBaseEvent(),
		QuoteID:       quote.ID,
		Reference:     quote.Reference,
		CustomerName:  quote.CustomerName,
		CustomerEmail: email,
		PublicToken:   *token,
		TotalPrice:    quote.TotalPrice,
		ValidUntil:    validUntil,
	})

	return s.Get(ctx, id)
}

// PublicByToken is the customer view of a sent quote. The first view flips
// the status to viewed and notifies the shop.
func (s *Service) PublicByToken(ctx context.Context, token, viewerIP string) (transport.PublicQuoteResponse, error) {
	quote, err := s.repo.GetByPublicToken(ctx, token)
	if err != nil {
		return transport.PublicQuoteResponse{}, err
	}

	if quote.ViewedAt == nil {
		if err := s.repo.MarkViewed(ctx, quote.ID); err != nil {
			s.log.Warn("failed to mark quote viewed", "quote_id", quote.ID, "error", err)
		}
		s.bus.Publish(ctx, events.QuoteViewed{
			BaseEvent: events.NewBaseEvent(),
			QuoteID:   quote.ID,
			Reference: quote.Reference,
			ViewerIP:  viewerIP,
		})
	}

	subtotal := engine.QuoteTotal(quote.Items)
	return transport.PublicQuoteResponse{
		Reference:    quote.Reference,
		CustomerName: quote.CustomerName,
		Notes:        quote.Notes,
		Terms:        quote.Terms,
		Subtotal:     subtotal,
		VATRate:      quote.VATRate,
		VATAmount:    vatAmount(subtotal, quote.VATRegistered, quote.VATRate),
		TotalPrice:   quote.TotalPrice,
		ValidUntil:   quote.ValidUntil,
		Expired:      time.Now().After(quote.ValidUntil),
		Items:        quote.Items,
	}, nil
}

// QRCode renders the public link of a sent quote as a PNG.
func (s *Service) QRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.PublicToken == nil {
		return nil, apperr.BadRequest("quote has not been sent yet")
	}

	png, err := qrcode.Encode(s.publicURL(*quote.PublicToken), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// Profit computes the cost and profit breakdown of a saved quote.
func (s *Service) Profit(ctx context.Context, id uuid.UUID) (transport.ProfitResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProfitResponse{}, err
	}
	return s.profit.QuoteProfit(ctx, quote.Items), nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Service) loadOrInit(ctx context.Context, userID uuid.UUID) (session.State, error) {
	state, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return newState(), nil
	}
	if err != nil {
		return session.State{}, err
	}
	return state, nil
}

func newState() session.State {
	now := time.Now().UTC()
	return session.State{
		Reference:  fmt.Sprintf("QU-%s-%s", now.Format("20060102"), uuid.NewString()[:8]),
		Terms:      append([]string(nil), defaultTerms...),
		ValidUntil: now.Add(defaultValidity),
		Items:      []engine.LineItem{},
	}
}

func (s *Service) storeAndRespond(ctx context.Context, userID uuid.UUID, state session.State) (transport.WorkingQuoteResponse, error) {
	if err := s.sessions.Put(ctx, userID, state); err != nil {
		return transport.WorkingQuoteResponse{}, err
	}
	return toWorkingResponse(state), nil
}

// attachedCharge prices a decoration service attached to a product line.
// Like standalone service lines it gets the quantity discount but never the
// markup.
func (s *Service) attachedCharge(ctx context.Context, eng *engine.Engine, serviceID, wantKind string, quantity int) (*engine.ServiceCharge, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.Kind != wantKind {
		return nil, apperr.Validation(fmt.Sprintf("service %q is not a %s service", serviceID, wantKind))
	}
	return &engine.ServiceCharge{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		UnitPrice:   svc.Price,
		TotalPrice:  eng.PriceService(svc.Price, quantity).TotalPrice,
	}, nil
}

func serviceLine(eng *engine.Engine, svc servicestransport.ServiceResponse, quantity int) engine.LineItem {
	result := eng.PriceService(svc.Price, quantity)
	return engine.LineItem{
		ID:                uuid.New(),
		Kind:              engine.KindService,
		ServiceID:         svc.ID,
		ServiceName:       svc.Name,
		ServiceType:       svc.Kind,
		BasePrice:         svc.Price,
		Quantity:          quantity,
		UnitPrice:         result.UnitPrice,
		DiscountPercent:   result.DiscountPercent,
		ProductTotalPrice: result.TotalPrice,
		TotalPrice:        result.TotalPrice,
	}
}

// rescaleCharge reprices an attached charge after a quantity change, with
// the discount for the new quantity.
func rescaleCharge(eng *engine.Engine, charge *engine.ServiceCharge, quantity int) {
	if charge == nil {
		return
	}
	charge.TotalPrice = eng.PriceService(charge.UnitPrice, quantity).TotalPrice
}

func indexOfLine(items []engine.LineItem, lineID uuid.UUID) int {
	for i := range items {
		if items[i].ID == lineID {
			return i
		}
	}
	return -1
}

func newPublicToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate public token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *Service) publicURL(token string) string {
	return strings.TrimRight(s.links.GetAppBaseURL(), "/") + "/quotes/view/" + token
}

// vatAmount is the VAT due on a goods subtotal, zero for unregistered
// customers.
func vatAmount(subtotal float64, registered bool, rate float64) float64 {
	if !registered || rate <= 0 {
		return 0
	}
	return engine.Round2(subtotal * rate / 100)
}

func toWorkingResponse(state session.State) transport.WorkingQuoteResponse {
	subtotal := engine.QuoteTotal(state.Items)
	vat := vatAmount(subtotal, state.VATRegistered, state.VATRate)
	return transport.WorkingQuoteResponse{
		Reference:     state.Reference,
		CustomerName:  state.CustomerName,
		CustomerEmail: state.CustomerEmail,
		CustomerPhone: state.CustomerPhone,
		Notes:         state.Notes,
		Terms:         state.Terms,
		VATRegistered: state.VATRegistered,
		VATRate:       state.VATRate,
		ValidUntil:    state.ValidUntil,
		Items:         state.Items,
		Subtotal:      subtotal,
		VATAmount:     vat,
		TotalPrice:    engine.Round2(subtotal + vat),
	}
}

func (s *Service) toQuoteResponse(quote repository.Quote) transport.QuoteResponse {
	subtotal := engine.QuoteTotal(quote.Items)
	resp := transport.QuoteResponse{
		ID:            quote.ID,
		Reference:     quote.Reference,
		CustomerName:  quote.CustomerName,
		CustomerEmail: quote.CustomerEmail,
		CustomerPhone: quote.CustomerPhone,
		Notes:         quote.Notes,
		Terms:         quote.Terms,
		VATRegistered: quote.VATRegistered,
		VATRate:       quote.VATRate,
		Status:        quote.Status,
		Subtotal:      subtotal,
		VATAmount:     vatAmount(subtotal, quote.VATRegistered, quote.VATRate),
		TotalPrice:    quote.TotalPrice,
		ValidUntil:    quote.ValidUntil,
		SentAt:        quote.SentAt,
		ViewedAt:      quote.ViewedAt,
		Items:         quote.Items,
		CreatedAt:     quote.CreatedAt,
		UpdatedAt:     quote.UpdatedAt,
	}
	if quote.PublicToken != nil {
		resp.PublicURL = s.publicURL(*quote.PublicToken)
	}
	return resp
}
