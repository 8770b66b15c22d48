// Package service implements pricing policy management and price previews
// on top of the pure engine.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"inkstitch_backend/internal/events"
	"inkstitch_backend/internal/pricing/engine"
	"inkstitch_backend/internal/pricing/repository"
	"inkstitch_backend/internal/pricing/transport"
	"inkstitch_backend/platform/logger"
)

// Service provides pricing policy reads/writes and preview computations.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new pricing service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Engine loads the current policy and returns an engine over it. Callers in
// other modules use this to price their own line items; the engine is cheap
// to construct and snapshots the policy at call time.
func (s *Service) Engine(ctx context.Context) (*engine.Engine, error) {
	discounts, err := s.discountPolicy(ctx)
	if err != nil {
		return nil, err
	}
	markup, err := s.markupPolicy(ctx)
	if err != nil {
		return nil, err
	}
	return engine.New(discounts, markup), nil
}

// GetDiscountPolicy returns the persisted brackets, falling back to the
// built-in defaults when nothing has been saved yet.
func (s *Service) GetDiscountPolicy(ctx context.Context) (transport.DiscountPolicyResponse, error) {
	policy, err := s.discountPolicy(ctx)
	if err != nil {
		return transport.DiscountPolicyResponse{}, err
	}
	return transport.DiscountPolicyResponse{Brackets: toBracketDTOs(policy.Brackets)}, nil
}

// SaveDiscountPolicy validates, sorts and wholesale-replaces the bracket
// table. Individually invalid rows are dropped; the remaining valid rows
// still save and the response reports how many were rejected.
func (s *Service) SaveDiscountPolicy(ctx context.Context, req transport.SaveDiscountPolicyRequest, actorID uuid.UUID) (transport.DiscountPolicyResponse, error) {
	submitted := make([]engine.Bracket, 0, len(req.Brackets))
	for _, dto := range req.Brackets {
		submitted = append(submitted, engine.Bracket{Min: dto.Min, Max: dto.Max, DiscountPercent: dto.DiscountPercent})
	}

	valid, dropped := engine.ValidateBrackets(submitted)
	if dropped > 0 {
		s.log.Warn("discount policy save dropped invalid brackets", "dropped", dropped, "kept", len(valid))
	}

	rows := make([]repository.BracketRow, 0, len(valid))
	for i, b := range valid {
		rows = append(rows, repository.BracketRow{Position: i, Min: b.Min, Max: b.Max, DiscountPercent: b.DiscountPercent})
	}
	if err := s.repo.ReplaceBrackets(ctx, rows); err != nil {
		return transport.DiscountPolicyResponse{}, err
	}

	s.bus.Publish(ctx, events.PricingPolicyChanged{
		BaseEvent:    events.NewBaseEvent(),
		ChangedBy:    actorID,
		BracketCount: len(valid),
		DroppedRows:  dropped,
	})

	return transport.DiscountPolicyResponse{Brackets: toBracketDTOs(valid), DroppedRows: dropped}, nil
}

// GetMarkup returns the persisted markup percentage, 0 when never saved.
func (s *Service) GetMarkup(ctx context.Context) (transport.MarkupResponse, error) {
	markup, err := s.markupPolicy(ctx)
	if err != nil {
		return transport.MarkupResponse{}, err
	}
	return transport.MarkupResponse{Percentage: markup.Percentage}, nil
}

// SaveMarkup replaces the global markup percentage.
func (s *Service) SaveMarkup(ctx context.Context, req transport.SaveMarkupRequest, actorID uuid.UUID) (transport.MarkupResponse, error) {
	if err := s.repo.SetMarkup(ctx, req.Percentage); err != nil {
		return transport.MarkupResponse{}, err
	}

	s.bus.Publish(ctx, events.PricingPolicyChanged{
		BaseEvent:      events.NewBaseEvent(),
		ChangedBy:      actorID,
		MarkupPercent:  req.Percentage,
		MarkupAffected: true,
	})

	return transport.MarkupResponse{Percentage: req.Percentage}, nil
}

// PreviewProduct prices a candidate product line against the current policy.
// The existing group quantity raises the discount tier without being billed.
func (s *Service) PreviewProduct(ctx context.Context, req transport.PreviewProductRequest) (transport.PreviewResponse, error) {
	eng, err := s.Engine(ctx)
	if err != nil {
		return transport.PreviewResponse{}, err
	}

	var result engine.PricedResult
	if req.Supplier != "" || req.ProductGroup != "" {
		// Synthesize one existing line carrying the aggregate quantity so
		// the engine sees the same tier the working quote would produce.
		key := engine.GroupKey{Supplier: req.Supplier, ProductGroup: req.ProductGroup}
		existing := []engine.LineItem{{
			Kind:         engine.KindProduct,
			Supplier:     req.Supplier,
			ProductGroup: req.ProductGroup,
			Quantity:     req.ExistingGroupQuantity,
		}}
		result = eng.PriceProduct(req.BasePrice, req.Quantity, &key, existing)
	} else {
		result = eng.PriceProduct(req.BasePrice, req.Quantity, nil, nil)
	}

	return toPreviewResponse(result), nil
}

// PreviewService prices a decoration service: no markup, own-quantity tier.
func (s *Service) PreviewService(ctx context.Context, req transport.PreviewServiceRequest) (transport.PreviewResponse, error) {
	eng, err := s.Engine(ctx)
	if err != nil {
		return transport.PreviewResponse{}, err
	}
	return toPreviewResponse(eng.PriceService(req.Price, req.Quantity)), nil
}

func (s *Service) discountPolicy(ctx context.Context) (engine.DiscountPolicy, error) {
	rows, err := s.repo.GetBrackets(ctx)
	if err != nil {
		return engine.DiscountPolicy{}, err
	}
	if len(rows) == 0 {
		return engine.DefaultDiscountPolicy(), nil
	}

	brackets := make([]engine.Bracket, 0, len(rows))
	for _, row := range rows {
		brackets = append(brackets, engine.Bracket{Min: row.Min, Max: row.Max, DiscountPercent: row.DiscountPercent})
	}
	return engine.DiscountPolicy{Brackets: brackets}, nil
}

func (s *Service) markupPolicy(ctx context.Context) (engine.MarkupPolicy, error) {
	pct, err := s.repo.GetMarkup(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoMarkup) {
			return engine.MarkupPolicy{}, nil
		}
		return engine.MarkupPolicy{}, err
	}
	return engine.MarkupPolicy{Percentage: pct}, nil
}

func toBracketDTOs(brackets []engine.Bracket) []transport.BracketDTO {
	out := make([]transport.BracketDTO, 0, len(brackets))
	for _, b := range brackets {
		out = append(out, transport.BracketDTO{Min: b.Min, Max: b.Max, DiscountPercent: b.DiscountPercent})
	}
	return out
}

func toPreviewResponse(r engine.PricedResult) transport.PreviewResponse {
	return transport.PreviewResponse{
		BasePrice:       r.BasePrice,
		UnitPrice:       r.UnitPrice,
		MarkupPercent:   r.MarkupPercent,
		Quantity:        r.Quantity,
		DiscountPercent: r.DiscountPercent,
		TotalPrice:      r.TotalPrice,
	}
}
