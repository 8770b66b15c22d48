// Package service implements business logic for the decoration service
// catalog.
package service

import (
	"context"

	"inkstitch_backend/internal/pricing/engine"
	"inkstitch_backend/internal/services/repository"
	"inkstitch_backend/internal/services/transport"
	"inkstitch_backend/platform/apperr"
	"inkstitch_backend/platform/logger"
)

// Service provides business logic for decoration services.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new decoration services service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a decoration service.
func (s *Service) GetByID(ctx context.Context, id string) (transport.ServiceResponse, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toResponse(record), nil
}

// List retrieves decoration services, optionally filtered by kind.
func (s *Service) List(ctx context.Context, kind string) (transport.ServiceListResponse, error) {
	records, err := s.repo.List(ctx, kind)
	if err != nil {
		return transport.ServiceListResponse{}, err
	}
	resp := transport.ServiceListResponse{Items: make([]transport.ServiceResponse, 0, len(records))}
	for _, record := range records {
		resp.Items = append(resp.Items, toResponse(record))
	}
	resp.Total = len(resp.Items)
	return resp, nil
}

// Upsert creates or replaces a decoration service. The stored total cost is
// always the sum of the breakdown components; a client-sent total is ignored.
func (s *Service) Upsert(ctx context.Context, req transport.UpsertServiceRequest) (transport.ServiceResponse, error) {
	var total float64
	for component, cost := range req.CostBreakdown {
		if cost < 0 {
			return transport.ServiceResponse{}, apperr.Validation("cost breakdown component " + component + " is negative")
		}
		total += cost
	}

	record, err := s.repo.Upsert(ctx, repository.UpsertParams{
		ID:            req.ID,
		Kind:          req.Kind,
		Name:          req.Name,
		Price:         req.Price,
		CostBreakdown: req.CostBreakdown,
		TotalCost:     engine.Round2(total),
	})
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toResponse(record), nil
}

// Delete removes a decoration service. Saved quotes referencing it keep
// working; their cost contribution simply degrades to zero.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// TotalCost resolves a service's per-unit supplier cost for profitability
// analysis. A missing service reports ok=false rather than an error.
func (s *Service) TotalCost(ctx context.Context, id string) (float64, bool, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return record.TotalCost, true, nil
}

func toResponse(record repository.ServiceRecord) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:            record.ID,
		Kind:          record.Kind,
		Name:          record.Name,
		Price:         record.Price,
		CostBreakdown: record.CostBreakdown,
		TotalCost:     record.TotalCost,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
