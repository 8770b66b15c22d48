// Package service implements catalog search and price list import logic.
package service

import (
	"context"

	"github.com/google/uuid"

	"inkstitch_backend/internal/catalog/repository"
	"inkstitch_backend/internal/catalog/transport"
	"inkstitch_backend/platform/logger"
)

// Service provides business logic for the product catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List retrieves a filtered page of products.
func (s *Service) List(ctx context.Context, req transport.ListProductsRequest) (transport.ProductListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 500 {
		pageSize = 500
	}

	products, total, err := s.repo.List(ctx, repository.ListFilters{
		Supplier:     req.Supplier,
		ProductGroup: req.ProductGroup,
		Category:     req.Category,
		Colour:       req.Colour,
		Size:         req.Size,
		Search:       req.Search,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	})
	if err != nil {
		return transport.ProductListResponse{}, err
	}

	resp := transport.ProductListResponse{
		Items:    make([]transport.ProductResponse, 0, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, p := range products {
		resp.Items = append(resp.Items, toProductResponse(p))
	}
	return resp, nil
}

// GetByID retrieves one product variant.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ProductResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return toProductResponse(p), nil
}

// FilterOptions retrieves the distinct values feeding the search dropdowns.
func (s *Service) FilterOptions(ctx context.Context) (transport.FilterOptionsResponse, error) {
	var (
		resp transport.FilterOptionsResponse
		err  error
	)
	if resp.Suppliers, err = s.repo.DistinctValues(ctx, repository.ColumnSupplier); err != nil {
		return transport.FilterOptionsResponse{}, err
	}
	if resp.ProductGroups, err = s.repo.DistinctValues(ctx, repository.ColumnProductGroup); err != nil {
		return transport.FilterOptionsResponse{}, err
	}
	if resp.Categories, err = s.repo.DistinctValues(ctx, repository.ColumnCategory); err != nil {
		return transport.FilterOptionsResponse{}, err
	}
	if resp.Colours, err = s.repo.DistinctValues(ctx, repository.ColumnColourName); err != nil {
		return transport.FilterOptionsResponse{}, err
	}
	if resp.Sizes, err = s.repo.DistinctValues(ctx, repository.ColumnSizeRange); err != nil {
		return transport.FilterOptionsResponse{}, err
	}
	return resp, nil
}

// Import replaces the whole catalog with the given rows. Rows missing a
// supplier, product group or product name are skipped rather than failing
// the import; supplier sheets routinely carry section header rows.
func (s *Service) Import(ctx context.Context, rows []transport.ImportRow) (transport.ImportResult, error) {
	products := make([]repository.Product, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if row.Supplier == "" || row.ProductGroup == "" || row.ProductName == "" || row.BasePrice < 0 {
			skipped++
			continue
		}
		products = append(products, repository.Product{
			ID:           uuid.New(),
			StyleNo:      row.StyleNo,
			Supplier:     row.Supplier,
			ProductGroup: row.ProductGroup,
			Category:     row.Category,
			ProductName:  row.ProductName,
			SizeRange:    row.SizeRange,
			ColourName:   row.ColourName,
			ColourCode:   row.ColourCode,
			BasePrice:    row.BasePrice,
		})
	}

	if err := s.repo.ReplaceAll(ctx, products); err != nil {
		return transport.ImportResult{}, err
	}

	s.log.Info("catalog imported", "rows", len(products), "skipped", skipped)
	return transport.ImportResult{RowsImported: len(products), RowsSkipped: skipped}, nil
}

func toProductResponse(p repository.Product) transport.ProductResponse {
	return transport.ProductResponse{
		ID:           p.ID,
		StyleNo:      p.StyleNo,
		Supplier:     p.Supplier,
		ProductGroup: p.ProductGroup,
		Category:     p.Category,
		ProductName:  p.ProductName,
		SizeRange:    p.SizeRange,
		ColourName:   p.ColourName,
		ColourCode:   p.ColourCode,
		BasePrice:    p.BasePrice,
	}
}
