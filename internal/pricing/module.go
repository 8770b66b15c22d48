// Package pricing provides the pricing policy bounded context: quantity
// discount brackets, the global markup percentage and price previews.
package pricing

import (
	"inkstitch_backend/internal/events"
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/internal/pricing/handler"
	"inkstitch_backend/internal/pricing/repository"
	"inkstitch_backend/internal/pricing/service"
	"inkstitch_backend/platform/logger"
	"inkstitch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pricing bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the pricing module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "pricing"
}

// Service returns the service layer so other modules can price line items.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts pricing routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/pricing")
	group.GET("/discounts", m.handler.GetDiscounts)
	group.PUT("/discounts", m.handler.SaveDiscounts)
	group.GET("/markup", m.handler.GetMarkup)
	group.PUT("/markup", m.handler.SaveMarkup)
	group.POST("/preview/product", m.handler.PreviewProduct)
	group.POST("/preview/service", m.handler.PreviewService)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
