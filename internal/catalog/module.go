package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"inkstitch_backend/internal/catalog/handler"
	"inkstitch_backend/internal/catalog/repository"
	"inkstitch_backend/internal/catalog/service"
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/platform/logger"
	"inkstitch_backend/platform/validator"
)

// Module wires the product catalog bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the catalog module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

// Name returns the module name for startup logging.
func (m *Module) Name() string { return "catalog" }

// Service exposes the catalog service to the import worker.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the catalog endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	products := ctx.Protected.Group("/catalog")
	products.GET("/products", m.handler.List)
	products.GET("/products/:id", m.handler.GetByID)
	products.GET("/filters", m.handler.FilterOptions)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
