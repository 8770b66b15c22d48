// Package services provides the decoration services bounded context:
// printing and embroidery offerings with their prices and supplier costs.
package services

import (
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/internal/services/handler"
	"inkstitch_backend/internal/services/repository"
	"inkstitch_backend/internal/services/service"
	"inkstitch_backend/platform/logger"
	"inkstitch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the decoration services bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the services module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "services"
}

// Service returns the service layer for cross-module cost lookups.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts decoration service routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/services")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("", m.handler.Upsert)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
