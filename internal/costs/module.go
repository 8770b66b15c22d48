// Package costs provides the cost tracking bounded context: machine and
// material cost settings, decoration job estimation, and quote profitability.
package costs

import (
	"inkstitch_backend/internal/costs/handler"
	"inkstitch_backend/internal/costs/repository"
	"inkstitch_backend/internal/costs/service"
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/platform/logger"
	"inkstitch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the costs bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the costs module with all its dependencies.
func NewModule(pool *pgxpool.Pool, serviceCosts service.ServiceCostReader, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, serviceCosts, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "costs"
}

// Service returns the service layer so other modules can run profit analysis.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts cost routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/costs")
	group.GET("/settings", m.handler.GetSettings)
	group.PUT("/settings/electricity-rate", m.handler.SetElectricityRate)
	group.PUT("/settings/machines", m.handler.UpsertMachine)
	group.PUT("/settings/machines/:name/wattage", m.handler.SetMachineWattage)
	group.PUT("/settings/process-times", m.handler.UpsertProcessTime)
	group.GET("/materials", m.handler.GetMaterialCosts)
	group.PUT("/materials", m.handler.ReplaceMaterialCosts)
	group.GET("/business", m.handler.ListBusinessCosts)
	group.POST("/business", m.handler.CreateBusinessCost)
	group.PUT("/business/:id", m.handler.UpdateBusinessCost)
	group.DELETE("/business/:id", m.handler.DeleteBusinessCost)
	group.POST("/estimate/print", m.handler.EstimatePrint)
	group.POST("/estimate/embroidery", m.handler.EstimateEmbroidery)
	group.POST("/profit-analysis", m.handler.ProfitAnalysis)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
