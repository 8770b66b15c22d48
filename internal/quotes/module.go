// Package quotes provides the quote building bounded context: the per-user
// working quote session, saved quotes, public customer links and QR codes.
package quotes

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"inkstitch_backend/internal/events"
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/internal/quotes/handler"
	"inkstitch_backend/internal/quotes/repository"
	"inkstitch_backend/internal/quotes/service"
	"inkstitch_backend/internal/quotes/session"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/logger"
	"inkstitch_backend/platform/validator"
)

// Module is the quotes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// Deps are the cross-module collaborators the quotes workflow needs.
type Deps struct {
	Pricing  service.EngineProvider
	Catalog  service.ProductCatalog
	Services service.DecorationServices
	Profit   service.ProfitCalculator
}

// NewModule creates and initializes the quotes module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	sessionTTL time.Duration,
	deps Deps,
	bus events.Bus,
	links config.PublicLinkConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	sessions := session.New(redisClient, sessionTTL)
	repo := repository.New(pool)
	svc := service.New(sessions, repo, deps.Pricing, deps.Catalog, deps.Services, deps.Profit, bus, links, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts quote routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	working := ctx.Protected.Group("/quotes/working")
	working.GET("", m.handler.Working)
	working.DELETE("", m.handler.Clear)
	working.PUT("/customer", m.handler.SetCustomer)
	working.POST("/lines/product", m.handler.AddProductLine)
	working.POST("/lines/service", m.handler.AddServiceLine)
	working.PATCH("/lines/:lineId", m.handler.UpdateLine)
	working.DELETE("/lines/:lineId", m.handler.RemoveLine)
	working.POST("/save", m.handler.Save)

	saved := ctx.Protected.Group("/quotes")
	saved.GET("", m.handler.List)
	saved.GET("/:id", m.handler.Get)
	saved.DELETE("/:id", m.handler.Delete)
	saved.POST("/:id/send", m.handler.Send)
	saved.GET("/:id/qr", m.handler.QRCode)
	saved.GET("/:id/profit", m.handler.Profit)

	// Customer links are unauthenticated by design.
	ctx.Public.GET("/quotes/:token", m.handler.Public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
