package imports

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"inkstitch_backend/internal/adapters/storage"
	authservice "inkstitch_backend/internal/auth/service"
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/internal/imports/handler"
	"inkstitch_backend/internal/imports/repository"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/httpkit"
	"inkstitch_backend/platform/logger"
)

// Module is the imports bounded context module implementing http.Module.
// The worker side lives in Worker and runs in its own process.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the HTTP side of the imports pipeline: upload and
// job status endpoints.
func NewModule(pool *pgxpool.Pool, store storage.StorageService, queue Enqueuer, cfg config.MinIOConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	h := handler.New(repo, store, queue, cfg, log)
	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "imports"
}

// RegisterRoutes mounts import routes on the provided router context.
// Replacing the whole catalog is an admin operation.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/imports")
	group.Use(httpkit.RequireRole(authservice.RoleAdmin))
	group.POST("/price-list", m.handler.Upload)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
