// Package auth provides the authentication bounded context: staff sign-in,
// JWT access tokens and first-run admin seeding.
package auth

import (
	"inkstitch_backend/internal/auth/handler"
	"inkstitch_backend/internal/auth/repository"
	"inkstitch_backend/internal/auth/service"
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/httpkit"
	"inkstitch_backend/platform/logger"
	"inkstitch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service so the composition root can seed the
// admin account.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Credential endpoints get the stricter per-IP limiter.
	login := ctx.V1.Group("/auth")
	login.Use(ctx.AuthRateLimiter.RateLimit())
	login.POST("/login", m.handler.SignIn)

	me := ctx.Protected.Group("/auth")
	me.GET("/me", m.handler.Me)
	me.POST("/password", m.handler.ChangePassword)

	ctx.Protected.GET("/users", httpkit.RequireRole(service.RoleAdmin), m.handler.ListUsers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
