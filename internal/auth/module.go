package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"stayfinder_backend/internal/auth/handler"
	"stayfinder_backend/internal/auth/repository"
	"stayfinder_backend/internal/auth/service"
	"stayfinder_backend/internal/events"
	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/phone"
	"stayfinder_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg service.Config, phones *phone.Normalizer, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, phones, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the user store for adapters in other domains.
func (m *Module) Repository() repository.UserReader {
	return m.repo
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.API.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/auth/verify", m.handler.Verify)
	ctx.Protected.GET("/user/profile", m.handler.GetProfile)
	ctx.Protected.PUT("/user/profile", m.handler.UpdateProfile)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
