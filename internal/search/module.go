// Package search implements listing search: free-text matching and
// distance ranking around a named college.
package search

import (
	"stayfinder_backend/internal/events"
	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/internal/search/geo"
	"stayfinder_backend/internal/search/handler"
	"stayfinder_backend/internal/search/repository"
	"stayfinder_backend/internal/search/service"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

func NewModule(pool *pgxpool.Pool, places geo.Resolver, bus events.Bus, val *validator.Validator, cfg config.SearchConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, places, bus, log)
	h := handler.New(svc, val, cfg)

	return &Module{handler: h, svc: svc}
}

// Service exposes the orchestrator to other modules.
func (m *Module) Service() *service.Service {
	return m.svc
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/hostels"))
}

var _ apphttp.Module = (*Module)(nil)
