// Package listings implements the hostel catalogue: browsing, owner CRUD,
// photos and share codes.
package listings

import (
	"stayfinder_backend/internal/adapters/storage"
	"stayfinder_backend/internal/events"
	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/internal/listings/handler"
	"stayfinder_backend/internal/listings/repository"
	"stayfinder_backend/internal/listings/service"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/phone"
	"stayfinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is what the listings module needs from the application config.
type Config interface {
	service.Config
	GetMinIOMaxFileSize() int64
	GetPhoneRegion() string
}

type Module struct {
	handler *handler.Handler
	svc     *service.Service
	repo    *repository.Repo
}

func NewModule(pool *pgxpool.Pool, store storage.StorageService, geocoder service.Geocoder, bus events.Bus, val *validator.Validator, cfg Config, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, geocoder, phone.NewNormalizer(cfg.GetPhoneRegion()), bus, cfg, log)
	h := handler.New(svc, val, cfg.GetMinIOMaxFileSize())

	return &Module{handler: h, svc: svc, repo: repo}
}

// Service exposes the listings service to other modules.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Repository exposes the listing store to other modules.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

func (m *Module) Name() string {
	return "listings"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublic(ctx.API.Group("/hostels"))
	m.handler.RegisterProtected(ctx.Protected.Group("/hostels"))
	ctx.Protected.GET("/owner/hostels", m.handler.ListMine)
}

var _ apphttp.Module = (*Module)(nil)
