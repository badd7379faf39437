package maps

import (
	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/logger"
)

// Module wires the maps address lookup HTTP routes.
type Module struct {
	svc     *Service
	handler *Handler
}

func NewModule(cfg config.GeocoderConfig, log *logger.Logger) *Module {
	svc := NewService(cfg, log)
	return &Module{svc: svc, handler: NewHandler(svc)}
}

// Service exposes the geocoder to the listings module.
func (m *Module) Service() *Service {
	return m.svc
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/maps")
	group.GET("/address-lookup", m.handler.LookupAddress)
}

var _ apphttp.Module = (*Module)(nil)
