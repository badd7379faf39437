// Package realtime pushes notifications to browsers over websockets.
package realtime

import (
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/logger"
)

type Module struct {
	hub     *Hub
	handler *Handler
}

// NewModule builds the hub. With rdb non-nil presence is shared through Redis.
func NewModule(cfg config.RealtimeConfig, rdb redis.UniversalClient, log *logger.Logger) *Module {
	var registry Registry = NewMemoryRegistry()
	if rdb != nil {
		registry = NewRedisRegistry(rdb, uuid.NewString())
	}

	secret := cfg.GetJWTAccessSecret()
	verify := func(token string) (string, error) {
		userID, err := httpkit.ParseAccessToken(token, secret)
		if err != nil {
			return "", err
		}
		return userID.String(), nil
	}

	hub := NewHub(registry, verify, log)
	return &Module{hub: hub, handler: NewHandler(hub, cfg.GetWSAllowedOrigins())}
}

// Hub exposes the hub to publishers and to the process supervisor.
func (m *Module) Hub() *Hub {
	return m.hub
}

func (m *Module) Name() string {
	return "realtime"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/ws", m.handler.Serve)
	ctx.Protected.GET("/realtime/online", m.handler.Online)
}

var _ apphttp.Module = (*Module)(nil)
