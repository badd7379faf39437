package realtime

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stayfinder_backend/platform/httpkit"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket endpoint. An empty origin list or "*" accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		if len(set) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin.
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// Serve upgrades GET /ws. A token query parameter authenticates immediately.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	// The connection outlives the request.
	ctx := context.WithoutCancel(c.Request.Context())
	client := newClient(h.hub, conn)
	h.hub.Register(client)
	if token := c.Query("token"); token != "" {
		h.hub.Authenticate(ctx, client, token)
	}
	client.start(ctx)
}

type onlineResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
	Count   int      `json:"count"`
}

// Online handles GET /api/realtime/online.
func (h *Handler) Online(c *gin.Context) {
	users, err := h.hub.OnlineUsers(c.Request.Context())
	if err != nil {
		httpkit.Fail(c, http.StatusServiceUnavailable, "presence unavailable", nil)
		_ = c.Error(err)
		return
	}
	if users == nil {
		users = []string{}
	}
	httpkit.OK(c, onlineResponse{Success: true, Data: users, Count: len(users)})
}
