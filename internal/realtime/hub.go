package realtime

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"stayfinder_backend/platform/logger"
)

// TokenVerifier turns a bearer token into a user id.
type TokenVerifier func(token string) (string, error)

// Hub fans messages out to connected clients and rooms. Delivery is
// best-effort: a client whose buffer is full is disconnected.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	rooms    map[string]map[*Client]struct{}
	registry Registry
	verify   TokenVerifier
	log      *logger.Logger
	now      func() time.Time
}

func NewHub(registry Registry, verify TokenVerifier, log *logger.Logger) *Hub {
	if registry == nil {
		registry = NewMemoryRegistry()
	}
	return &Hub{
		clients:  map[*Client]struct{}{},
		rooms:    map[string]map[*Client]struct{}{},
		registry: registry,
		verify:   verify,
		log:      log,
		now:      time.Now,
	}
}

// Register adds a client and greets it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.RealtimeEvent("connect", c.id, "")
	h.sendTo(c, Message{Type: EventConnected, Data: map[string]string{"message": "Connected to Stayfinder WebSocket"}})
	h.sendTo(c, Message{Type: EventNotification, Data: NotificationData{
		Type:    "success",
		Title:   "Connected",
		Message: "You are now connected to real-time updates",
	}})
}

// Unregister removes a client. Authenticated users going offline are announced.
// Clients already dropped for being slow still release their presence here.
func (h *Hub) Unregister(ctx context.Context, c *Client) {
	h.drop(c)

	userID, err := h.registry.Remove(ctx, c.id)
	if err != nil {
		h.log.Warn("presence remove failed", "clientId", c.id, "error", err)
	}
	h.log.RealtimeEvent("disconnect", c.id, userID)
	if userID == "" {
		return
	}
	if online, err := h.registry.IsOnline(ctx, userID); err == nil && online {
		return
	}
	h.Broadcast(EventUserStatus, UserStatusData{UserID: userID, Status: "offline", Timestamp: timestamp(h.now())})
}

// drop detaches c from every room and closes its send channel once.
func (h *Hub) drop(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropLocked(c)
}

func (h *Hub) dropLocked(c *Client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	close(c.send)
	return true
}

func (h *Hub) joinLocked(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = map[*Client]struct{}{}
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Handle dispatches one client frame.
func (h *Hub) Handle(ctx context.Context, c *Client, msg inbound) {
	switch msg.Type {
	case EventHeartbeat:
		now := h.now()
		h.sendTo(c, Message{Type: EventHeartbeat, Data: HeartbeatData{
			Timestamp:  timestamp(now),
			ServerTime: float64(now.UnixMilli()) / 1000,
		}})

	case EventJoinRoom:
		var data roomData
		if !h.decode(c, msg, &data) {
			return
		}
		h.joinRoom(c, strings.TrimSpace(data.Room))

	case EventLeaveRoom:
		var data roomData
		if !h.decode(c, msg, &data) {
			return
		}
		h.leaveRoom(c, strings.TrimSpace(data.Room))

	case EventAuthenticate:
		var data authenticateData
		if !h.decode(c, msg, &data) {
			return
		}
		h.Authenticate(ctx, c, data.Token)

	case EventChatMessage:
		var data chatData
		if !h.decode(c, msg, &data) {
			return
		}
		h.chat(c, strings.TrimSpace(data.Room), strings.TrimSpace(data.Message))

	case EventStatusUpdate:
		var data statusData
		if !h.decode(c, msg, &data) {
			return
		}
		h.statusUpdate(c, data.Status)

	default:
		h.sendTo(c, errorMessage("unknown event: "+msg.Type))
	}
}

func (h *Hub) decode(c *Client, msg inbound, into interface{}) bool {
	if len(msg.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Data, into); err != nil {
		h.sendTo(c, errorMessage("invalid "+msg.Type+" payload"))
		return false
	}
	return true
}

func (h *Hub) joinRoom(c *Client, room string) {
	if room == "" {
		h.sendTo(c, errorMessage("room is required"))
		return
	}

	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	// Private user rooms are joined through authenticate only.
	if strings.HasPrefix(room, "user_") && room != UserRoom(c.userID) {
		h.mu.Unlock()
		h.sendTo(c, errorMessage("cannot join another user's room"))
		return
	}
	h.joinLocked(c, room)
	h.mu.Unlock()

	h.sendTo(c, Message{Type: EventRoomJoined, Data: roomData{Room: room}})
}

func (h *Hub) leaveRoom(c *Client, room string) {
	if room == "" {
		h.sendTo(c, errorMessage("room is required"))
		return
	}

	h.mu.Lock()
	h.leaveLocked(c, room)
	h.mu.Unlock()

	h.sendTo(c, Message{Type: EventRoomLeft, Data: roomData{Room: room}})
}

// Authenticate binds c to the token's user, joins its private room and
// announces the user as online.
func (h *Hub) Authenticate(ctx context.Context, c *Client, token string) {
	if h.verify == nil || strings.TrimSpace(token) == "" {
		h.sendTo(c, errorMessage("Authentication failed"))
		return
	}
	userID, err := h.verify(token)
	if err != nil {
		h.log.RealtimeEvent("auth_failed", c.id, "")
		h.sendTo(c, errorMessage("Authentication failed"))
		return
	}

	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	if c.userID != "" && c.userID != userID {
		h.leaveLocked(c, UserRoom(c.userID))
	}
	c.userID = userID
	h.joinLocked(c, UserRoom(userID))
	h.mu.Unlock()

	if err := h.registry.Add(ctx, c.id, userID); err != nil {
		h.log.Warn("presence add failed", "clientId", c.id, "error", err)
	}
	h.log.RealtimeEvent("authenticated", c.id, userID)

	h.sendTo(c, Message{Type: EventAuthenticated, Data: map[string]string{
		"user_id": userID,
		"message": "Authentication successful",
	}})
	h.Broadcast(EventUserStatus, UserStatusData{UserID: userID, Status: "online", Timestamp: timestamp(h.now())})
}

func (h *Hub) chat(c *Client, room, text string) {
	if room == "" || text == "" {
		h.sendTo(c, errorMessage("Room and message are required"))
		return
	}

	h.mu.RLock()
	userID := c.userID
	_, member := c.rooms[room]
	h.mu.RUnlock()
	if !member {
		h.sendTo(c, errorMessage("join the room before sending messages"))
		return
	}

	h.SendToRoom(room, EventChatMessage, ChatMessageData{
		ID:        uuid.NewString(),
		Room:      room,
		UserID:    userID,
		Message:   text,
		Timestamp: timestamp(h.now()),
	})
}

func (h *Hub) statusUpdate(c *Client, status string) {
	h.mu.RLock()
	userID := c.userID
	h.mu.RUnlock()
	if userID == "" {
		h.sendTo(c, errorMessage("authenticate before updating status"))
		return
	}

	status = strings.TrimSpace(status)
	if status == "" {
		status = "online"
	}
	h.Broadcast(EventUserStatus, UserStatusData{UserID: userID, Status: status, Timestamp: timestamp(h.now())})
}

// Broadcast sends to every connected client.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.deliverLocked(h.clients, Message{Type: eventType, Data: data})
}

// SendToRoom sends to the members of room.
func (h *Hub) SendToRoom(room, eventType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.deliverLocked(h.rooms[room], Message{Type: eventType, Data: data})
}

// SendToUser sends to every connection of an authenticated user.
func (h *Hub) SendToUser(userID, eventType string, data interface{}) {
	h.SendToRoom(UserRoom(userID), eventType, data)
}

// deliverLocked sends in client id order and disconnects clients that cannot keep up.
func (h *Hub) deliverLocked(set map[*Client]struct{}, msg Message) {
	targets := make([]*Client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			h.log.RealtimeEvent("slow_client_dropped", c.id, c.userID)
			h.dropLocked(c)
		}
	}
}

func (h *Hub) sendTo(c *Client, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	h.deliverLocked(map[*Client]struct{}{c: {}}, msg)
}

// OnlineUsers lists users with at least one authenticated connection.
func (h *Hub) OnlineUsers(ctx context.Context) ([]string, error) {
	return h.registry.OnlineUsers(ctx)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run blocks until ctx is done and then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	for _, c := range clients {
		h.dropLocked(c)
	}
	h.mu.Unlock()

	h.log.Info("realtime hub stopped", "clientsClosed", len(clients))
	return nil
}
