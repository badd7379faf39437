package realtime

import (
	"encoding/json"
	"time"
)

// Client to server events.
const (
	EventHeartbeat    = "heartbeat"
	EventJoinRoom     = "join_room"
	EventLeaveRoom    = "leave_room"
	EventAuthenticate = "authenticate"
	EventChatMessage  = "chat_message"
	EventStatusUpdate = "status_update"
)

// Server to client events.
const (
	EventConnected     = "connected"
	EventNotification  = "notification"
	EventRoomJoined    = "room_joined"
	EventRoomLeft      = "room_left"
	EventAuthenticated = "authenticated"
	EventUserStatus    = "user_status"
	EventHostelUpdate  = "hostel_update"
	EventBookingUpdate = "booking_update"
	EventError         = "error"
)

// Message is a frame sent to clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// inbound is a frame received from a client; Data is decoded per Type.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type roomData struct {
	Room string `json:"room"`
}

type authenticateData struct {
	Token string `json:"token"`
}

type chatData struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

type statusData struct {
	Status string `json:"status"`
}

type HeartbeatData struct {
	Timestamp  string  `json:"timestamp"`
	ServerTime float64 `json:"server_time"`
}

type UserStatusData struct {
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ChatMessageData struct {
	ID        string `json:"id"`
	Room      string `json:"room"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NotificationData is the payload of a notification frame.
type NotificationData struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// UpdateData is the payload of hostel_update and booking_update frames.
type UpdateData struct {
	HostelID  string      `json:"hostel_id,omitempty"`
	BookingID string      `json:"booking_id,omitempty"`
	Action    string      `json:"action"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func errorMessage(msg string) Message {
	return Message{Type: EventError, Data: map[string]string{"message": msg}}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// UserRoom is the private room every authenticated client joins.
func UserRoom(userID string) string {
	return "user_" + userID
}
