package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action of a client message.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventConnected Event = "connected"
	EventActivity  Event = "activity"
	EventPong      Event = "pong"
)

// ConnectedResponse greets a subscriber once the feed is live.
type ConnectedResponse struct {
	Event  Event  `json:"event"`
	UserID string `json:"user_id"`
}

// ActivityResponse relays one activity event exactly as it was published.
type ActivityResponse struct {
	Event    Event           `json:"event"`
	Activity json.RawMessage `json:"activity"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
