package ws

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgReady   = "ready"
	MsgEvent   = "event"
	MsgBacklog = "backlog"
	MsgPong    = "pong"
	MsgError   = "error"
)

// Message is the envelope of every frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
