package transport

import (
	"chat-sync/domain/chat"
	"encoding/json"
)

const (
	EventMessage     = "message"
	EventReadStatus  = "messageReadStatus"
	EventReadMessage = "readMessage"
)

// envelope is the JSON frame exchanged on the socket.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type readMessagePayload struct {
	ToID chat.UserID   `json:"toId"`
	Type chat.ChatType `json:"type"`
}
