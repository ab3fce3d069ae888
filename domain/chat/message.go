// Package chat contains the core concepts of a client-side conversation.
// Messages, identities and console commands live here.
// No runtime, network or UI logic should be added here.
package chat

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type UserID string

type ChatType string

const (
	ChatTypeUser ChatType = "user"
	ChatTypeRoom ChatType = "room"
)

func (c ChatType) Valid() bool {
	return c == ChatTypeUser || c == ChatTypeRoom
}

// Message is a conversation record as rendered by the client.
// Everything but Readers is fixed at creation; Readers only grows.
type Message struct {
	ID        string
	Sender    UserID
	Receiver  UserID
	Type      ChatType
	Body      string
	Readers   []UserID
	CreatedAt time.Time
}

// NewMessage fills the origin identity when the source did not carry one,
// so two live events without an id are never mistaken for the same message.
func NewMessage(id string, sender, receiver UserID, chatType ChatType, body string, at time.Time) Message {
	if id == "" {
		id = uuid.NewString()
	}
	return Message{
		ID:        id,
		Sender:    sender,
		Receiver:  receiver,
		Type:      chatType,
		Body:      body,
		CreatedAt: at,
	}
}

func (m Message) ReadBy(reader UserID) bool {
	return slices.Contains(m.Readers, reader)
}

// WithReader returns a copy of m carrying reader in its reader set.
// The reader slice is never shared with the receiver.
func (m Message) WithReader(reader UserID) Message {
	if reader == "" || m.ReadBy(reader) {
		return m
	}
	readers := make([]UserID, 0, len(m.Readers)+1)
	readers = append(readers, m.Readers...)
	m.Readers = append(readers, reader)
	return m
}
