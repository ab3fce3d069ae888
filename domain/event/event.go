package event

import (
	"chat-sync/domain/chat"
	"chat-sync/errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MessageReceived is a live incoming-message event pushed by the transport.
type MessageReceived struct {
	ID        string        `json:"_id"`
	Type      chat.ChatType `json:"type" validate:"required,oneof=user room"`
	Sender    chat.UserID   `json:"sender" validate:"required"`
	Receiver  chat.UserID   `json:"receiver" validate:"required"`
	Body      string        `json:"message"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ToMessage converts the live event to a store record.
// Events without a timestamp are stamped with their arrival time.
func (m MessageReceived) ToMessage(now time.Time) chat.Message {
	at := m.CreatedAt
	if at.IsZero() {
		at = now
	}
	return chat.NewMessage(m.ID, m.Sender, m.Receiver, m.Type, m.Body, at)
}

// AckTarget is the counterpart to notify once the message has been seen:
// the room itself for room messages, the sender for direct messages.
func (m MessageReceived) AckTarget() chat.UserID {
	if m.Type == chat.ChatTypeRoom {
		return m.Receiver
	}
	return m.Sender
}

// ReadReceipt means ReaderID has now read every message addressed to ToID.
type ReadReceipt struct {
	Type     chat.ChatType `json:"type" validate:"required,oneof=user room"`
	ReaderID chat.UserID   `json:"readerId" validate:"required"`
	ToID     chat.UserID   `json:"toId" validate:"required"`
}

// Validate checks the routing fields of a live event.
// Every failure wraps errors.ErrMalformedEvent.
func Validate(evt any) error {
	if err := validate.Struct(evt); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMalformedEvent, err)
	}
	return nil
}
