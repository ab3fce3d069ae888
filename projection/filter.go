package projection

import (
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
)

// BelongsToOpenConversation reports whether a live message targets the open conversation.
// Direct messages are routed by the other party's id (the sender), room
// messages by the room id (the receiver).
func BelongsToOpenConversation(evt event.MessageReceived, open chat.Identity) bool {
	if open.IsZero() {
		return false
	}
	switch evt.Type {
	case chat.ChatTypeUser:
		return open.ChatID == evt.Sender
	case chat.ChatTypeRoom:
		return open.ChatID == evt.Receiver
	default:
		return false
	}
}

// ReceiptConcerns reports whether a read receipt targets the open conversation.
// In a direct conversation the counterpart is either the reader (they read
// our messages) or the addressee (our own reading echoed back). In a room the
// receipt is addressed to the room itself.
func ReceiptConcerns(receipt event.ReadReceipt, open chat.Identity) bool {
	if open.IsZero() {
		return false
	}
	switch receipt.Type {
	case chat.ChatTypeUser:
		return open.ChatID == receipt.ReaderID || open.ChatID == receipt.ToID
	case chat.ChatTypeRoom:
		return open.ChatID == receipt.ToID
	default:
		return false
	}
}
