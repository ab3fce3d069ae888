package projection

import (
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"log/slog"
)

// Reconciler applies read receipts to a MessageStore.
type Reconciler struct {
	store *MessageStore
	log   *slog.Logger
}

func NewReconciler(store *MessageStore, log *slog.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// Apply marks every message not authored by the reader as read by them,
// when the receipt concerns the open conversation. A reader's own messages
// are never marked by their own receipt.
func (r *Reconciler) Apply(receipt event.ReadReceipt, open chat.Identity) []chat.Message {
	if !ReceiptConcerns(receipt, open) {
		r.log.Debug("Read receipt ignored", "reader_id", receipt.ReaderID, "to_id", receipt.ToID, "open", open.String())
		return nil
	}
	return r.store.MarkReadBy(receipt.ReaderID, func(m chat.Message) bool {
		return m.Sender != receipt.ReaderID
	})
}
