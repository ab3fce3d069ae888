package history

import (
	"chat-sync/domain/chat"
	"chat-sync/errors"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Loader fetches the initial snapshot of the open conversation.
// It makes exactly one attempt per call; re-opening the conversation retries.
type Loader struct {
	service Service
	userID  chat.UserID
	timeout time.Duration
	log     *slog.Logger
}

func NewLoader(log *slog.Logger, service Service, userID chat.UserID, timeout time.Duration) *Loader {
	return &Loader{service: service, userID: userID, timeout: timeout, log: log}
}

func (l *Loader) Load(ctx context.Context, identity chat.Identity) ([]chat.Message, error) {
	if identity.IsZero() {
		return nil, errors.ErrNoConversation
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	messages, err := l.service.Messages(ctx, l.userID, identity.ChatID, identity.ChatType)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", errors.ErrHistoryFetch, identity, err)
	}
	l.log.Debug("History loaded", "chat_id", identity.String(), "count", len(messages), "took", time.Since(start))
	return messages, nil
}
