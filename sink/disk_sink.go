package sink

import (
	"chat-sync/contract"
	"chat-sync/domain/event"
	"chat-sync/repositories"
	"context"
	"fmt"
	"log/slog"
)

var _ contract.EventSink = DiskSink{}

// DiskSink archives every message created or updated by a store mutation.
type DiskSink struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IMessageRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.StoreChanged:
		if len(evt.Changed) == 0 {
			return nil
		}
		if err := d.repository.StoreMessages(evt.Identity, evt.Changed); err != nil {
			return fmt.Errorf("archive %s: %w", evt.Identity, err)
		}
		return nil
	default:
		d.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
		return nil
	}
}
