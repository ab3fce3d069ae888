package workers

import (
	"chat-sync/contract"
	"chat-sync/domain/event"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout hands every event published by the session to each sink.
//
// Sinks are called one after another, in registration order, so a view
// renders mutations in the order the store went through them. A sink gets
// sinkTimeout per event; its error is logged and never stops the fanout.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	sinkTimeout time.Duration
	sinks       []contract.EventSink
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, events: events, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout One sink after the other for each event
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		w.consume(ctx, sink, evt)
	}
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Warn("Sink failed", "chat_id", evt.ConversationID().String(), "error", err)
	}
}
