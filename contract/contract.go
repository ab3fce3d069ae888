//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink observes what the session publishes (view, archive).
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// HistoryLoader fetches the initial snapshot of a conversation.
type HistoryLoader interface {
	Load(ctx context.Context, identity chat.Identity) ([]chat.Message, error)
}

// Acknowledger tells a counterpart that their messages have been seen.
// Calls are best-effort.
type Acknowledger interface {
	NotifyRead(ctx context.Context, target chat.UserID, chatType chat.ChatType) error
}
