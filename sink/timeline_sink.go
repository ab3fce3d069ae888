package sink

import (
	"chat-sync/contract"
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"context"
	"sync"
)

var _ contract.EventSink = (*Timeline)(nil)

// Timeline holds the latest rendered state of the open conversation.
type Timeline struct {
	mu       sync.RWMutex
	Owner    chat.UserID
	identity chat.Identity
	state    event.SessionState
	messages []chat.Message
	err      error
}

func NewTimeline(owner chat.UserID) *Timeline {
	return &Timeline{Owner: owner, state: event.StateIdle}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.StoreChanged:
		t.mu.Lock()
		defer t.mu.Unlock()
		t.identity = evt.Identity
		t.state = evt.State
		t.messages = evt.Messages
		t.err = evt.Err
	}
	return nil
}

// Snapshot returns what the view should show right now.
func (t *Timeline) Snapshot() event.StoreChanged {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return event.StoreChanged{
		Identity: t.identity,
		State:    t.state,
		Messages: append([]chat.Message(nil), t.messages...),
		Err:      t.err,
	}
}

// Unread counts the messages of others not yet read by the owner.
func (t *Timeline) Unread() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	count := 0
	for _, m := range t.messages {
		if m.Sender != t.Owner && !m.ReadBy(t.Owner) {
			count++
		}
	}
	return count
}
