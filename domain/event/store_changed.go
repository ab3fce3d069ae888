package event

import (
	"chat-sync/domain/chat"
)

type SessionState string

const (
	StateIdle    SessionState = "idle"
	StateLoading SessionState = "loading"
	StateLive    SessionState = "live"
	StateFailed  SessionState = "failed"
)

type Cause string

const (
	CauseOpened   Cause = "opened"
	CauseSeeded   Cause = "seeded"
	CauseAppended Cause = "appended"
	CauseRead     Cause = "read"
	CauseFailed   Cause = "failed"
)

// DomainEvent is anything the session publishes to its sinks.
type DomainEvent interface {
	ConversationID() chat.Identity
}

// StoreChanged is published after every mutation of the message store.
// Messages is the full ordered list; Changed holds only the records created
// or updated by this mutation.
type StoreChanged struct {
	Identity chat.Identity
	State    SessionState
	Cause    Cause
	Messages []chat.Message
	Changed  []chat.Message
	Err      error
}

func (s StoreChanged) ConversationID() chat.Identity {
	return s.Identity
}

// Loading is the flag rendered by the view while history is in flight.
func (s StoreChanged) Loading() bool {
	return s.State == StateLoading
}
