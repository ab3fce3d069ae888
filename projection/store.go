// Package projection builds the local view of the open conversation from
// history snapshots and live events.
// Handles ordering, deduplication and read receipts.
// Does not emit events or interact with UI directly.
package projection

import (
	"chat-sync/domain/chat"

	"github.com/samber/lo"
)

// MessageStore holds the ordered messages of the open conversation.
// It is not safe for concurrent use: a single owner mutates it.
type MessageStore struct {
	messages []chat.Message
	index    map[string]int // message id -> position
}

func NewMessageStore() *MessageStore {
	return &MessageStore{index: make(map[string]int)}
}

// Seed replaces the whole content with a history snapshot.
// Duplicated ids inside the snapshot keep their first occurrence.
func (s *MessageStore) Seed(messages []chat.Message) {
	s.Reset()
	for _, m := range messages {
		s.Append(m)
	}
}

// Append adds message at the end, optionally marking it as read by selfReaders.
// A message whose id is already stored is ignored and false is returned.
func (s *MessageStore) Append(message chat.Message, selfReaders ...chat.UserID) bool {
	if _, ok := s.index[message.ID]; ok {
		return false
	}
	// Never alias the caller's reader slice.
	message.Readers = append([]chat.UserID(nil), message.Readers...)
	for _, reader := range selfReaders {
		message = message.WithReader(reader)
	}
	s.index[message.ID] = len(s.messages)
	s.messages = append(s.messages, message)
	return true
}

// MarkReadBy adds reader to every message matching predicate.
// It returns the messages that actually changed, so re-applying the same
// receipt returns nothing.
func (s *MessageStore) MarkReadBy(reader chat.UserID, predicate func(chat.Message) bool) []chat.Message {
	var changed []chat.Message
	for i, m := range s.messages {
		if !predicate(m) || m.ReadBy(reader) {
			continue
		}
		s.messages[i] = m.WithReader(reader)
		changed = append(changed, s.messages[i])
	}
	return changed
}

// Messages returns a copy of the ordered list.
func (s *MessageStore) Messages() []chat.Message {
	return lo.Map(s.messages, func(m chat.Message, _ int) chat.Message {
		m.Readers = append([]chat.UserID(nil), m.Readers...)
		return m
	})
}

func (s *MessageStore) Len() int {
	return len(s.messages)
}

// Reset empties the store. Used when the open conversation changes.
func (s *MessageStore) Reset() {
	s.messages = nil
	s.index = make(map[string]int)
}
