// Package transport connects the client to the chat server's live socket.
// Inbound events are handed over through single-slot cells; outbound read
// acknowledgements are written back on the same connection.
package transport

import (
	"chat-sync/domain/event"
	"sync"
)

// Slot is a single-writer, single-reader cell holding the latest undelivered value.
// A Put overwrites any value not yet taken (last-write-wins); Take consumes
// and clears it so the same value is never delivered twice.
type Slot[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
	ready   chan struct{}
	dropped int
}

func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ready: make(chan struct{}, 1)}
}

// Put stores v and signals the reader. It reports whether an undelivered value was overwritten.
func (s *Slot[T]) Put(v T) bool {
	s.mu.Lock()
	overwritten := s.pending
	if overwritten {
		s.dropped++
	}
	s.value = v
	s.pending = true
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return overwritten
}

// Take returns the pending value and clears the cell.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if !s.pending {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.pending = false
	return v, true
}

// Pending reports whether a value is waiting to be taken.
func (s *Slot[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Ready fires after a Put. A signal may outlive the value it announced,
// so readers must handle a Take that finds nothing.
func (s *Slot[T]) Ready() <-chan struct{} {
	return s.ready
}

// Reset clears the cell without delivering its value.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.pending = false
}

// Dropped counts the values overwritten before being taken.
func (s *Slot[T]) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Cells are the two independently resettable "latest event" cells fed by the socket.
type Cells struct {
	Message *Slot[event.MessageReceived]
	Receipt *Slot[event.ReadReceipt]
}

func NewCells() Cells {
	return Cells{
		Message: NewSlot[event.MessageReceived](),
		Receipt: NewSlot[event.ReadReceipt](),
	}
}
