package assistant

import (
	"sync"
	"time"
)

type Role string

const (
	RoleQuestion Role = "question"
	RoleAnswer   Role = "answer"
)

type Entry struct {
	Role Role
	Text string
	At   time.Time
}

// Transcript is the assistant panel's history. Entries are only ever appended.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Append(entry Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
}

func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}
