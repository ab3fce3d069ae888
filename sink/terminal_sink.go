package sink

import (
	"chat-sync/contract"
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/samber/lo"
)

var _ contract.EventSink = (*TerminalSink)(nil)

var (
	headerStyle = color.New(color.FgCyan, color.OpBold)
	selfStyle   = color.New(color.FgGreen)
	otherStyle  = color.New(color.FgYellow)
	mutedStyle  = color.New(color.FgGray)
	errorStyle  = color.New(color.FgRed, color.OpBold)
)

// TerminalSink renders store mutations as lines on a terminal.
// Appended messages are printed at the bottom, which is the console's auto-scroll.
type TerminalSink struct {
	mu   sync.Mutex
	out  io.Writer
	self chat.UserID
}

func NewTerminalSink(out io.Writer, self chat.UserID) *TerminalSink {
	return &TerminalSink{out: out, self: self}
}

func (s *TerminalSink) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.StoreChanged)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch evt.Cause {
	case event.CauseOpened:
		if evt.Identity.IsZero() {
			_, err = fmt.Fprintln(s.out, mutedStyle.Sprint("-- no conversation open --"))
			break
		}
		_, err = fmt.Fprintln(s.out, headerStyle.Sprintf("== %s %s == loading...", evt.Identity.ChatType, evt.Identity.ChatID))
	case event.CauseSeeded:
		if len(evt.Messages) == 0 {
			_, err = fmt.Fprintln(s.out, mutedStyle.Sprint("(no messages yet)"))
			break
		}
		err = s.lines(evt.Messages)
	case event.CauseAppended:
		err = s.lines(evt.Changed)
	case event.CauseRead:
		for _, m := range evt.Changed {
			if _, err = fmt.Fprintln(s.out, mutedStyle.Sprintf("   seen: %q by %s", excerpt(m.Body), joinReaders(m.Readers))); err != nil {
				break
			}
		}
	case event.CauseFailed:
		_, err = fmt.Fprintln(s.out, errorStyle.Sprintf("!! could not load %s: %v (re-open to retry)", evt.Identity, evt.Err))
	}
	return err
}

// Notice prints an out-of-band status line, such as a reconnect.
func (s *TerminalSink) Notice(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.out, mutedStyle.Sprintf("-- "+format+" --", args...))
}

func (s *TerminalSink) lines(messages []chat.Message) error {
	for _, m := range messages {
		if _, err := fmt.Fprintln(s.out, s.Line(m)); err != nil {
			return err
		}
	}
	return nil
}

// Line formats one message: time, author, body and read marker.
func (s *TerminalSink) Line(m chat.Message) string {
	style := otherStyle
	if m.Sender == s.self {
		style = selfStyle
	}
	return fmt.Sprintf("[%s] %s: %s %s",
		m.CreatedAt.Local().Format(time.TimeOnly),
		style.Sprint(m.Sender),
		m.Body,
		mutedStyle.Sprint(s.readMarker(m)),
	)
}

// readMarker shows one tick when only the author (or nobody) saw it, two when someone else did.
func (s *TerminalSink) readMarker(m chat.Message) string {
	others := lo.Filter(m.Readers, func(reader chat.UserID, _ int) bool {
		return reader != m.Sender
	})
	if len(others) == 0 {
		return "✓"
	}
	return "✓✓"
}

func joinReaders(readers []chat.UserID) string {
	return strings.Join(lo.Map(readers, func(r chat.UserID, _ int) string { return string(r) }), ", ")
}

func excerpt(body string) string {
	const limit = 24
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + "…"
}
