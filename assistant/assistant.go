// Package assistant is the side panel answering free-form questions.
// It never touches the conversation's message store.
package assistant

import (
	"chat-sync/errors"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const Greeting = "Hi! I'm your personal assistant. How can I assist you?"

type Assistant struct {
	log        *slog.Logger
	generator  Generator
	transcript *Transcript
	timeout    time.Duration
	now        func() time.Time
}

func NewAssistant(log *slog.Logger, generator Generator, transcript *Transcript, timeout time.Duration) *Assistant {
	return &Assistant{log: log, generator: generator, transcript: transcript, timeout: timeout, now: time.Now}
}

// History is the panel's transcript, oldest first.
func (a *Assistant) History() []Entry {
	return a.transcript.Entries()
}

// Ask records the question, asks the generator and records its answer.
// A blank question is refused before anything is recorded.
func (a *Assistant) Ask(ctx context.Context, question string) (Entry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Entry{}, errors.ErrEmptyQuestion
	}
	a.transcript.Append(Entry{Role: RoleQuestion, Text: question, At: a.now()})

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	text, err := a.generator.Generate(ctx, question)
	if err != nil {
		a.log.Warn("Assistant failed to answer", "error", err)
		return Entry{}, fmt.Errorf("ask assistant: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Entry{}, errors.ErrEmptyAnswer
	}
	answer := Entry{Role: RoleAnswer, Text: text, At: a.now()}
	a.transcript.Append(answer)
	return answer, nil
}
