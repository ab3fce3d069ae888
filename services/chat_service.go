//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-sync/assistant"
	"chat-sync/domain/chat"
	"chat-sync/errors"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gookit/color"
)

var botStyle = color.New(color.FgMagenta)

// ConversationOpener switches the open conversation.
type ConversationOpener interface {
	Open(ctx context.Context, identity chat.Identity) error
}

// AssistantAsker answers side-panel questions.
type AssistantAsker interface {
	Ask(ctx context.Context, question string) (assistant.Entry, error)
	History() []assistant.Entry
}

type IChatService interface {
	Execute(ctx context.Context, cmd chat.Command) error
}

// ChatService dispatches console commands to the session and the assistant.
type ChatService struct {
	log    *slog.Logger
	opener ConversationOpener
	asker  AssistantAsker
	out    io.Writer
	onQuit func()
}

// NewChatService accepts a nil asker when no assistant is configured.
func NewChatService(log *slog.Logger, opener ConversationOpener, asker AssistantAsker, out io.Writer, onQuit func()) *ChatService {
	return &ChatService{log: log, opener: opener, asker: asker, out: out, onQuit: onQuit}
}

func (s *ChatService) Execute(ctx context.Context, cmd chat.Command) error {
	switch c := cmd.(type) {
	case chat.OpenConversationCommand:
		s.log.Debug("Opening conversation", "chat_id", c.Identity.String())
		return s.opener.Open(ctx, c.Identity)
	case chat.AskAssistantCommand:
		if s.asker == nil {
			return errors.ErrAssistantDisabled
		}
		if _, err := fmt.Fprintln(s.out, botStyle.Sprint("🤖 Thinking...")); err != nil {
			return err
		}
		answer, err := s.asker.Ask(ctx, c.Question)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(s.out, botStyle.Sprint("🤖 ")+assistant.Render(answer.Text))
		return err
	case chat.AssistantHistoryCommand:
		if s.asker == nil {
			return errors.ErrAssistantDisabled
		}
		return s.printHistory(s.asker.History())
	case chat.QuitCommand:
		if s.onQuit != nil {
			s.onQuit()
		}
		return nil
	default:
		return fmt.Errorf("unsupported command %q", cmd.Name())
	}
}

func (s *ChatService) printHistory(entries []assistant.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(s.out, botStyle.Sprint("🤖 "+assistant.Greeting))
		return err
	}
	for _, entry := range entries {
		line := "> " + entry.Text
		if entry.Role == assistant.RoleAnswer {
			line = botStyle.Sprint("🤖 ") + assistant.Render(entry.Text)
		}
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			return err
		}
	}
	return nil
}
