package chat

import (
	"chat-sync/errors"
	"fmt"
	"strings"
)

// Command is an intent typed by the user on the console.
type Command interface {
	Name() string
}

type OpenConversationCommand struct {
	Identity Identity
}

func (OpenConversationCommand) Name() string { return "open" }

type AskAssistantCommand struct {
	Question string
}

func (AskAssistantCommand) Name() string { return "ask" }

type QuitCommand struct{}

func (QuitCommand) Name() string { return "quit" }

// AssistantHistoryCommand replays the assistant panel.
type AssistantHistoryCommand struct{}

func (AssistantHistoryCommand) Name() string { return "history" }

// ParseCommand turns a console line into a Command.
// Examples: /open user 64f1c2, /open room general, /ask what is a goroutine?, /history, /quit
func ParseCommand(line string) (Command, error) {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty line", errors.ErrUnknownCommand)
	}
	switch parts[0] {
	case "/open":
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: usage is /open user|room <id>", errors.ErrUnknownCommand)
		}
		chatType := ChatType(parts[1])
		if !chatType.Valid() {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownChatType, parts[1])
		}
		return OpenConversationCommand{Identity: NewIdentity(parts[2], chatType)}, nil
	case "/ask":
		question := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "/ask"))
		if question == "" {
			return nil, errors.ErrEmptyQuestion
		}
		return AskAssistantCommand{Question: question}, nil
	case "/history":
		return AssistantHistoryCommand{}, nil
	case "/quit", "/exit":
		return QuitCommand{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownCommand, parts[0])
	}
}
