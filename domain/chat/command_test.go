package chat

import (
	"chat-sync/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseCommand_Open(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand("/open room r9")
	req.NoError(err)
	req.Equal(OpenConversationCommand{Identity: Identity{ChatID: "r9", ChatType: ChatTypeRoom}}, cmd)

	cmd, err = ParseCommand("  /open user u1  ")
	req.NoError(err)
	req.Equal(OpenConversationCommand{Identity: Identity{ChatID: "u1", ChatType: ChatTypeUser}}, cmd)
}

func Test_ParseCommand_Open_Rejects_Unknown_Type(t *testing.T) {
	_, err := ParseCommand("/open channel c1")
	require.ErrorIs(t, err, errors.ErrUnknownChatType)
}

func Test_ParseCommand_Ask_Keeps_Whole_Question(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand("/ask what  is a *goroutine*?")
	req.NoError(err)
	req.Equal(AskAssistantCommand{Question: "what  is a *goroutine*?"}, cmd)

	_, err = ParseCommand("/ask   ")
	req.ErrorIs(err, errors.ErrEmptyQuestion)
}

func Test_ParseCommand_Unknown(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand("/quit")
	req.NoError(err)
	req.Equal("quit", cmd.Name())

	_, err = ParseCommand("hello")
	req.ErrorIs(err, errors.ErrUnknownCommand)
	_, err = ParseCommand("")
	req.ErrorIs(err, errors.ErrUnknownCommand)
}

func Test_ParseCommand_History(t *testing.T) {
	req := require.New(t)

	cmd, err := ParseCommand("  /history ")
	req.NoError(err)
	req.Equal(AssistantHistoryCommand{}, cmd)
}
