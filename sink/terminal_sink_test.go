package sink

import (
	"bytes"
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
)

func Test_TerminalSink_Renders_Each_Cause(t *testing.T) {
	req := require.New(t)
	color.Disable()
	var out bytes.Buffer
	terminal := NewTerminalSink(&out, "me")
	direct := chat.NewIdentity("bob", chat.ChatTypeUser)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	hello := chat.Message{ID: "m-1", Sender: "bob", Receiver: "me", Type: chat.ChatTypeUser, Body: "hello there", Readers: []chat.UserID{"bob"}, CreatedAt: at}
	answer := chat.Message{ID: "m-2", Sender: "me", Receiver: "bob", Type: chat.ChatTypeUser, Body: "hi bob", Readers: []chat.UserID{"me"}, CreatedAt: at}
	seen := answer.WithReader("bob")

	events := []event.StoreChanged{
		{Identity: direct, State: event.StateLoading, Cause: event.CauseOpened},
		{Identity: direct, State: event.StateLive, Cause: event.CauseSeeded, Messages: []chat.Message{hello}},
		{Identity: direct, State: event.StateLive, Cause: event.CauseAppended, Messages: []chat.Message{hello, answer}, Changed: []chat.Message{answer}},
		{Identity: direct, State: event.StateLive, Cause: event.CauseRead, Messages: []chat.Message{hello, seen}, Changed: []chat.Message{seen}},
		{Identity: direct, State: event.StateFailed, Cause: event.CauseFailed, Err: fmt.Errorf("timeout")},
	}
	for _, evt := range events {
		req.NoError(terminal.Consume(context.Background(), evt))
	}

	rendered := out.String()
	req.Contains(rendered, "== user bob == loading...")
	req.Contains(rendered, "bob: hello there ✓")
	req.Contains(rendered, "me: hi bob ✓")
	req.Contains(rendered, `seen: "hi bob" by me, bob`)
	req.Contains(rendered, "could not load user:bob: timeout")
}

func Test_TerminalSink_Marks_Messages_Read_By_Others(t *testing.T) {
	req := require.New(t)
	color.Disable()
	terminal := NewTerminalSink(&bytes.Buffer{}, "me")
	message := chat.Message{Sender: "me", Body: "ping", Readers: []chat.UserID{"me"}}

	req.Contains(terminal.Line(message), "ping ✓")
	req.NotContains(terminal.Line(message), "✓✓")
	req.Contains(terminal.Line(message.WithReader("bob")), "ping ✓✓")
}

func Test_Excerpt_Truncates_Long_Bodies(t *testing.T) {
	req := require.New(t)
	req.Equal("short", excerpt("short"))
	req.Equal("abcdefghijklmnopqrstuvwx…", excerpt("abcdefghijklmnopqrstuvwxyz"))
}

func Test_TerminalSink_Notice(t *testing.T) {
	req := require.New(t)
	color.Disable()
	var out bytes.Buffer

	NewTerminalSink(&out, "me").Notice("%s restarted (attempt %d)", "Socket", 2)

	req.Equal("-- Socket restarted (attempt 2) --\n", out.String())
}
