package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_NewMessage_Generates_Missing_ID(t *testing.T) {
	req := require.New(t)
	at := time.Now().UTC()

	first := NewMessage("", "u1", "me", ChatTypeUser, "hi", at)
	second := NewMessage("", "u1", "me", ChatTypeUser, "hi", at)
	req.NotEmpty(first.ID)
	req.NotEqual(first.ID, second.ID)

	kept := NewMessage("m-1", "u1", "me", ChatTypeUser, "hi", at)
	req.Equal("m-1", kept.ID)
}

func Test_WithReader_Does_Not_Share_Readers(t *testing.T) {
	req := require.New(t)
	original := Message{ID: "m-1", Sender: "u1", Readers: []UserID{"u1"}}

	updated := original.WithReader("me")
	req.Equal([]UserID{"u1", "me"}, updated.Readers)
	req.Equal([]UserID{"u1"}, original.Readers)

	again := updated.WithReader("me")
	req.Equal([]UserID{"u1", "me"}, again.Readers)
	req.True(again.ReadBy("me"))
	req.False(again.ReadBy("u2"))
}
