package main

import (
	"chat-sync/domain/chat"
	"chat-sync/repositories"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Config of the archive viewer, read with envconfig.
type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	LimitMessages  int    `envconfig:"LIMIT_MESSAGES" default:"20"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"WARN"`
}

func main() {
	chatType := flag.String("type", string(chat.ChatTypeUser), "Conversation type: user or room")
	chatID := flag.String("id", "", "Conversation id")
	cursor := flag.String("cursor", "", "Resume after this key (printed at the end of the previous page)")
	flag.Parse()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	identity := chat.NewIdentity(*chatID, chat.ChatType(*chatType))
	if identity.IsZero() || !identity.ChatType.Valid() {
		log.Fatalf("Usage: viewer -type user|room -id <id> [-cursor <key>]")
	}

	// Open Badger in Read-Only mode, the client may hold the lock
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repository := repositories.NewMessageRepository(db, logs.GetLoggerFromString(config.LogLevel), &config.LimitMessages)
	messages, next, err := repository.GetMessages(identity, lo.EmptyableToPtr(*cursor))
	if err != nil {
		log.Fatalf("Failed to read archive: %v", err)
	}
	// A full page may have a successor, a short one is the last
	more := ""
	if len(messages) == config.LimitMessages {
		more = lo.FromPtr(next)
	}
	renderPage(os.Stdout, identity, messages, more)
}

// renderPage prints one page of the archive, newest first.
func renderPage(w io.Writer, identity chat.Identity, messages []chat.Message, next string) {
	fmt.Fprintf(w, "Archive of %s\n", identity)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "Sender", "Message", "Read by"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range messages {
		table.Append([]string{
			m.CreatedAt.Local().Format(time.DateTime),
			string(m.Sender),
			m.Body,
			strings.Join(lo.Map(m.Readers, func(r chat.UserID, _ int) string { return string(r) }), ","),
		})
	}
	table.Render()

	if next != "" {
		fmt.Fprintf(w, "More: -cursor %s\n", next)
	}
}
