package main

import (
	"chat-sync/assistant"
	"chat-sync/auth"
	"chat-sync/contract"
	"chat-sync/domain/event"
	"chat-sync/history"
	"chat-sync/internal"
	"chat-sync/repositories"
	"chat-sync/runtime/workers"
	"chat-sync/services"
	"chat-sync/session"
	"chat-sync/sink"
	"chat-sync/transport"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the client and blocks until /quit, end of input or a signal.
// Returning an error instead of exiting lets every defer run.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	self, err := auth.ResolveUserID(config.UserID, config.AccessToken)
	if err != nil {
		return fmt.Errorf("cannot tell who is acting: %w", err)
	}

	// 2. Local archive (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Conversation core
	cells := transport.NewCells()
	socket := transport.NewSocket(log, config.SocketURL, config.AccessToken, cells)
	historyService := history.NewHTTPService(log, &http.Client{}, config.HistoryURL, config.AccessToken)
	loader := history.NewLoader(log, historyService, self, config.HistoryTimeout)
	events := make(chan event.DomainEvent, config.EventBufferSize)
	conversation := session.NewSession(log, self, loader, socket, cells, events, config.AckTimeout)

	// 5. Sinks
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	timeline := sink.NewTimeline(self)
	terminal := sink.NewTerminalSink(os.Stdout, self)
	fanout := workers.NewEventFanout(log, events, config.SinkTimeout).Add(
		terminal,
		timeline,
		sink.NewDiskSink(messageRepository, log),
	)

	// 6. Assistant panel
	var asker services.AssistantAsker
	if config.AssistantEnabled() {
		generator, err := assistant.NewGeminiGenerator(ctx, config.GeminiAPIKey, config.GeminiModel)
		if err != nil {
			return err
		}
		asker = assistant.NewAssistant(log, generator, assistant.NewTranscript(), config.AssistantTimeout)
		fmt.Println(assistant.Greeting)
	}

	// 7. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval).
		OnRestart(func(r workers.Restart) {
			terminal.Notice("%s failed, retrying in %s (attempt %d)", r.Worker, r.Wait, r.Attempt)
		})
	chatService := services.NewChatService(log, conversation, asker, os.Stdout, sup.Stop)
	console := workers.NewConsole(log, os.Stdin, os.Stdout, chatService)

	capacity := workers.NewChannelCapacityWorker(log, config.MetricInterval).
		WatchChannel("events", events).
		WatchCounter("message_slot", cells.Message.Dropped).
		WatchCounter("receipt_slot", cells.Receipt.Dropped)

	workerList := []contract.Worker{socket, conversation, fanout, console, capacity}
	for _, w := range workerList {
		log.Debug("Registering worker", "name", contract.GetWorkerName(w))
	}
	fmt.Printf("Signed in as %s. Type /open user|room <id>, /ask <question> or /quit\n", self)
	sup.Add(workerList...).Run(ctx)

	log.Info("Client stopped", "chat_id", timeline.Snapshot().Identity.String(), "unread", timeline.Unread())
	return nil
}
