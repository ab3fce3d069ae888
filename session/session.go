// Package session coordinates the open conversation: it seeds the message
// store from history, applies live events in order and publishes every
// mutation to the view layer.
package session

import (
	"chat-sync/contract"
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"chat-sync/errors"
	"chat-sync/projection"
	"chat-sync/transport"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*Session)(nil)

type historyResult struct {
	generation uint64
	identity   chat.Identity
	messages   []chat.Message
	err        error
}

// Session owns the message store and the open conversation identity.
// Every mutation happens on the goroutine running Run, one at a time.
type Session struct {
	log        *slog.Logger
	self       chat.UserID
	loader     contract.HistoryLoader
	acker      contract.Acknowledger
	cells      transport.Cells
	events     chan<- event.DomainEvent
	ackTimeout time.Duration
	now        func() time.Time

	opens   chan chat.Identity
	results chan historyResult

	// Owned by the Run goroutine.
	store       *projection.MessageStore
	reconciler  *projection.Reconciler
	identity    chat.Identity
	state       event.SessionState
	generation  uint64
	cancelFetch context.CancelFunc
}

func NewSession(
	log *slog.Logger,
	self chat.UserID,
	loader contract.HistoryLoader,
	acker contract.Acknowledger,
	cells transport.Cells,
	events chan<- event.DomainEvent,
	ackTimeout time.Duration) *Session {
	store := projection.NewMessageStore()
	return &Session{
		log:        log,
		self:       self,
		loader:     loader,
		acker:      acker,
		cells:      cells,
		events:     events,
		ackTimeout: ackTimeout,
		now:        func() time.Time { return time.Now().UTC() },
		opens:      make(chan chat.Identity),
		results:    make(chan historyResult),
		store:      store,
		reconciler: projection.NewReconciler(store, log),
		state:      event.StateIdle,
	}
}

// Open asks the session to switch to identity. It returns once the Run loop
// has taken the request; the history load happens asynchronously.
func (s *Session) Open(ctx context.Context, identity chat.Identity) error {
	select {
	case s.opens <- identity:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes conversation switches, history results and live events until ctx is done.
// While history is loading the transport cells are left untouched: pending
// events wait in their slot and are drained once the store is seeded.
func (s *Session) Run(ctx context.Context) error {
	defer s.stopFetch()
	for {
		var messageReady, receiptReady <-chan struct{}
		if s.state != event.StateLoading {
			messageReady = s.cells.Message.Ready()
			receiptReady = s.cells.Receipt.Ready()
		}

		select {
		case <-ctx.Done():
			s.log.Debug("Context done, stopping session")
			return nil
		case identity := <-s.opens:
			s.handleOpen(ctx, identity)
		case result := <-s.results:
			s.handleHistory(ctx, result)
		case <-messageReady:
			s.handleMessage(ctx)
		case <-receiptReady:
			s.handleReceipt(ctx)
		}
	}
}

func (s *Session) handleOpen(ctx context.Context, identity chat.Identity) {
	s.stopFetch()
	s.generation++
	s.store.Reset()
	s.identity = identity

	if identity.IsZero() {
		s.state = event.StateIdle
		s.publish(ctx, event.CauseOpened, nil, nil)
		return
	}

	s.state = event.StateLoading
	s.log.Info("Opening conversation", "chat_id", identity.String())
	s.publish(ctx, event.CauseOpened, nil, nil)

	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	generation := s.generation
	go func() {
		messages, err := s.loader.Load(fetchCtx, identity)
		select {
		case s.results <- historyResult{generation: generation, identity: identity, messages: messages, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) handleHistory(ctx context.Context, result historyResult) {
	if result.generation != s.generation || result.identity != s.identity {
		s.log.Debug(errors.ErrStaleResponse.Error(),
			"chat_id", result.identity.String(),
			"open", s.identity.String())
		return
	}
	s.stopFetch()

	if result.err != nil {
		s.state = event.StateFailed
		s.log.Warn("History load failed", "chat_id", s.identity.String(), "error", result.err)
		s.publish(ctx, event.CauseFailed, nil, result.err)
		return
	}

	s.store.Seed(result.messages)
	s.state = event.StateLive
	s.publish(ctx, event.CauseSeeded, s.store.Messages(), nil)

	// Events that arrived while loading are applied on top of the backlog.
	s.handleMessage(ctx)
	s.handleReceipt(ctx)
}

// handleMessage consumes the pending message event, if any.
func (s *Session) handleMessage(ctx context.Context) {
	evt, ok := s.cells.Message.Take()
	if !ok {
		return
	}
	defer s.recoverStep("message")

	if err := event.Validate(evt); err != nil {
		s.log.Warn("Dropping live message", "error", err)
		return
	}
	if s.state != event.StateLive {
		s.log.Debug("Live message discarded", "state", s.state)
		return
	}
	if !projection.BelongsToOpenConversation(evt, s.identity) {
		s.log.Debug("Live message for another conversation", "type", evt.Type, "sender", evt.Sender, "receiver", evt.Receiver)
		return
	}

	// Arrival implies the local user has seen it.
	message := evt.ToMessage(s.now())
	if !s.store.Append(message, s.self) {
		s.log.Debug("Duplicate live message ignored", "message_id", message.ID)
		return
	}
	s.publish(ctx, event.CauseAppended, []chat.Message{message.WithReader(s.self)}, nil)
	s.acknowledge(ctx, evt.AckTarget(), evt.Type)
}

// handleReceipt consumes the pending read receipt, if any. Receipts are never acknowledged.
func (s *Session) handleReceipt(ctx context.Context) {
	receipt, ok := s.cells.Receipt.Take()
	if !ok {
		return
	}
	defer s.recoverStep("receipt")

	if err := event.Validate(receipt); err != nil {
		s.log.Warn("Dropping read receipt", "error", err)
		return
	}
	if s.state != event.StateLive {
		s.log.Debug("Read receipt discarded", "state", s.state)
		return
	}
	changed := s.reconciler.Apply(receipt, s.identity)
	if len(changed) == 0 {
		return
	}
	s.publish(ctx, event.CauseRead, changed, nil)
}

// acknowledge is fire-and-forget: the local store is already updated and a
// failure is only logged.
func (s *Session) acknowledge(ctx context.Context, target chat.UserID, chatType chat.ChatType) {
	if s.acker == nil {
		return
	}
	go func() {
		ackCtx, cancel := context.WithTimeout(ctx, s.ackTimeout)
		defer cancel()
		if err := s.acker.NotifyRead(ackCtx, target, chatType); err != nil {
			s.log.Warn("Read acknowledgement failed", "target", target, "type", chatType, "error", err)
		}
	}()
}

func (s *Session) publish(ctx context.Context, cause event.Cause, changed []chat.Message, err error) {
	if s.events == nil {
		return
	}
	evt := event.StoreChanged{
		Identity: s.identity,
		State:    s.state,
		Cause:    cause,
		Messages: s.store.Messages(),
		Changed:  changed,
		Err:      err,
	}
	select {
	case s.events <- evt:
	case <-ctx.Done():
	}
}

func (s *Session) stopFetch() {
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
}

// recoverStep keeps one broken event from stopping the loop.
func (s *Session) recoverStep(step string) {
	if r := recover(); r != nil {
		s.log.Error("Live event step panicked", "step", step, "panic", r)
	}
}
