package session

import (
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"chat-sync/errors"
	"chat-sync/mocks"
	"chat-sync/transport"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const me = chat.UserID("me")

type fixture struct {
	session *Session
	loader  *mocks.MockHistoryLoader
	acker   *mocks.MockAcknowledger
	cells   transport.Cells
	events  chan event.DomainEvent
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockHistoryLoader(ctrl)
	acker := mocks.NewMockAcknowledger(ctrl)
	cells := transport.NewCells()
	events := make(chan event.DomainEvent, 128)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	s := NewSession(log, me, loader, acker, cells, events, time.Second)
	return fixture{session: s, loader: loader, acker: acker, cells: cells, events: events}
}

// openAndSeed drives the loop steps by hand: open, wait for the fetch, apply it.
func (f fixture) openAndSeed(t *testing.T, ctx context.Context, identity chat.Identity, history []chat.Message) {
	f.loader.EXPECT().Load(gomock.Any(), identity).Return(history, nil).Times(1)
	f.session.handleOpen(ctx, identity)
	f.session.handleHistory(ctx, f.nextResult(t))
}

func (f fixture) nextResult(t *testing.T) historyResult {
	select {
	case res := <-f.session.results:
		return res
	case <-time.After(time.Second):
		require.FailNow(t, "history result never posted")
		return historyResult{}
	}
}

func (f fixture) expectAck(target chat.UserID, chatType chat.ChatType) chan struct{} {
	acked := make(chan struct{})
	f.acker.EXPECT().
		NotifyRead(gomock.Any(), target, chatType).
		DoAndReturn(func(context.Context, chat.UserID, chat.ChatType) error {
			close(acked)
			return nil
		}).
		Times(1)
	return acked
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	select {
	case <-ch:
	case <-time.After(time.Second):
		require.FailNow(t, what)
	}
}

func nextChange(t *testing.T, events <-chan event.DomainEvent) event.StoreChanged {
	select {
	case evt := <-events:
		changed, ok := evt.(event.StoreChanged)
		require.True(t, ok)
		return changed
	case <-time.After(time.Second):
		require.FailNow(t, "no store change published")
		return event.StoreChanged{}
	}
}

func drain(events chan event.DomainEvent) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}

func Test_Session_Direct_Message_Is_Appended_And_Acknowledged(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	identity := chat.NewIdentity("u1", chat.ChatTypeUser)

	// Given an open direct conversation with an empty history
	f.openAndSeed(t, ctx, identity, []chat.Message{})
	req.Equal(event.StateLive, f.session.state)
	acked := f.expectAck("u1", chat.ChatTypeUser)

	// When u1 sends a message
	f.cells.Message.Put(event.MessageReceived{Type: chat.ChatTypeUser, Sender: "u1", Receiver: "me", Body: "hi"})
	f.session.handleMessage(ctx)

	// Then it is stored, read by me, and u1 is told
	messages := f.session.store.Messages()
	req.Len(messages, 1)
	req.Equal(chat.UserID("u1"), messages[0].Sender)
	req.Equal("hi", messages[0].Body)
	req.Equal([]chat.UserID{me}, messages[0].Readers)
	waitFor(t, acked, "acknowledgement not sent")

	// And the cell has been cleared
	_, pending := f.cells.Message.Take()
	req.False(pending)
}

func Test_Session_Room_Message_Filtering(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.openAndSeed(t, ctx, chat.NewIdentity("r9", chat.ChatTypeRoom), nil)
	acked := f.expectAck("r9", chat.ChatTypeRoom)

	f.cells.Message.Put(event.MessageReceived{ID: "m-1", Type: chat.ChatTypeRoom, Sender: "u2", Receiver: "r9", Body: "yo"})
	f.session.handleMessage(ctx)
	req.Equal(1, f.session.store.Len())
	waitFor(t, acked, "room acknowledgement not sent")

	// A message for another room is consumed but never applied nor acknowledged
	f.cells.Message.Put(event.MessageReceived{ID: "m-2", Type: chat.ChatTypeRoom, Sender: "u2", Receiver: "r5", Body: "elsewhere"})
	f.session.handleMessage(ctx)
	req.Equal(1, f.session.store.Len())
	req.Equal("m-1", f.session.store.Messages()[0].ID)
	_, pending := f.cells.Message.Take()
	req.False(pending)
}

func Test_Session_Read_Receipt_Self_Exclusion(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	identity := chat.NewIdentity("u1", chat.ChatTypeUser)
	f.openAndSeed(t, ctx, identity, []chat.Message{{ID: "m-1", Sender: "u1", Receiver: "me", Type: chat.ChatTypeUser}})
	drain(f.events)

	// u1 reading their own message changes nothing and publishes nothing
	f.cells.Receipt.Put(event.ReadReceipt{Type: chat.ChatTypeUser, ReaderID: "u1", ToID: "me"})
	f.session.handleReceipt(ctx)
	req.Empty(f.session.store.Messages()[0].Readers)
	req.Empty(f.events)

	// me reading the conversation marks it
	f.cells.Receipt.Put(event.ReadReceipt{Type: chat.ChatTypeUser, ReaderID: "me", ToID: "u1"})
	f.session.handleReceipt(ctx)
	req.Equal([]chat.UserID{me}, f.session.store.Messages()[0].Readers)
	change := nextChange(t, f.events)
	req.Equal(event.CauseRead, change.Cause)
	req.Len(change.Changed, 1)
}

func Test_Session_Same_Receipt_Twice(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.openAndSeed(t, ctx, chat.NewIdentity("r9", chat.ChatTypeRoom), []chat.Message{
		{ID: "m-1", Sender: "me", Receiver: "r9", Type: chat.ChatTypeRoom},
		{ID: "m-2", Sender: "u3", Receiver: "r9", Type: chat.ChatTypeRoom},
	})
	receipt := event.ReadReceipt{Type: chat.ChatTypeRoom, ReaderID: "u2", ToID: "r9"}

	f.cells.Receipt.Put(receipt)
	f.session.handleReceipt(ctx)
	once := f.session.store.Messages()
	drain(f.events)

	f.cells.Receipt.Put(receipt)
	f.session.handleReceipt(ctx)
	req.Equal(once, f.session.store.Messages())
	req.Empty(f.events)
}

func Test_Session_Arrival_Order_Without_Duplicates(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.openAndSeed(t, ctx, chat.NewIdentity("r9", chat.ChatTypeRoom), []chat.Message{{ID: "h-1", Sender: "u2", Type: chat.ChatTypeRoom, Receiver: "r9"}})

	acks := make(chan struct{}, 20)
	f.acker.EXPECT().NotifyRead(gomock.Any(), chat.UserID("r9"), chat.ChatTypeRoom).
		DoAndReturn(func(context.Context, chat.UserID, chat.ChatType) error {
			acks <- struct{}{}
			return nil
		}).
		Times(20)

	for i := 0; i < 20; i++ {
		f.cells.Message.Put(event.MessageReceived{ID: fmt.Sprintf("m-%d", i), Type: chat.ChatTypeRoom, Sender: "u2", Receiver: "r9"})
		f.session.handleMessage(ctx)
		// Redelivery of the same event is ignored
		f.cells.Message.Put(event.MessageReceived{ID: fmt.Sprintf("m-%d", i), Type: chat.ChatTypeRoom, Sender: "u2", Receiver: "r9"})
		f.session.handleMessage(ctx)
	}

	messages := f.session.store.Messages()
	req.Len(messages, 21)
	req.Equal("h-1", messages[0].ID)
	for i := 0; i < 20; i++ {
		req.Equal(fmt.Sprintf("m-%d", i), messages[i+1].ID)
	}
	for i := 0; i < 20; i++ {
		waitFor(t, acks, "acknowledgements missing")
	}
}

func Test_Session_Stale_History_Is_Discarded(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	a := chat.NewIdentity("a", chat.ChatTypeUser)
	b := chat.NewIdentity("b", chat.ChatTypeUser)
	release := make(chan struct{})

	// Given A's history is slow and ignores cancellation
	f.loader.EXPECT().Load(gomock.Any(), a).
		DoAndReturn(func(context.Context, chat.Identity) ([]chat.Message, error) {
			<-release
			return []chat.Message{{ID: "a-1", Sender: "a"}}, nil
		}).Times(1)
	f.loader.EXPECT().Load(gomock.Any(), b).
		Return([]chat.Message{{ID: "b-1", Sender: "b"}}, nil).Times(1)

	// When the user switches to B before A resolves
	f.session.handleOpen(ctx, a)
	f.session.handleOpen(ctx, b)
	f.session.handleHistory(ctx, f.nextResult(t))
	close(release)
	f.session.handleHistory(ctx, f.nextResult(t))

	// Then only B's seed is visible
	messages := f.session.store.Messages()
	req.Len(messages, 1)
	req.Equal("b-1", messages[0].ID)
	req.Equal(b, f.session.identity)
	req.Equal(event.StateLive, f.session.state)
}

func Test_Session_Switch_Cancels_Pending_Fetch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := chat.NewIdentity("a", chat.ChatTypeUser)
	cancelled := make(chan struct{})

	f.loader.EXPECT().Load(gomock.Any(), a).
		DoAndReturn(func(ctx context.Context, _ chat.Identity) ([]chat.Message, error) {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}).Times(1)

	f.session.handleOpen(ctx, a)
	f.session.handleOpen(ctx, chat.Identity{})
	waitFor(t, cancelled, "fetch for A was not cancelled")

	// The cancelled result is stale and leaves the idle session untouched
	f.session.handleHistory(ctx, f.nextResult(t))
	require.Equal(t, event.StateIdle, f.session.state)
	require.Zero(t, f.session.store.Len())
}

func Test_Session_History_Failure_Is_Surfaced(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	identity := chat.NewIdentity("u1", chat.ChatTypeUser)
	failure := fmt.Errorf("%w: boom", errors.ErrHistoryFetch)

	f.loader.EXPECT().Load(gomock.Any(), identity).Return(nil, failure).Times(1)
	f.session.handleOpen(ctx, identity)
	req.True(nextChange(t, f.events).Loading())
	f.session.handleHistory(ctx, f.nextResult(t))

	change := nextChange(t, f.events)
	req.Equal(event.StateFailed, change.State)
	req.Equal(event.CauseFailed, change.Cause)
	req.ErrorIs(change.Err, errors.ErrHistoryFetch)
	req.False(change.Loading())

	// Live events are consumed but not applied while failed
	f.cells.Message.Put(event.MessageReceived{Type: chat.ChatTypeUser, Sender: "u1", Receiver: "me"})
	f.session.handleMessage(ctx)
	req.Zero(f.session.store.Len())

	// Re-opening retries once
	f.openAndSeed(t, ctx, identity, []chat.Message{{ID: "h-1", Sender: "u1"}})
	req.Equal(event.StateLive, f.session.state)
	req.Equal(1, f.session.store.Len())
}

func Test_Session_Malformed_Event_Is_Dropped(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.openAndSeed(t, ctx, chat.NewIdentity("u1", chat.ChatTypeUser), nil)

	f.cells.Message.Put(event.MessageReceived{Type: chat.ChatTypeUser, Body: "no routing"})
	f.session.handleMessage(ctx)
	f.cells.Receipt.Put(event.ReadReceipt{Type: chat.ChatTypeUser})
	f.session.handleReceipt(ctx)
	req.Zero(f.session.store.Len())

	// The next valid event still goes through
	acked := f.expectAck("u1", chat.ChatTypeUser)
	f.cells.Message.Put(event.MessageReceived{Type: chat.ChatTypeUser, Sender: "u1", Receiver: "me"})
	f.session.handleMessage(ctx)
	req.Equal(1, f.session.store.Len())
	waitFor(t, acked, "acknowledgement not sent")
}

func Test_Session_Acknowledgement_Failure_Does_Not_Block(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.openAndSeed(t, ctx, chat.NewIdentity("u1", chat.ChatTypeUser), nil)
	attempted := make(chan struct{})

	f.acker.EXPECT().NotifyRead(gomock.Any(), chat.UserID("u1"), chat.ChatTypeUser).
		DoAndReturn(func(context.Context, chat.UserID, chat.ChatType) error {
			close(attempted)
			return errors.ErrSocketClosed
		}).Times(1)

	f.cells.Message.Put(event.MessageReceived{Type: chat.ChatTypeUser, Sender: "u1", Receiver: "me"})
	f.session.handleMessage(ctx)
	req.Equal(1, f.session.store.Len())
	waitFor(t, attempted, "acknowledgement never attempted")
}

func Test_Session_Run_Defers_Live_Events_Until_Seeded(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	identity := chat.NewIdentity("u1", chat.ChatTypeUser)
	release := make(chan struct{})
	acked := f.expectAck("u1", chat.ChatTypeUser)

	f.loader.EXPECT().Load(gomock.Any(), identity).
		DoAndReturn(func(context.Context, chat.Identity) ([]chat.Message, error) {
			<-release
			return []chat.Message{{ID: "h-1", Sender: "u1"}}, nil
		}).Times(1)

	done := make(chan error, 1)
	go func() { done <- f.session.Run(ctx) }()

	// Given the conversation is loading
	req.NoError(f.session.Open(ctx, identity))
	req.True(nextChange(t, f.events).Loading())

	// When a live message arrives before history
	f.cells.Message.Put(event.MessageReceived{ID: "live-1", Type: chat.ChatTypeUser, Sender: "u1", Receiver: "me"})
	time.Sleep(50 * time.Millisecond)
	req.Empty(f.events)

	// Then it lands after the backlog once history resolves
	close(release)
	seeded := nextChange(t, f.events)
	req.Equal(event.CauseSeeded, seeded.Cause)
	req.Len(seeded.Messages, 1)

	appended := nextChange(t, f.events)
	req.Equal(event.CauseAppended, appended.Cause)
	req.Len(appended.Messages, 2)
	req.Equal("h-1", appended.Messages[0].ID)
	req.Equal("live-1", appended.Messages[1].ID)
	req.Equal([]chat.UserID{me}, appended.Changed[0].Readers)
	waitFor(t, acked, "acknowledgement not sent")

	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("session did not stop")
	}
}

func Test_Session_Run_Defers_Read_Receipt_Until_Seeded(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	identity := chat.NewIdentity("u1", chat.ChatTypeUser)
	release := make(chan struct{})
	history := []chat.Message{
		{ID: "h-1", Sender: "u1", Receiver: me, Type: chat.ChatTypeUser, Readers: []chat.UserID{"u1"}},
		{ID: "h-2", Sender: me, Receiver: "u1", Type: chat.ChatTypeUser, Readers: []chat.UserID{me}},
	}

	f.loader.EXPECT().Load(gomock.Any(), identity).
		DoAndReturn(func(context.Context, chat.Identity) ([]chat.Message, error) {
			<-release
			return history, nil
		}).Times(1)
	f.acker.EXPECT().NotifyRead(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	done := make(chan error, 1)
	go func() { done <- f.session.Run(ctx) }()

	// Given the conversation is loading
	req.NoError(f.session.Open(ctx, identity))
	req.True(nextChange(t, f.events).Loading())

	// When the counterpart's read receipt arrives before history
	f.cells.Receipt.Put(event.ReadReceipt{Type: chat.ChatTypeUser, ReaderID: "u1", ToID: me})
	time.Sleep(50 * time.Millisecond)
	req.Empty(f.events)
	req.True(f.cells.Receipt.Pending())

	// Then it is applied on top of the seeded backlog
	close(release)
	seeded := nextChange(t, f.events)
	req.Equal(event.CauseSeeded, seeded.Cause)
	req.Equal([]chat.UserID{me}, seeded.Messages[1].Readers)

	read := nextChange(t, f.events)
	req.Equal(event.CauseRead, read.Cause)
	req.Len(read.Changed, 1)
	req.Equal("h-2", read.Changed[0].ID)
	req.Equal([]chat.UserID{me, "u1"}, read.Changed[0].Readers)
	req.Equal([]chat.UserID{"u1"}, read.Messages[0].Readers)
	req.False(f.cells.Receipt.Pending())

	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("session did not stop")
	}
}

func Test_Session_Run_Discards_Events_When_Idle(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = f.session.Run(ctx) }()

	f.cells.Message.Put(event.MessageReceived{Type: chat.ChatTypeUser, Sender: "u1", Receiver: "me"})
	req.Eventually(func() bool {
		return !f.cells.Message.Pending()
	}, time.Second, 10*time.Millisecond)
	req.Empty(f.events)
}
