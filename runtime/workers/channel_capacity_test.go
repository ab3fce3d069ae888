package workers

import (
	"chat-sync/domain/event"
	"chat-sync/transport"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestChannelCapacity_Sample(t *testing.T) {
	req := require.New(t)
	events := make(chan event.DomainEvent, 4)
	events <- event.StoreChanged{}
	events <- event.StoreChanged{}
	cells := transport.NewCells()
	cells.Message.Put(event.MessageReceived{ID: "m-1"})
	cells.Message.Put(event.MessageReceived{ID: "m-2"})

	worker := NewChannelCapacityWorker(logs.GetLoggerFromLevel(slog.LevelDebug), time.Second).
		WatchChannel("events", events).
		WatchChannel("not a channel", 42).
		WatchCounter("message_slot", cells.Message.Dropped)

	samples := worker.Sample()

	req.Equal([]CapacitySample{
		{Name: "events", Capacity: 4, Length: 2},
		{Name: "message_slot", Dropped: 1},
	}, samples)
}

func TestChannelCapacity_Report_Remembers_Drops(t *testing.T) {
	req := require.New(t)
	worker := NewChannelCapacityWorker(slog.Default(), time.Second)

	worker.report([]CapacitySample{{Name: "receipt_slot", Dropped: 3}})
	req.Equal(3, worker.lastDropped["receipt_slot"])

	worker.report([]CapacitySample{{Name: "receipt_slot", Dropped: 3}})
	req.Equal(3, worker.lastDropped["receipt_slot"])
}

func TestChannelCapacity_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	worker := NewChannelCapacityWorker(slog.Default(), 5*time.Millisecond).
		WatchChannel("events", make(chan event.DomainEvent, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	req.NoError(worker.Run(ctx))
}
