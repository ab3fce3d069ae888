package workers

import (
	"chat-sync/contract"
	"context"
	"log/slog"
	"reflect"
	"time"
)

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

type NamedChannel struct {
	Name    string
	Channel any
}

// NamedCounter is a monotonic counter, such as the values a transport slot overwrote.
type NamedCounter struct {
	Name  string
	Count func() int
}

type CapacitySample struct {
	Name     string
	Capacity int
	Length   int
	Dropped  int
}

// ChannelCapacityWorker periodically reports how full the client's buffers are.
// Reading len(channel) and cap(channel) is non-blocking, so this won't interfere
// with other goroutines.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	counters       []NamedCounter
	metricInterval time.Duration
	lastDropped    map[string]int
}

func NewChannelCapacityWorker(log *slog.Logger, metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{log: log, metricInterval: metricInterval, lastDropped: map[string]int{}}
}

func (w *ChannelCapacityWorker) WatchChannel(name string, channel any) *ChannelCapacityWorker {
	w.channels = append(w.channels, NamedChannel{Name: name, Channel: channel})
	return w
}

func (w *ChannelCapacityWorker) WatchCounter(name string, count func() int) *ChannelCapacityWorker {
	w.counters = append(w.counters, NamedCounter{Name: name, Count: count})
	return w
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			w.report(w.Sample())
		}
	}
}

// Sample reads every watched channel and counter once.
func (w *ChannelCapacityWorker) Sample() []CapacitySample {
	samples := make([]CapacitySample, 0, len(w.channels)+len(w.counters))
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		// Verify if this is a channel
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		samples = append(samples, CapacitySample{Name: nc.Name, Capacity: v.Cap(), Length: v.Len()})
	}
	for _, counter := range w.counters {
		samples = append(samples, CapacitySample{Name: counter.Name, Dropped: counter.Count()})
	}
	return samples
}

func (w *ChannelCapacityWorker) report(samples []CapacitySample) {
	for _, s := range samples {
		if s.Capacity > 0 && s.Length*4 >= s.Capacity*3 {
			w.log.Warn("Channel almost full", "name", s.Name, "length", s.Length, "capacity", s.Capacity)
		}
		if s.Dropped > w.lastDropped[s.Name] {
			w.log.Warn("Live events overwritten before being read", "name", s.Name, "dropped", s.Dropped-w.lastDropped[s.Name])
			w.lastDropped[s.Name] = s.Dropped
		}
		w.log.Debug("Capacity sample", "name", s.Name, "length", s.Length, "capacity", s.Capacity, "dropped", s.Dropped)
	}
}
