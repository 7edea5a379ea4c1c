package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
)

type fakeStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
	connected  bool
}

func (f *fakeStream) Connect(context.Context) error   { f.connected = true; return nil }
func (f *fakeStream) Subscribe(context.Context) error { return nil }
func (f *fakeStream) Close() error                    { f.connected = false; return nil }
func (f *fakeStream) IsConnected() bool               { return f.connected }

func (f *fakeStream) Reconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return nil
}

// Read mimics the real stream: the first socket dies immediately,
// closing both channels. The replacement stays open and delivers.
func (f *fakeStream) Read(context.Context) (<-chan *models.Trade, <-chan error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	trades := make(chan *models.Trade, 4)
	errs := make(chan error, 1)
	if f.reads == 1 {
		close(trades)
		close(errs)
	} else {
		trades <- &models.Trade{Symbol: "SPY", Price: 501, Size: 10, Timestamp: time.Now().Unix()}
	}
	return trades, errs
}

func (f *fakeStream) counts() (reads, reconnects int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads, f.reconnects
}

type countingMetrics struct {
	mu         sync.Mutex
	lastPrices int
	lastSeen   float64
	errors     int
}

func (m *countingMetrics) RecordSignalFired(string, string, int) {}
func (m *countingMetrics) RecordLatency(string, float64)         {}

func (m *countingMetrics) RecordError(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

func (m *countingMetrics) RecordLastPrice(_ string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPrices++
	m.lastSeen = price
}

func (m *countingMetrics) last() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSeen
}

func TestFlowCollectorResumesAfterStreamFailure(t *testing.T) {
	stream := &fakeStream{}
	metrics := &countingMetrics{}
	collector := NewFlowCollector(stream, NewFlowTracker(), metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := collector.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	// The trade from the replacement channels must be observed.
	deadline := time.Now().Add(2 * time.Second)
	for metrics.last() != 501 {
		if time.Now().After(deadline) {
			t.Fatalf("post-reconnect trade never observed (stream not re-read after reconnect)")
		}
		time.Sleep(5 * time.Millisecond)
	}

	reads, reconnects := stream.counts()
	if reconnects != 1 {
		t.Errorf("reconnects = %d, want 1", reconnects)
	}
	if reads != 2 {
		t.Errorf("reads = %d, want 2", reads)
	}
	metrics.mu.Lock()
	if metrics.errors != 1 {
		t.Errorf("stream errors recorded = %d, want 1", metrics.errors)
	}
	metrics.mu.Unlock()
}
