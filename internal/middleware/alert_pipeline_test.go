package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
)

type fakeProc struct {
	mu   sync.Mutex
	got  []*models.Signal
	fail bool
}

func (f *fakeProc) Process(_ context.Context, sig *models.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("downstream unavailable")
	}
	f.got = append(f.got, sig)
	return nil
}

func (f *fakeProc) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

type nopMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newNopMetrics() *nopMetrics { return &nopMetrics{errors: make(map[string]int)} }

func (m *nopMetrics) RecordSignalFired(string, string, int) {}
func (m *nopMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}
func (m *nopMetrics) RecordLastPrice(string, float64) {}
func (m *nopMetrics) RecordLatency(string, float64)   {}

func sig(ticker string, typ models.SignalType, tier int) *models.Signal {
	return &models.Signal{ID: "x", Ticker: ticker, Type: typ, Tier: tier, FiredAt: time.Now()}
}

func TestPipelineForwardsValidSignal(t *testing.T) {
	proc := &fakeProc{}
	p := NewAlertPipeline(proc, newNopMetrics())

	if err := p.Process(context.Background(), sig("AAPL", models.SignalConfluence, 1)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 delivered, got %d", proc.count())
	}
}

func TestPipelineRejectsInvalid(t *testing.T) {
	proc := &fakeProc{}
	p := NewAlertPipeline(proc, newNopMetrics())

	cases := []*models.Signal{
		nil,
		{Type: models.SignalConfluence, Tier: 1},
		{Ticker: "AAPL", Tier: 1},
		{Ticker: "AAPL", Type: models.SignalConfluence, Tier: 0},
		{Ticker: "AAPL", Type: models.SignalConfluence, Tier: 4},
	}
	for i, s := range cases {
		if err := p.Process(context.Background(), s); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if proc.count() != 0 {
		t.Fatalf("invalid signals must not reach downstream")
	}
}

func TestPipelineCooldownSuppressesRepeats(t *testing.T) {
	proc := &fakeProc{}
	m := newNopMetrics()
	p := NewAlertPipeline(proc, m, WithCooldown(time.Hour))

	ctx := context.Background()
	_ = p.Process(ctx, sig("AAPL", models.SignalSweepCluster, 2))
	_ = p.Process(ctx, sig("AAPL", models.SignalSweepCluster, 2))
	_ = p.Process(ctx, sig("AAPL", models.SignalSweepCluster, 2))

	if proc.count() != 1 {
		t.Fatalf("expected 1 delivered inside cooldown, got %d", proc.count())
	}

	// different type and different ticker pass through
	_ = p.Process(ctx, sig("AAPL", models.SignalKeyLevel, 3))
	_ = p.Process(ctx, sig("TSLA", models.SignalSweepCluster, 2))
	if proc.count() != 3 {
		t.Fatalf("distinct (ticker, type) pairs must not throttle each other, got %d", proc.count())
	}
}

func TestPipelineZeroCooldownDisablesThrottle(t *testing.T) {
	proc := &fakeProc{}
	p := NewAlertPipeline(proc, newNopMetrics(), WithCooldown(0))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = p.Process(ctx, sig("AAPL", models.SignalDarkPoolPrint, 2))
	}
	if proc.count() != 5 {
		t.Fatalf("expected all 5 delivered, got %d", proc.count())
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &fakeProc{fail: true}
	m := newNopMetrics()
	p := NewAlertPipeline(proc, m, WithCooldown(0), WithBufferSize(4))

	if err := p.Process(context.Background(), sig("AAPL", models.SignalConfluence, 1)); err == nil {
		t.Fatalf("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("expected signal buffered, got %d", len(p.bufCh))
	}

	// recovery: flush delivers the buffered signal
	proc.mu.Lock()
	proc.fail = false
	proc.mu.Unlock()

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for proc.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if proc.count() != 1 {
		t.Fatalf("buffered signal not flushed")
	}
}
