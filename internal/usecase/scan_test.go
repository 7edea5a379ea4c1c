package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
	mid "TradeYodha/internal/middleware"
)

type fakeSource struct {
	state *models.TickerState
	err   error
}

func (f *fakeSource) Snapshot(context.Context, string) (*models.TickerState, error) {
	return f.state, f.err
}

type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]models.PreviousState
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]models.PreviousState)}
}

func (f *fakeStateStore) Load(_ context.Context, ticker string) (models.PreviousState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.states[ticker]
	return st, ok, nil
}

func (f *fakeStateStore) Save(_ context.Context, ticker string, st models.PreviousState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[ticker] = st
	return nil
}

type fakeSink struct {
	mu   sync.Mutex
	got  []*models.Signal
	fail bool
}

func (f *fakeSink) Process(_ context.Context, sig *models.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("sink down")
	}
	f.got = append(f.got, sig)
	return nil
}

type testMetrics struct{}

func (testMetrics) RecordSignalFired(string, string, int) {}
func (testMetrics) RecordError(string)                    {}
func (testMetrics) RecordLastPrice(string, float64)       {}
func (testMetrics) RecordLatency(string, float64)         {}

func alignedBullishState(symbol string) *models.TickerState {
	vwap := 99.0
	return &models.TickerState{
		Ticker:         symbol,
		Timestamp:      time.Now(),
		Price:          100,
		FlowCallRatio:  75,
		CVDTrend:       models.CVDRising,
		VolumePressure: 72,
		DPBullishPct:   68,
		RSVsSPY:        1.1,
		VWAP:           &vwap,
	}
}

func newScanFixture(src *fakeSource, sink *fakeSink) (*ScanUseCase, *fakeStateStore) {
	states := newFakeStateStore()
	pipe := mid.NewAlertPipeline(sink, testMetrics{}, mid.WithCooldown(0))
	return NewScanUseCase(src, states, pipe, testMetrics{}, nil), states
}

func TestScanFirstPassFiresConfluence(t *testing.T) {
	sink := &fakeSink{}
	uc, states := newScanFixture(&fakeSource{state: alignedBullishState("AAPL")}, sink)

	signals, err := uc.Scan(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(signals) != 1 || signals[0].Type != models.SignalConfluence {
		t.Fatalf("expected single confluence signal, got %+v", signals)
	}
	if len(sink.got) != 1 {
		t.Fatalf("signal not delivered, got %d", len(sink.got))
	}

	st, ok, _ := states.Load(context.Background(), "AAPL")
	if !ok {
		t.Fatalf("baseline not saved")
	}
	if st.ThesisBias != models.BiasBullish {
		t.Fatalf("baseline bias = %s", st.ThesisBias)
	}
	if st.ConfluenceCt == nil || *st.ConfluenceCt != 6 {
		t.Fatalf("baseline confluence count = %+v", st.ConfluenceCt)
	}
}

func TestScanSecondPassUnchangedIsQuiet(t *testing.T) {
	sink := &fakeSink{}
	uc, _ := newScanFixture(&fakeSource{state: alignedBullishState("AAPL")}, sink)
	ctx := context.Background()

	if _, err := uc.Scan(ctx, "AAPL"); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	signals, err := uc.Scan(ctx, "AAPL")
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("unchanged snapshot must not re-fire, got %d signals", len(signals))
	}
}

func TestScanSnapshotErrorPropagates(t *testing.T) {
	sink := &fakeSink{}
	uc, _ := newScanFixture(&fakeSource{err: errors.New("provider down")}, sink)

	if _, err := uc.Scan(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected snapshot error")
	}
}

func TestScanDeliveryFailureStillSavesBaseline(t *testing.T) {
	sink := &fakeSink{fail: true}
	uc, states := newScanFixture(&fakeSource{state: alignedBullishState("NVDA")}, sink)

	signals, err := uc.Scan(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("scan should not fail on delivery error: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("detection result unaffected by sink, got %d", len(signals))
	}
	if _, ok, _ := states.Load(context.Background(), "NVDA"); !ok {
		t.Fatalf("baseline must be saved despite delivery failure")
	}
}

func TestScanEmptySymbol(t *testing.T) {
	uc, _ := newScanFixture(&fakeSource{}, &fakeSink{})
	if _, err := uc.Scan(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
}
