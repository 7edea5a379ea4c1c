package usecase

import (
	"context"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
)

type fakeHistory struct {
	symbol  string
	from    time.Time
	to      time.Time
	limit   int
	maxTier int
	result  []*models.Signal
	err     error
}

func (f *fakeHistory) Init(ctx context.Context) error                          { return nil }
func (f *fakeHistory) Store(ctx context.Context, sig *models.Signal) error     { return nil }
func (f *fakeHistory) StoreBatch(ctx context.Context, s []*models.Signal) error { return nil }
func (f *fakeHistory) Health(ctx context.Context) error                        { return nil }
func (f *fakeHistory) Close() error                                            { return nil }

func (f *fakeHistory) Query(ctx context.Context, symbol string, from, to time.Time, limit, maxTier int) ([]*models.Signal, error) {
	f.symbol, f.from, f.to, f.limit, f.maxTier = symbol, from, to, limit, maxTier
	return f.result, f.err
}

func TestGetSignalsDefaults(t *testing.T) {
	h := &fakeHistory{result: []*models.Signal{{Ticker: "AAPL", Type: models.SignalConfluence, Tier: 1}}}
	uc := NewSignalsQueryUseCase(h)

	res, err := uc.GetSignals(context.Background(), GetSignalsParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.limit != 100 {
		t.Errorf("default limit = %d, want 100", h.limit)
	}
	if h.maxTier != 3 {
		t.Errorf("default max tier = %d, want 3", h.maxTier)
	}
	window := h.to.Sub(h.from)
	if window != 24*time.Hour {
		t.Errorf("default window = %v, want 24h", window)
	}
	if res.Count != 1 || len(res.Signals) != 1 {
		t.Errorf("count = %d signals = %d, want 1/1", res.Count, len(res.Signals))
	}
}

func TestGetSignalsClampsLimit(t *testing.T) {
	h := &fakeHistory{}
	uc := NewSignalsQueryUseCase(h)

	if _, err := uc.GetSignals(context.Background(), GetSignalsParams{Symbol: "SPY", Limit: 50000, MaxTier: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.limit != 1000 {
		t.Errorf("limit = %d, want clamp to 1000", h.limit)
	}
	if h.maxTier != 2 {
		t.Errorf("max tier = %d, want 2", h.maxTier)
	}
}

func TestGetSignalsRejectsInvertedRange(t *testing.T) {
	uc := NewSignalsQueryUseCase(&fakeHistory{})

	now := time.Now()
	_, err := uc.GetSignals(context.Background(), GetSignalsParams{
		Symbol: "SPY",
		From:   now,
		To:     now.Add(-time.Hour),
	})
	if err == nil {
		t.Fatal("expected error for from > to")
	}
}

func TestGetSignalsRequiresSymbol(t *testing.T) {
	uc := NewSignalsQueryUseCase(&fakeHistory{})
	if _, err := uc.GetSignals(context.Background(), GetSignalsParams{}); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}
