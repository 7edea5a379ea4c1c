package repository

import (
	"context"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
	"TradeYodha/pkg/cache"
)

func TestCacheStateStoreRoundTrip(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	store := NewCacheStateStore(mc, time.Hour)
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "AAPL")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on first load")
	}

	ct := 4
	price := 187.5
	st := models.PreviousState{
		ThesisBias:   models.BiasBullish,
		ConfluenceCt: &ct,
		FlowLeader:   models.FlowCalls,
		CVDTrend:     models.CVDRising,
		DPRegime:     models.DPAccumulation,
		RSRegime:     models.RSLeading,
		Price:        &price,
	}
	if err := store.Save(ctx, "AAPL", st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx, "AAPL")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit after save")
	}
	if got.ThesisBias != models.BiasBullish || got.FlowLeader != models.FlowCalls ||
		got.DPRegime != models.DPAccumulation || got.RSRegime != models.RSLeading {
		t.Fatalf("labels not preserved: %+v", got)
	}
	if got.ConfluenceCt == nil || *got.ConfluenceCt != 4 {
		t.Fatalf("confluence count not preserved: %+v", got.ConfluenceCt)
	}
	if got.Price == nil || *got.Price != 187.5 {
		t.Fatalf("price not preserved: %+v", got.Price)
	}
}

func TestCacheStateStoreTickersIsolated(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	store := NewCacheStateStore(mc, 0)
	ctx := context.Background()

	if err := store.Save(ctx, "NVDA", models.PreviousState{ThesisBias: models.BiasBearish}); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, ok, err := store.Load(ctx, "AMD")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("AMD should have no baseline")
	}
}
