package detect

import (
	"testing"

	"TradeYodha/internal/domain/models"
)

func TestRunAllReturnsFixedOrder(t *testing.T) {
	// Construct a snapshot that satisfies several detectors at once:
	// confluence (6 aligned, no previous count), thesis flip (bearish
	// before), sweep cluster, dark pool, flow crossover and RS regime
	// change.
	s := bullishState()
	s.SweepCount = 5
	s.DPLargePrints = 2
	prev := &models.PreviousState{
		ThesisBias: models.BiasBearish,
		FlowLeader: models.FlowPuts,
		RSRegime:   models.RSLagging,
	}

	sigs := RunAll(s, prev)
	want := []models.SignalType{
		models.SignalConfluence,
		models.SignalThesisFlip,
		models.SignalSweepCluster,
		models.SignalDarkPoolPrint,
		models.SignalFlowCrossover,
		models.SignalRSRegime,
	}
	if len(sigs) != len(want) {
		types := make([]models.SignalType, 0, len(sigs))
		for _, sg := range sigs {
			types = append(types, sg.Type)
		}
		t.Fatalf("expected %d signals, got %v", len(want), types)
	}
	for i, w := range want {
		if sigs[i].Type != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, sigs[i].Type)
		}
	}
}

func TestRunAllNoDedup(t *testing.T) {
	// Both sweep cluster and dark pool can fire for the same tick; the
	// runner must return both.
	s := neutralState()
	s.SweepCount = 3
	s.DPLargePrints = 1
	sigs := RunAll(s, &models.PreviousState{})
	if len(sigs) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(sigs))
	}
}

func TestRunAllQuietSnapshot(t *testing.T) {
	sigs := RunAll(neutralState(), &models.PreviousState{})
	if len(sigs) != 0 {
		t.Fatalf("neutral snapshot must fire nothing, got %d", len(sigs))
	}
}

func TestRunAllNilPrev(t *testing.T) {
	s := neutralState()
	s.SweepCount = 3
	sigs := RunAll(s, nil)
	if len(sigs) != 1 {
		t.Fatalf("nil previous state is treated as empty, got %d signals", len(sigs))
	}
}

func TestNextStateDerivesAllLabels(t *testing.T) {
	s := bullishState()
	s.DPBullishPct = 60
	st := NextState(s)

	if st.ThesisBias != models.BiasBullish {
		t.Fatalf("expected bullish thesis, got %s", st.ThesisBias)
	}
	if st.ConfluenceCt == nil || *st.ConfluenceCt != 6 {
		t.Fatalf("expected confluence count 6, got %v", st.ConfluenceCt)
	}
	if st.FlowLeader != models.FlowCalls {
		t.Fatalf("expected calls leader, got %s", st.FlowLeader)
	}
	if st.CVDTrend != models.CVDRising {
		t.Fatalf("expected rising cvd, got %s", st.CVDTrend)
	}
	if st.DPRegime != models.DPAccumulation {
		t.Fatalf("expected accumulation, got %s", st.DPRegime)
	}
	if st.RSRegime != models.RSLeading {
		t.Fatalf("expected leading, got %s", st.RSRegime)
	}
	if st.Price == nil || *st.Price != s.Price {
		t.Fatalf("expected price %v, got %v", s.Price, st.Price)
	}
}

func TestNextStateFeedsConfluenceDebounce(t *testing.T) {
	// Two identical ticks: the first fires confluence, the second must
	// not, because the persisted count did not increase.
	s := bullishState()
	first := RunAll(s, &models.PreviousState{})
	if len(first) == 0 || first[0].Type != models.SignalConfluence {
		t.Fatal("first tick should fire confluence")
	}
	next := NextState(s)
	for _, sig := range RunAll(s, &next) {
		if sig.Type == models.SignalConfluence {
			t.Fatal("sustained confluence must not re-fire")
		}
		if sig.Type == models.SignalThesisFlip {
			t.Fatal("same bias must not flip")
		}
	}
}
