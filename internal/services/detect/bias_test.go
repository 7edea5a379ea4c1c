package detect

import (
	"testing"

	"TradeYodha/internal/domain/models"
)

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

// neutralState returns a snapshot where every panel reads neutral.
func neutralState() *models.TickerState {
	return &models.TickerState{
		Ticker:         "AAPL",
		Price:          150,
		FlowCallRatio:  50,
		VolumePressure: 50,
		DPBullishPct:   50,
		RSVsSPY:        0,
		CVDTrend:       models.CVDFlat,
	}
}

// bullishState returns a snapshot where all six votes go bullish.
func bullishState() *models.TickerState {
	s := neutralState()
	s.FlowCallRatio = 70
	s.VolumePressure = 70
	s.DPBullishPct = 60
	s.RSVsSPY = 0.5
	s.VWAP = f64(149)
	s.CVDTrend = models.CVDRising
	return s
}

func TestComputeBiasNeutral(t *testing.T) {
	bd := ComputeBias(neutralState())
	if bd.BullCount != 0 || bd.BearCount != 0 {
		t.Fatalf("expected zero votes, got bull=%d bear=%d", bd.BullCount, bd.BearCount)
	}
	if bd.Bias != models.BiasNeutral {
		t.Fatalf("expected neutral, got %s", bd.Bias)
	}
}

func TestComputeBiasAllBullish(t *testing.T) {
	bd := ComputeBias(bullishState())
	if bd.BullCount != 6 || bd.BearCount != 0 {
		t.Fatalf("expected 6/0, got bull=%d bear=%d", bd.BullCount, bd.BearCount)
	}
	if bd.Bias != models.BiasBullish {
		t.Fatalf("expected bullish, got %s", bd.Bias)
	}
}

func TestComputeBiasAllBearish(t *testing.T) {
	s := neutralState()
	s.FlowCallRatio = 30
	s.VolumePressure = 25
	s.DPBullishPct = 40
	s.RSVsSPY = -0.5
	s.VWAP = f64(151)
	s.CVDTrend = models.CVDFalling
	bd := ComputeBias(s)
	if bd.BearCount != 6 || bd.Bias != models.BiasBearish {
		t.Fatalf("expected 6 bearish votes, got bull=%d bear=%d bias=%s", bd.BullCount, bd.BearCount, bd.Bias)
	}
}

func TestComputeBiasThreeVotesStaysNeutral(t *testing.T) {
	s := neutralState()
	s.FlowCallRatio = 70
	s.VolumePressure = 70
	s.CVDTrend = models.CVDRising
	bd := ComputeBias(s)
	if bd.BullCount != 3 {
		t.Fatalf("expected 3 bull votes, got %d", bd.BullCount)
	}
	if bd.Bias != models.BiasNeutral {
		t.Fatalf("3 votes must not flip the thesis, got %s", bd.Bias)
	}
}

func TestComputeBiasMissingVWAPSkipsVote(t *testing.T) {
	s := bullishState()
	s.VWAP = nil
	bd := ComputeBias(s)
	if bd.BullCount != 5 {
		t.Fatalf("expected 5 bull votes without VWAP, got %d", bd.BullCount)
	}
}

func TestComputeBiasVoteBounds(t *testing.T) {
	// Mixed snapshots must never produce more than 6 total votes and
	// never a vote on both sides from the same check.
	cases := []*models.TickerState{
		neutralState(),
		bullishState(),
		{Ticker: "X", Price: 10, FlowCallRatio: 30, VolumePressure: 70, DPBullishPct: 60, RSVsSPY: -1, CVDTrend: models.CVDRising, VWAP: f64(11)},
		{Ticker: "X", Price: 10, FlowCallRatio: 61, VolumePressure: 39, DPBullishPct: 44, RSVsSPY: 0.31, CVDTrend: models.CVDFalling},
	}
	for i, s := range cases {
		bd := ComputeBias(s)
		if bd.BullCount < 0 || bd.BullCount > 6 || bd.BearCount < 0 || bd.BearCount > 6 {
			t.Fatalf("case %d: votes out of range: %+v", i, bd)
		}
		if bd.BullCount+bd.BearCount > 6 {
			t.Fatalf("case %d: more than 6 total votes: %+v", i, bd)
		}
	}
}

func TestComputeBiasBoundaryValuesAreNeutral(t *testing.T) {
	// Exactly-at-threshold readings contribute no vote.
	s := neutralState()
	s.FlowCallRatio = 60
	s.VolumePressure = 40
	s.DPBullishPct = 55
	s.RSVsSPY = 0.3
	bd := ComputeBias(s)
	if bd.BullCount != 0 || bd.BearCount != 0 {
		t.Fatalf("boundary values must not vote, got %+v", bd)
	}
}

func TestFlowLeaderFor(t *testing.T) {
	cases := []struct {
		ratio float64
		want  models.FlowLeader
	}{
		{70, models.FlowCalls},
		{61, models.FlowCalls},
		{60, models.FlowBalanced},
		{50, models.FlowBalanced},
		{40, models.FlowBalanced},
		{39, models.FlowPuts},
		{10, models.FlowPuts},
	}
	for _, c := range cases {
		if got := FlowLeaderFor(c.ratio); got != c.want {
			t.Fatalf("FlowLeaderFor(%v) = %s, want %s", c.ratio, got, c.want)
		}
	}
}

func TestRSRegimeFor(t *testing.T) {
	cases := []struct {
		rs   float64
		want models.RSRegime
	}{
		{0.5, models.RSLeading},
		{0.3, models.RSInline},
		{0, models.RSInline},
		{-0.3, models.RSInline},
		{-0.4, models.RSLagging},
	}
	for _, c := range cases {
		if got := RSRegimeFor(c.rs); got != c.want {
			t.Fatalf("RSRegimeFor(%v) = %s, want %s", c.rs, got, c.want)
		}
	}
}

func TestDPRegimeFor(t *testing.T) {
	if got := DPRegimeFor(60); got != models.DPAccumulation {
		t.Fatalf("expected accumulation, got %s", got)
	}
	if got := DPRegimeFor(40); got != models.DPDistribution {
		t.Fatalf("expected distribution, got %s", got)
	}
	if got := DPRegimeFor(50); got != models.DPNeutral {
		t.Fatalf("expected neutral, got %s", got)
	}
}
