package detect

import (
	"strings"
	"testing"

	"TradeYodha/internal/domain/models"
)

func TestConfluenceFiresOnFirstAlignment(t *testing.T) {
	sig := DetectConfluence(bullishState(), &models.PreviousState{})
	if sig == nil {
		t.Fatal("expected confluence to fire with no recorded count")
	}
	if sig.Type != models.SignalConfluence || sig.Tier != 1 {
		t.Fatalf("unexpected type/tier: %s/%d", sig.Type, sig.Tier)
	}
	if sig.Bias != models.BiasBullish {
		t.Fatalf("expected bullish, got %s", sig.Bias)
	}
	if sig.Confidence != models.ConfidenceHigh {
		t.Fatalf("6 aligned panels must be HIGH, got %s", sig.Confidence)
	}
}

func TestConfluenceRequiresIncreasingCount(t *testing.T) {
	s := bullishState() // 6 aligned
	if sig := DetectConfluence(s, &models.PreviousState{ConfluenceCt: intp(6)}); sig != nil {
		t.Fatal("unchanged count must not fire")
	}
	if sig := DetectConfluence(s, &models.PreviousState{ConfluenceCt: intp(5)}); sig == nil {
		t.Fatal("increased count must fire")
	}
}

func TestConfluenceBelowFourNeverFires(t *testing.T) {
	s := neutralState()
	s.FlowCallRatio = 70
	s.VolumePressure = 70
	s.CVDTrend = models.CVDRising // 3 aligned
	if sig := DetectConfluence(s, &models.PreviousState{}); sig != nil {
		t.Fatal("3 aligned panels must not fire")
	}
}

func TestConfluenceModerateAtFour(t *testing.T) {
	s := neutralState()
	s.FlowCallRatio = 70
	s.VolumePressure = 70
	s.DPBullishPct = 60
	s.CVDTrend = models.CVDRising // 4 aligned
	sig := DetectConfluence(s, &models.PreviousState{})
	if sig == nil {
		t.Fatal("4 aligned panels must fire")
	}
	if sig.Confidence != models.ConfidenceModerate {
		t.Fatalf("4 aligned panels must be MODERATE, got %s", sig.Confidence)
	}
}

func TestConfluenceTargetsFromWalls(t *testing.T) {
	s := bullishState()
	s.CallWall = f64(155)
	s.PutWall = f64(145)
	sig := DetectConfluence(s, &models.PreviousState{})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.Target1 == nil || *sig.Target1 != 155 {
		t.Fatalf("bullish target must be the call wall, got %v", sig.Target1)
	}
	if sig.Stop == nil || *sig.Stop != 145 {
		t.Fatalf("bullish stop must be the put wall, got %v", sig.Stop)
	}
}

func TestThesisFlipStrictFlipOnly(t *testing.T) {
	bull := bullishState()

	if sig := DetectThesisFlip(bull, &models.PreviousState{ThesisBias: models.BiasBearish}); sig == nil {
		t.Fatal("bearish->bullish must fire")
	} else {
		if sig.Confidence != models.ConfidenceHigh {
			t.Fatalf("thesis flip is always HIGH, got %s", sig.Confidence)
		}
		if sig.Tier != 1 {
			t.Fatalf("thesis flip is tier 1, got %d", sig.Tier)
		}
	}

	if sig := DetectThesisFlip(bull, &models.PreviousState{ThesisBias: models.BiasBullish}); sig != nil {
		t.Fatal("same bias must not fire")
	}
	if sig := DetectThesisFlip(bull, &models.PreviousState{ThesisBias: models.BiasNeutral}); sig != nil {
		t.Fatal("neutral->bullish must not fire")
	}
	if sig := DetectThesisFlip(bull, &models.PreviousState{}); sig != nil {
		t.Fatal("no previous bias must not fire")
	}
	if sig := DetectThesisFlip(neutralState(), &models.PreviousState{ThesisBias: models.BiasBullish}); sig != nil {
		t.Fatal("bullish->neutral must not fire")
	}
}

func TestSweepClusterThresholds(t *testing.T) {
	s := neutralState()
	s.SweepCount = 2
	if sig := DetectSweepCluster(s, &models.PreviousState{}); sig != nil {
		t.Fatal("2 sweeps must not fire")
	}

	s.SweepCount = 3
	s.FlowCallRatio = 58 // above 55, below the aggregator's 60
	sig := DetectSweepCluster(s, &models.PreviousState{})
	if sig == nil {
		t.Fatal("3 sweeps must fire")
	}
	if sig.Bias != models.BiasBullish {
		t.Fatalf("58%% calls is bullish for sweeps, got %s", sig.Bias)
	}
	if sig.Confidence != models.ConfidenceModerate {
		t.Fatalf("3 sweeps is MODERATE, got %s", sig.Confidence)
	}

	s.SweepCount = 5
	sig = DetectSweepCluster(s, &models.PreviousState{})
	if sig == nil || sig.Confidence != models.ConfidenceHigh {
		t.Fatalf("5 sweeps is HIGH, got %+v", sig)
	}
}

func TestSweepClusterFiresEveryTick(t *testing.T) {
	// Unlike confluence, sweep cluster has no debounce against prev.
	s := neutralState()
	s.SweepCount = 4
	prev := &models.PreviousState{ConfluenceCt: intp(6), ThesisBias: models.BiasBullish}
	if sig := DetectSweepCluster(s, prev); sig == nil {
		t.Fatal("sweep cluster must ignore previous state")
	}
}

func TestSweepClusterSummaryIncludesTopSweep(t *testing.T) {
	s := neutralState()
	s.SweepCount = 3
	strike := "150C 09/19"
	s.TopSweepStrike = &strike
	s.TopSweepValue = f64(2_400_000)
	sig := DetectSweepCluster(s, &models.PreviousState{})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if !strings.Contains(sig.Summary, "150C 09/19") || !strings.Contains(sig.Summary, "$2.4M") {
		t.Fatalf("summary missing top sweep detail: %q", sig.Summary)
	}
}

func TestCVDDivergence(t *testing.T) {
	s := neutralState()
	s.ChangePercent = 0.5
	s.CVDTrend = models.CVDFalling
	sig := DetectCVDDivergence(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasBearish {
		t.Fatalf("price up on falling CVD is bearish, got %+v", sig)
	}
	if sig.Confidence != models.ConfidenceModerate {
		t.Fatalf("divergence is always MODERATE, got %s", sig.Confidence)
	}

	s.ChangePercent = -0.5
	s.CVDTrend = models.CVDRising
	sig = DetectCVDDivergence(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasBullish {
		t.Fatalf("price down on rising CVD is bullish, got %+v", sig)
	}

	s.ChangePercent = 0.1
	s.CVDTrend = models.CVDFalling
	if sig := DetectCVDDivergence(s, &models.PreviousState{}); sig != nil {
		t.Fatal("0.1% move is below the 0.3% threshold")
	}

	s.ChangePercent = 0.5
	s.CVDTrend = models.CVDRising
	if sig := DetectCVDDivergence(s, &models.PreviousState{}); sig != nil {
		t.Fatal("agreeing price and CVD must not fire")
	}
}

func TestDarkPoolPrint(t *testing.T) {
	s := neutralState()
	s.DPLargePrints = 0
	if sig := DetectDarkPoolPrint(s, &models.PreviousState{}); sig != nil {
		t.Fatal("no large prints must not fire")
	}

	s.DPLargePrints = 1
	s.DPBullishPct = 70
	sig := DetectDarkPoolPrint(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasBullish || sig.Confidence != models.ConfidenceModerate {
		t.Fatalf("1 print at 70%% bullish: want bullish MODERATE, got %+v", sig)
	}

	s.DPLargePrints = 4
	sig = DetectDarkPoolPrint(s, &models.PreviousState{})
	if sig == nil || sig.Confidence != models.ConfidenceHigh {
		t.Fatalf("4 prints is HIGH, got %+v", sig)
	}

	s.DPLargePrints = 1
	s.DPBullishPct = 50
	sig = DetectDarkPoolPrint(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasNeutral {
		t.Fatalf("50%% bullish blocks is neutral, got %+v", sig)
	}
}

func TestFlowCrossover(t *testing.T) {
	s := neutralState()
	s.FlowCallRatio = 70 // leader: calls

	sig := DetectFlowCrossover(s, &models.PreviousState{FlowLeader: models.FlowPuts})
	if sig == nil || sig.Bias != models.BiasBullish || sig.Confidence != models.ConfidenceLow {
		t.Fatalf("puts->calls: want bullish LOW, got %+v", sig)
	}
	if sig.Tier != 3 {
		t.Fatalf("flow crossover is tier 3, got %d", sig.Tier)
	}

	if sig := DetectFlowCrossover(s, &models.PreviousState{FlowLeader: models.FlowCalls}); sig != nil {
		t.Fatal("unchanged leader must not fire")
	}
	if sig := DetectFlowCrossover(s, &models.PreviousState{}); sig != nil {
		t.Fatal("no previous leader must not fire")
	}

	s.FlowCallRatio = 50 // leader: balanced
	if sig := DetectFlowCrossover(s, &models.PreviousState{FlowLeader: models.FlowCalls}); sig != nil {
		t.Fatal("reversion to balanced must not fire")
	}
}

func TestKeyLevelWithinHalfPercent(t *testing.T) {
	s := neutralState()
	s.Price = 100
	s.CallWall = f64(100.3) // 0.3% away
	sig := DetectKeyLevel(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasBearish {
		t.Fatalf("call wall within 0.5%% is bearish, got %+v", sig)
	}
	if !strings.Contains(sig.Title, "Call Wall") {
		t.Fatalf("title should name the level: %q", sig.Title)
	}

	s.CallWall = f64(102) // 2% away
	if sig := DetectKeyLevel(s, &models.PreviousState{}); sig != nil {
		t.Fatal("2% away must not fire")
	}
}

func TestKeyLevelListOrderWins(t *testing.T) {
	// Put wall is closer but call wall is checked first.
	s := neutralState()
	s.Price = 100
	s.CallWall = f64(100.4)
	s.PutWall = f64(100.1)
	sig := DetectKeyLevel(s, &models.PreviousState{})
	if sig == nil || !strings.Contains(sig.Title, "Call Wall") {
		t.Fatalf("list order, not distance, picks the level: %+v", sig)
	}
}

func TestKeyLevelZeroPriceGuards(t *testing.T) {
	s := neutralState()
	s.Price = 0
	s.CallWall = f64(0)
	s.PutWall = f64(0)
	s.GEXFlip = f64(0)
	if sig := DetectKeyLevel(s, &models.PreviousState{}); sig != nil {
		t.Fatal("zero price must short-circuit before the distance division")
	}
}

func TestKeyLevelGEXFlipIsNeutral(t *testing.T) {
	s := neutralState()
	s.Price = 100
	s.GEXFlip = f64(100.2)
	sig := DetectKeyLevel(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasNeutral {
		t.Fatalf("GEX flip approach is neutral, got %+v", sig)
	}
}

func TestRSRegimeChange(t *testing.T) {
	s := neutralState()
	s.RSVsSPY = 0.5 // leading

	sig := DetectRSRegimeChange(s, &models.PreviousState{RSRegime: models.RSLagging})
	if sig == nil || sig.Bias != models.BiasBullish || sig.Confidence != models.ConfidenceLow {
		t.Fatalf("lagging->leading: want bullish LOW, got %+v", sig)
	}

	if sig := DetectRSRegimeChange(s, &models.PreviousState{RSRegime: models.RSLeading}); sig != nil {
		t.Fatal("unchanged regime must not fire")
	}
	if sig := DetectRSRegimeChange(s, &models.PreviousState{}); sig != nil {
		t.Fatal("no previous regime must not fire")
	}

	s.RSVsSPY = 0 // inline
	if sig := DetectRSRegimeChange(s, &models.PreviousState{RSRegime: models.RSLeading}); sig != nil {
		t.Fatal("transition ending in inline must not fire")
	}
}

func TestNewsCatalyst(t *testing.T) {
	s := neutralState()

	if sig := DetectNewsCatalyst(s, &models.PreviousState{}); sig != nil {
		t.Fatal("missing news score must not fire")
	}

	s.NewsScore = f64(0.5)
	if sig := DetectNewsCatalyst(s, &models.PreviousState{}); sig != nil {
		t.Fatal("0.5 is below the 0.6 threshold")
	}

	s.NewsScore = f64(0.65)
	sig := DetectNewsCatalyst(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasBullish || sig.Confidence != models.ConfidenceModerate {
		t.Fatalf("0.65: want bullish MODERATE, got %+v", sig)
	}

	s.NewsScore = f64(-0.9)
	sig = DetectNewsCatalyst(s, &models.PreviousState{})
	if sig == nil || sig.Bias != models.BiasBearish || sig.Confidence != models.ConfidenceHigh {
		t.Fatalf("-0.9: want bearish HIGH, got %+v", sig)
	}
}

func TestSignalsCarrySixPanels(t *testing.T) {
	s := neutralState()
	s.SweepCount = 3
	sig := DetectSweepCluster(s, &models.PreviousState{})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if len(sig.Panels) != 6 {
		t.Fatalf("every signal carries 6 panels, got %d", len(sig.Panels))
	}
	if sig.ID == "" {
		t.Fatal("expected a generated signal ID")
	}
}
