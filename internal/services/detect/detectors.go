package detect

import (
	"fmt"
	"math"
	"time"

	"TradeYodha/internal/domain/models"

	"github.com/google/uuid"
)

// newSignal fills the fields every detector shares. Panels are rebuilt
// from the snapshot regardless of which detector fired.
func newSignal(s *models.TickerState, typ models.SignalType, tier int) *models.Signal {
	firedAt := s.Timestamp
	if firedAt.IsZero() {
		firedAt = time.Now()
	}
	return &models.Signal{
		ID:      uuid.NewString(),
		Ticker:  s.Ticker,
		Type:    typ,
		Tier:    tier,
		Price:   s.Price,
		Panels:  BuildPanels(s),
		FiredAt: firedAt,
	}
}

// targetAndStop picks the wall on the bias side as the target and the
// opposite wall as the stop. Either may be nil.
func targetAndStop(s *models.TickerState, bias models.Bias) (target, stop *float64) {
	switch bias {
	case models.BiasBullish:
		return s.CallWall, s.PutWall
	case models.BiasBearish:
		return s.PutWall, s.CallWall
	default:
		return nil, nil
	}
}

// DetectConfluence fires when at least four of six panels align on one
// side and the aligned count strictly increased since the last tick.
// Sustained or decreasing confluence does not re-fire.
func DetectConfluence(s *models.TickerState, prev *models.PreviousState) *models.Signal {
	bd := ComputeBias(s)
	aligned := bd.Aligned()
	if aligned < 4 {
		return nil
	}
	if prev.ConfluenceCt != nil && aligned <= *prev.ConfluenceCt {
		return nil
	}

	bias := models.BiasBullish
	if bd.BearCount > bd.BullCount {
		bias = models.BiasBearish
	}

	sig := newSignal(s, models.SignalConfluence, 1)
	sig.Bias = bias
	sig.Confidence = models.ConfidenceModerate
	if aligned >= 5 {
		sig.Confidence = models.ConfidenceHigh
	}
	sig.Title = fmt.Sprintf("%s: %d/6 panels aligned %s", s.Ticker, aligned, bias)
	sig.Summary = fmt.Sprintf("%d of 6 panels now read %s at %.2f (was %s)", aligned, bias, s.Price, prevCountLabel(prev.ConfluenceCt))
	sig.Target1, sig.Stop = targetAndStop(s, bias)
	return sig
}

func prevCountLabel(ct *int) string {
	if ct == nil {
		return "unrecorded"
	}
	return fmt.Sprintf("%d", *ct)
}

// DetectThesisFlip fires on a strict bullish<->bearish flip. Transitions
// into or out of neutral do not count.
func DetectThesisFlip(s *models.TickerState, prev *models.PreviousState) *models.Signal {
	if prev.ThesisBias == "" || prev.ThesisBias == models.BiasNeutral {
		return nil
	}
	bd := ComputeBias(s)
	if bd.Bias == models.BiasNeutral || bd.Bias == prev.ThesisBias {
		return nil
	}

	sig := newSignal(s, models.SignalThesisFlip, 1)
	sig.Bias = bd.Bias
	sig.Confidence = models.ConfidenceHigh
	sig.Title = fmt.Sprintf("%s: thesis flipped %s to %s", s.Ticker, prev.ThesisBias, bd.Bias)
	sig.Summary = fmt.Sprintf("Aggregate bias flipped from %s to %s with %d panels aligned at %.2f", prev.ThesisBias, bd.Bias, bd.Aligned(), s.Price)
	sig.Target1, sig.Stop = targetAndStop(s, bd.Bias)
	return sig
}

// DetectSweepCluster fires whenever three or more sweeps were observed
// in the window. No debouncing against previous state.
func DetectSweepCluster(s *models.TickerState, _ *models.PreviousState) *models.Signal {
	if s.SweepCount < 3 {
		return nil
	}

	bias := models.BiasNeutral
	if s.FlowCallRatio > 55 {
		bias = models.BiasBullish
	} else if s.FlowCallRatio < 45 {
		bias = models.BiasBearish
	}

	sig := newSignal(s, models.SignalSweepCluster, 2)
	sig.Bias = bias
	sig.Confidence = models.ConfidenceModerate
	if s.SweepCount >= 5 {
		sig.Confidence = models.ConfidenceHigh
	}
	sig.Title = fmt.Sprintf("%s: %d-sweep cluster", s.Ticker, s.SweepCount)
	sig.Summary = fmt.Sprintf("%d sweeps in window, %.0f%% call premium", s.SweepCount, s.FlowCallRatio)
	if s.TopSweepStrike != nil && s.TopSweepValue != nil {
		sig.Summary += fmt.Sprintf("; largest %s for %s", *s.TopSweepStrike, fmtUSD(*s.TopSweepValue))
	}
	return sig
}

// DetectCVDDivergence fires when price direction and cumulative volume
// delta disagree beyond a 0.3% move.
func DetectCVDDivergence(s *models.TickerState, _ *models.PreviousState) *models.Signal {
	var bias models.Bias
	switch {
	case s.ChangePercent > 0.3 && s.CVDTrend == models.CVDFalling:
		bias = models.BiasBearish
	case s.ChangePercent < -0.3 && s.CVDTrend == models.CVDRising:
		bias = models.BiasBullish
	default:
		return nil
	}

	sig := newSignal(s, models.SignalCVDDivergence, 2)
	sig.Bias = bias
	sig.Confidence = models.ConfidenceModerate
	sig.Title = fmt.Sprintf("%s: %s CVD divergence", s.Ticker, bias)
	sig.Summary = fmt.Sprintf("Price %+.2f%% while CVD is %s", s.ChangePercent, s.CVDTrend)
	return sig
}

// DetectDarkPoolPrint fires when at least one dark-pool print above the
// materiality threshold was observed.
func DetectDarkPoolPrint(s *models.TickerState, _ *models.PreviousState) *models.Signal {
	if s.DPLargePrints < 1 {
		return nil
	}

	bias := models.BiasNeutral
	if s.DPBullishPct > 55 {
		bias = models.BiasBullish
	} else if s.DPBullishPct < 45 {
		bias = models.BiasBearish
	}

	sig := newSignal(s, models.SignalDarkPoolPrint, 2)
	sig.Bias = bias
	sig.Confidence = models.ConfidenceModerate
	if s.DPLargePrints >= 3 {
		sig.Confidence = models.ConfidenceHigh
	}
	sig.Title = fmt.Sprintf("%s: %d large dark-pool prints", s.Ticker, s.DPLargePrints)
	sig.Summary = fmt.Sprintf("%d prints over $5M, %.0f%% of %s block value bullish", s.DPLargePrints, s.DPBullishPct, fmtUSD(s.DPTotalValue))
	return sig
}

// DetectFlowCrossover fires when the dominant flow side changes to a new
// non-balanced leader. A reversion to balanced does not fire.
func DetectFlowCrossover(s *models.TickerState, prev *models.PreviousState) *models.Signal {
	leader := FlowLeaderFor(s.FlowCallRatio)
	if prev.FlowLeader == "" || leader == prev.FlowLeader || leader == models.FlowBalanced {
		return nil
	}

	bias := models.BiasBullish
	if leader == models.FlowPuts {
		bias = models.BiasBearish
	}

	sig := newSignal(s, models.SignalFlowCrossover, 3)
	sig.Bias = bias
	sig.Confidence = models.ConfidenceLow
	sig.Title = fmt.Sprintf("%s: flow leader now %s", s.Ticker, leader)
	sig.Summary = fmt.Sprintf("Premium leadership moved from %s to %s (%.0f%% calls)", prev.FlowLeader, leader, s.FlowCallRatio)
	return sig
}

type keyLevel struct {
	name  string
	price float64
	bias  models.Bias
}

// DetectKeyLevel fires when price sits within 0.5% of a gamma level. The
// levels are checked in fixed order (call wall, put wall, GEX flip) and
// the first match wins; this is an ordering tie-break, not a nearest
// selection.
func DetectKeyLevel(s *models.TickerState, _ *models.PreviousState) *models.Signal {
	if s.Price == 0 {
		return nil
	}

	levels := make([]keyLevel, 0, 3)
	if s.CallWall != nil {
		levels = append(levels, keyLevel{"Call Wall", *s.CallWall, models.BiasBearish})
	}
	if s.PutWall != nil {
		levels = append(levels, keyLevel{"Put Wall", *s.PutWall, models.BiasBullish})
	}
	if s.GEXFlip != nil {
		levels = append(levels, keyLevel{"GEX Flip", *s.GEXFlip, models.BiasNeutral})
	}

	for _, lv := range levels {
		distPct := math.Abs(s.Price-lv.price) / s.Price * 100
		if distPct > 0.5 {
			continue
		}
		sig := newSignal(s, models.SignalKeyLevel, 3)
		sig.Bias = lv.bias
		sig.Confidence = models.ConfidenceLow
		sig.Title = fmt.Sprintf("%s: approaching %s %.2f", s.Ticker, lv.name, lv.price)
		sig.Summary = fmt.Sprintf("Price %.2f is %.2f%% from %s at %.2f", s.Price, distPct, lv.name, lv.price)
		return sig
	}
	return nil
}

// DetectRSRegimeChange fires on a genuine regime change away from a
// known previous regime, excluding any transition ending in inline.
func DetectRSRegimeChange(s *models.TickerState, prev *models.PreviousState) *models.Signal {
	regime := RSRegimeFor(s.RSVsSPY)
	if prev.RSRegime == "" || regime == prev.RSRegime || regime == models.RSInline {
		return nil
	}

	bias := models.BiasBullish
	if regime == models.RSLagging {
		bias = models.BiasBearish
	}

	sig := newSignal(s, models.SignalRSRegime, 3)
	sig.Bias = bias
	sig.Confidence = models.ConfidenceLow
	sig.Title = fmt.Sprintf("%s: now %s vs SPY", s.Ticker, regime)
	sig.Summary = fmt.Sprintf("Relative strength moved from %s to %s (%+.2f)", prev.RSRegime, regime, s.RSVsSPY)
	return sig
}

// DetectNewsCatalyst fires on strong aggregate news sentiment.
func DetectNewsCatalyst(s *models.TickerState, _ *models.PreviousState) *models.Signal {
	if s.NewsScore == nil {
		return nil
	}
	score := *s.NewsScore
	if math.Abs(score) < 0.6 {
		return nil
	}

	bias := models.BiasBullish
	if score < 0 {
		bias = models.BiasBearish
	}

	sig := newSignal(s, models.SignalNewsCatalyst, 2)
	sig.Bias = bias
	sig.Confidence = models.ConfidenceModerate
	if math.Abs(score) > 0.8 {
		sig.Confidence = models.ConfidenceHigh
	}
	sig.Title = fmt.Sprintf("%s: %s news catalyst", s.Ticker, bias)
	sig.Summary = fmt.Sprintf("Aggregate news sentiment %+.2f", score)
	return sig
}
