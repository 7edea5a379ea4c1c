package detect

import "TradeYodha/internal/domain/models"

// BiasBreakdown is the result of aggregating the six directional panels
// into a single thesis read.
type BiasBreakdown struct {
	Bias      models.Bias
	BullCount int
	BearCount int
}

// Aligned returns the larger of the two vote counts.
func (b BiasBreakdown) Aligned() int {
	if b.BearCount > b.BullCount {
		return b.BearCount
	}
	return b.BullCount
}

// ComputeBias runs six independent binary votes over the snapshot. Each
// check contributes at most one vote to one side; readings strictly
// between the bullish and bearish cut points contribute nothing. The
// thesis flips to a side only when at least four of six panels agree.
//
// Note the 60/40 and 55/45 cut points here are deliberately different
// from the ones some individual detectors use on the same fields; the
// detectors are calibrated independently.
func ComputeBias(s *models.TickerState) BiasBreakdown {
	var bull, bear int

	if s.FlowCallRatio > 60 {
		bull++
	} else if s.FlowCallRatio < 40 {
		bear++
	}

	if s.VolumePressure > 60 {
		bull++
	} else if s.VolumePressure < 40 {
		bear++
	}

	if s.DPBullishPct > 55 {
		bull++
	} else if s.DPBullishPct < 45 {
		bear++
	}

	if s.RSVsSPY > 0.3 {
		bull++
	} else if s.RSVsSPY < -0.3 {
		bear++
	}

	if s.VWAP != nil {
		if s.Price > *s.VWAP {
			bull++
		} else if s.Price < *s.VWAP {
			bear++
		}
	}

	switch s.CVDTrend {
	case models.CVDRising:
		bull++
	case models.CVDFalling:
		bear++
	}

	bias := models.BiasNeutral
	if bull >= 4 {
		bias = models.BiasBullish
	} else if bear >= 4 {
		bias = models.BiasBearish
	}

	return BiasBreakdown{Bias: bias, BullCount: bull, BearCount: bear}
}

// FlowLeaderFor labels the dominant options-flow side.
func FlowLeaderFor(callRatio float64) models.FlowLeader {
	switch {
	case callRatio > 60:
		return models.FlowCalls
	case callRatio < 40:
		return models.FlowPuts
	default:
		return models.FlowBalanced
	}
}

// RSRegimeFor labels relative strength versus the benchmark.
func RSRegimeFor(rs float64) models.RSRegime {
	switch {
	case rs > 0.3:
		return models.RSLeading
	case rs < -0.3:
		return models.RSLagging
	default:
		return models.RSInline
	}
}

// DPRegimeFor labels dark-pool block activity.
func DPRegimeFor(bullishPct float64) models.DPRegime {
	switch {
	case bullishPct > 55:
		return models.DPAccumulation
	case bullishPct < 45:
		return models.DPDistribution
	default:
		return models.DPNeutral
	}
}
