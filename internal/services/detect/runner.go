package detect

import "TradeYodha/internal/domain/models"

// Detector inspects a snapshot pair and either fires one signal or
// returns nil. All detectors are pure and safe to call concurrently.
type Detector func(*models.TickerState, *models.PreviousState) *models.Signal

// detectors is the fixed evaluation order. Results are returned in this
// order; multiple detectors may fire for the same tick and none are
// deduplicated.
var detectors = []Detector{
	DetectConfluence,
	DetectThesisFlip,
	DetectSweepCluster,
	DetectCVDDivergence,
	DetectDarkPoolPrint,
	DetectFlowCrossover,
	DetectKeyLevel,
	DetectRSRegimeChange,
	DetectNewsCatalyst,
}

// RunAll applies every detector to the snapshot pair and collects the
// non-nil results. prev may be the zero value on a ticker's first tick.
func RunAll(s *models.TickerState, prev *models.PreviousState) []*models.Signal {
	if prev == nil {
		prev = &models.PreviousState{}
	}
	out := make([]*models.Signal, 0, len(detectors))
	for _, d := range detectors {
		if sig := d(s, prev); sig != nil {
			out = append(out, sig)
		}
	}
	return out
}

// NextState derives the baseline to persist after a tick's detectors
// have run. The caller writes it back before the next evaluation.
func NextState(s *models.TickerState) models.PreviousState {
	bd := ComputeBias(s)
	aligned := bd.Aligned()
	price := s.Price
	return models.PreviousState{
		ThesisBias:   bd.Bias,
		ConfluenceCt: &aligned,
		FlowLeader:   FlowLeaderFor(s.FlowCallRatio),
		CVDTrend:     s.CVDTrend,
		DPRegime:     DPRegimeFor(s.DPBullishPct),
		RSRegime:     RSRegimeFor(s.RSVsSPY),
		Price:        &price,
	}
}
