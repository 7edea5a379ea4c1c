package models

import "time"

// Bias is the directional read of a ticker.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNeutral Bias = "neutral"
)

// CVDTrend is the direction of cumulative volume delta.
type CVDTrend string

const (
	CVDRising  CVDTrend = "rising"
	CVDFalling CVDTrend = "falling"
	CVDFlat    CVDTrend = "flat"
)

// FlowLeader is the dominant side of options-flow premium.
type FlowLeader string

const (
	FlowCalls    FlowLeader = "calls"
	FlowPuts     FlowLeader = "puts"
	FlowBalanced FlowLeader = "balanced"
)

// DPRegime classifies dark-pool block activity.
type DPRegime string

const (
	DPAccumulation DPRegime = "accumulation"
	DPDistribution DPRegime = "distribution"
	DPNeutral      DPRegime = "neutral"
)

// RSRegime classifies relative strength versus the benchmark.
type RSRegime string

const (
	RSLeading RSRegime = "leading"
	RSLagging RSRegime = "lagging"
	RSInline  RSRegime = "inline"
)

// TickerState holds the current market readings for one ticker at one
// evaluation tick. Optional fields are nil when the provider did not
// return the underlying data.
type TickerState struct {
	Ticker        string    `json:"ticker"`
	Timestamp     time.Time `json:"timestamp"`
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"change_percent"`

	// Options flow aggregates over the evaluation window.
	FlowCallRatio  float64  `json:"flow_call_ratio"`  // % of premium in calls, 0..100
	FlowSweepRatio float64  `json:"flow_sweep_ratio"` // % of premium in sweeps, 0..100
	FlowNetDelta   float64  `json:"flow_net_delta"`   // delta-adjusted net premium, USD
	SweepCount     int      `json:"sweep_count"`
	TopSweepStrike *string  `json:"top_sweep_strike,omitempty"`
	TopSweepValue  *float64 `json:"top_sweep_value,omitempty"`

	// Tape pressure.
	CVDTrend       CVDTrend `json:"cvd_trend"`
	VolumePressure float64  `json:"volume_pressure"` // buy-vs-sell index, 0..100

	// Dark pool.
	DPBullishPct  float64 `json:"dp_bullish_pct"` // % of block value classified bullish, 0..100
	DPLargePrints int     `json:"dp_large_prints"` // prints above the $5M materiality threshold
	DPTotalValue  float64 `json:"dp_total_value"`

	// Relative strength versus benchmark, positive = outperforming.
	RSVsSPY float64 `json:"rs_vs_spy"`

	// Key levels from dealer positioning. Nil when not available.
	CallWall *float64 `json:"call_wall,omitempty"`
	PutWall  *float64 `json:"put_wall,omitempty"`
	GEXFlip  *float64 `json:"gex_flip,omitempty"`
	VWAP     *float64 `json:"vwap,omitempty"`

	// Aggregate news sentiment in [-1, 1]. Nil when no coverage.
	NewsScore *float64 `json:"news_score,omitempty"`
}

// PreviousState is the last persisted set of labels for a ticker, used as
// the change-detection baseline. Zero values mean "not recorded yet".
//
// CVDTrend and Price are persisted for parity with the stored baseline
// even though no detector reads them.
type PreviousState struct {
	ThesisBias   Bias       `json:"thesis_bias,omitempty"`
	ConfluenceCt *int       `json:"confluence_ct,omitempty"`
	FlowLeader   FlowLeader `json:"flow_leader,omitempty"`
	CVDTrend     CVDTrend   `json:"cvd_trend,omitempty"`
	DPRegime     DPRegime   `json:"dp_regime,omitempty"`
	RSRegime     RSRegime   `json:"rs_regime,omitempty"`
	Price        *float64   `json:"price,omitempty"`
}

// Trade is a single tape print from the provider stream, consumed by the
// flow tracker to maintain CVD and volume pressure.
type Trade struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Size      float64
}
