package models

import "time"

// SignalType identifies the pattern a detector fires on.
type SignalType string

const (
	SignalConfluence    SignalType = "confluence"
	SignalThesisFlip    SignalType = "thesis_flip"
	SignalSweepCluster  SignalType = "sweep_cluster"
	SignalCVDDivergence SignalType = "cvd_divergence"
	SignalDarkPoolPrint SignalType = "dark_pool_print"
	SignalFlowCrossover SignalType = "flow_crossover"
	SignalKeyLevel      SignalType = "key_level"
	SignalRSRegime      SignalType = "rs_regime_change"
	SignalNewsCatalyst  SignalType = "news_catalyst"
)

// Confidence is a fixed per-branch classification, not a continuous score.
type Confidence string

const (
	ConfidenceLow      Confidence = "LOW"
	ConfidenceModerate Confidence = "MODERATE"
	ConfidenceHigh     Confidence = "HIGH"
)

// PanelReading is one entry of the six-panel breakdown attached to every
// signal: an independently thresholded status plus a one-line detail.
type PanelReading struct {
	Panel  string `json:"panel"`
	Status Bias   `json:"status"`
	Detail string `json:"detail"`
}

// Signal is a fired alert. It is built fresh on every evaluation tick,
// handed to the sinks, and never mutated afterwards.
type Signal struct {
	ID         string         `json:"id"`
	Ticker     string         `json:"ticker"`
	Type       SignalType     `json:"type"`
	Tier       int            `json:"tier"` // 1 = act now, 2 = notable, 3 = context
	Title      string         `json:"title"`
	Summary    string         `json:"summary"`
	Bias       Bias           `json:"bias"`
	Confidence Confidence     `json:"confidence"`
	Price      float64        `json:"price"`
	Panels     []PanelReading `json:"panels"`
	Target1    *float64       `json:"target1,omitempty"` // set by confluence and thesis flip only
	Stop       *float64       `json:"stop,omitempty"`
	FiredAt    time.Time      `json:"fired_at"`
}
