package detect

import (
	"fmt"

	"TradeYodha/internal/domain/models"
)

// BuildPanels produces the six-panel breakdown attached to every signal:
// Options Flow, Volume Pressure, Dark Pool, Gamma, Relative Strength,
// VWAP. Each panel derives its status from the snapshot alone, so the
// output is identical no matter which detector asked for it.
func BuildPanels(s *models.TickerState) []models.PanelReading {
	panels := make([]models.PanelReading, 0, 6)

	flow := models.BiasNeutral
	if s.FlowCallRatio > 60 {
		flow = models.BiasBullish
	} else if s.FlowCallRatio < 40 {
		flow = models.BiasBearish
	}
	panels = append(panels, models.PanelReading{
		Panel:  "Options Flow",
		Status: flow,
		Detail: fmt.Sprintf("%.0f%% calls, %s net delta, %.0f%% sweeps", s.FlowCallRatio, fmtUSD(s.FlowNetDelta), s.FlowSweepRatio),
	})

	vol := models.BiasNeutral
	if s.VolumePressure > 60 {
		vol = models.BiasBullish
	} else if s.VolumePressure < 40 {
		vol = models.BiasBearish
	}
	panels = append(panels, models.PanelReading{
		Panel:  "Volume Pressure",
		Status: vol,
		Detail: fmt.Sprintf("%.0f buy-side pressure, CVD %s", s.VolumePressure, s.CVDTrend),
	})

	dp := models.BiasNeutral
	if s.DPBullishPct > 55 {
		dp = models.BiasBullish
	} else if s.DPBullishPct < 45 {
		dp = models.BiasBearish
	}
	panels = append(panels, models.PanelReading{
		Panel:  "Dark Pool",
		Status: dp,
		Detail: fmt.Sprintf("%.0f%% bullish blocks, %d large prints, %s total", s.DPBullishPct, s.DPLargePrints, fmtUSD(s.DPTotalValue)),
	})

	gamma := models.BiasNeutral
	gammaDetail := "no gamma levels"
	if s.GEXFlip != nil {
		if s.Price > *s.GEXFlip {
			gamma = models.BiasBullish
			gammaDetail = fmt.Sprintf("above GEX flip %.2f", *s.GEXFlip)
		} else if s.Price < *s.GEXFlip {
			gamma = models.BiasBearish
			gammaDetail = fmt.Sprintf("below GEX flip %.2f", *s.GEXFlip)
		} else {
			gammaDetail = fmt.Sprintf("at GEX flip %.2f", *s.GEXFlip)
		}
	}
	panels = append(panels, models.PanelReading{
		Panel:  "Gamma",
		Status: gamma,
		Detail: gammaDetail,
	})

	rs := models.BiasNeutral
	if s.RSVsSPY > 0.3 {
		rs = models.BiasBullish
	} else if s.RSVsSPY < -0.3 {
		rs = models.BiasBearish
	}
	panels = append(panels, models.PanelReading{
		Panel:  "Relative Strength",
		Status: rs,
		Detail: fmt.Sprintf("%+.2f vs SPY", s.RSVsSPY),
	})

	vwap := models.BiasNeutral
	vwapDetail := "no VWAP"
	if s.VWAP != nil {
		if s.Price > *s.VWAP {
			vwap = models.BiasBullish
		} else if s.Price < *s.VWAP {
			vwap = models.BiasBearish
		}
		vwapDetail = fmt.Sprintf("price %.2f vs VWAP %.2f", s.Price, *s.VWAP)
	}
	panels = append(panels, models.PanelReading{
		Panel:  "VWAP",
		Status: vwap,
		Detail: vwapDetail,
	})

	return panels
}

// fmtUSD renders a dollar amount in compact form ($1.2M, $540K, $75).
func fmtUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%s$%.1fB", sign, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s$%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.0fK", sign, v/1e3)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}
