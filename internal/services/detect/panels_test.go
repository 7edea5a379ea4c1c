package detect

import (
	"testing"

	"TradeYodha/internal/domain/models"
)

func TestBuildPanelsAlwaysSixEntries(t *testing.T) {
	want := []string{"Options Flow", "Volume Pressure", "Dark Pool", "Gamma", "Relative Strength", "VWAP"}
	panels := BuildPanels(neutralState())
	if len(panels) != 6 {
		t.Fatalf("expected 6 panels, got %d", len(panels))
	}
	for i, p := range panels {
		if p.Panel != want[i] {
			t.Fatalf("panel %d: expected %q, got %q", i, want[i], p.Panel)
		}
		if p.Detail == "" {
			t.Fatalf("panel %q has empty detail", p.Panel)
		}
	}
}

func TestBuildPanelsStatuses(t *testing.T) {
	s := bullishState()
	s.GEXFlip = f64(149)
	for _, p := range BuildPanels(s) {
		if p.Status != models.BiasBullish {
			t.Fatalf("panel %q: expected bullish, got %s", p.Panel, p.Status)
		}
	}

	for _, p := range BuildPanels(neutralState()) {
		if p.Status != models.BiasNeutral {
			t.Fatalf("panel %q: expected neutral, got %s", p.Panel, p.Status)
		}
	}
}

func TestBuildPanelsMissingOptionalsNeutral(t *testing.T) {
	s := bullishState()
	s.VWAP = nil
	s.GEXFlip = nil
	panels := BuildPanels(s)
	if panels[3].Status != models.BiasNeutral {
		t.Fatalf("missing gamma levels must read neutral, got %s", panels[3].Status)
	}
	if panels[5].Status != models.BiasNeutral {
		t.Fatalf("missing VWAP must read neutral, got %s", panels[5].Status)
	}
}

func TestFmtUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{75, "$75"},
		{540_000, "$540K"},
		{1_200_000, "$1.2M"},
		{2_500_000_000, "$2.5B"},
		{-1_200_000, "-$1.2M"},
	}
	for _, c := range cases {
		if got := fmtUSD(c.in); got != c.want {
			t.Fatalf("fmtUSD(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
