package notify

import (
	"strings"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
)

func TestFormatSignalWithTargets(t *testing.T) {
	tgt := 105.0
	stop := 95.0
	sig := &models.Signal{
		Ticker:     "AAPL",
		Type:       models.SignalConfluence,
		Tier:       1,
		Title:      "Confluence: 5/6 panels bullish",
		Summary:    "Flow & tape aligned",
		Bias:       models.BiasBullish,
		Confidence: models.ConfidenceHigh,
		Price:      100.25,
		Target1:    &tgt,
		Stop:       &stop,
		FiredAt:    time.Now(),
	}

	got := FormatSignal(sig)
	for _, want := range []string{"<b>AAPL</b>", "Tier 1", "HIGH", "$100.25", "Target $105.00", "Stop $95.00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatted message missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Flow & tape") {
		t.Fatalf("summary not HTML-escaped:\n%s", got)
	}
	if !strings.Contains(got, "Flow &amp; tape") {
		t.Fatalf("expected escaped ampersand:\n%s", got)
	}
}

func TestFormatSignalWithoutTargets(t *testing.T) {
	sig := &models.Signal{
		Ticker:     "TSLA",
		Type:       models.SignalKeyLevel,
		Tier:       3,
		Title:      "Price at put wall",
		Summary:    "Within 0.5% of level",
		Bias:       models.BiasBullish,
		Confidence: models.ConfidenceLow,
		Price:      250,
	}

	got := FormatSignal(sig)
	if strings.Contains(got, "Target") {
		t.Fatalf("no targets expected:\n%s", got)
	}
	if !strings.Contains(got, "Tier 3") {
		t.Fatalf("missing tier:\n%s", got)
	}
}
