package usecase

import (
	"testing"

	"TradeYodha/internal/domain/models"
)

func feed(t *FlowTracker, symbol string, prices []float64, size float64) {
	for i, p := range prices {
		t.Observe(&models.Trade{Symbol: symbol, Timestamp: int64(1000 + i), Price: p, Size: size})
	}
}

func TestFlowTrackerNotReadyBeforeMinObservations(t *testing.T) {
	ft := NewFlowTracker(WithFlowMinObservations(10))
	feed(ft, "AAPL", []float64{100, 100.1, 100.2}, 100)

	_, _, ok := ft.Readings("AAPL")
	if ok {
		t.Fatalf("expected not ready with 3 prints")
	}
}

func TestFlowTrackerRisingOnUpticks(t *testing.T) {
	ft := NewFlowTracker(WithFlowMinObservations(5))
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.05
	}
	feed(ft, "AAPL", prices, 200)

	trend, pressure, ok := ft.Readings("AAPL")
	if !ok {
		t.Fatalf("expected readings ready")
	}
	if trend != models.CVDRising {
		t.Fatalf("expected rising CVD, got %s", trend)
	}
	if pressure <= 90 {
		t.Fatalf("expected heavy buy pressure, got %.1f", pressure)
	}
}

func TestFlowTrackerFallingOnDownticks(t *testing.T) {
	ft := NewFlowTracker(WithFlowMinObservations(5))
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 - float64(i)*0.05
	}
	feed(ft, "TSLA", prices, 200)

	trend, pressure, ok := ft.Readings("TSLA")
	if !ok {
		t.Fatalf("expected readings ready")
	}
	if trend != models.CVDFalling {
		t.Fatalf("expected falling CVD, got %s", trend)
	}
	if pressure >= 10 {
		t.Fatalf("expected heavy sell pressure, got %.1f", pressure)
	}
}

func TestFlowTrackerFlatOnBalancedTape(t *testing.T) {
	ft := NewFlowTracker(WithFlowMinObservations(5))
	// alternate up/down ticks with equal size
	prices := make([]float64, 40)
	for i := range prices {
		if i%2 == 0 {
			prices[i] = 100.1
		} else {
			prices[i] = 100.0
		}
	}
	feed(ft, "SPY", prices, 100)

	trend, pressure, ok := ft.Readings("SPY")
	if !ok {
		t.Fatalf("expected readings ready")
	}
	if trend != models.CVDFlat {
		t.Fatalf("expected flat CVD, got %s", trend)
	}
	if pressure < 40 || pressure > 60 {
		t.Fatalf("expected balanced pressure, got %.1f", pressure)
	}
}

func TestFlowTrackerUnknownSymbol(t *testing.T) {
	ft := NewFlowTracker()
	if _, _, ok := ft.Readings("MISSING"); ok {
		t.Fatalf("unknown symbol must not be ready")
	}
}
