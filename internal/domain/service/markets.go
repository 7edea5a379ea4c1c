package service

import (
	"context"

	"TradeYodha/internal/domain/models"
)

// SnapshotSource assembles the current market readings for one ticker.
type SnapshotSource interface {
	Snapshot(ctx context.Context, symbol string) (*models.TickerState, error)
}

// FlowReadings supplies tape-derived fields (CVD trend, volume pressure)
// maintained from the live trade stream.
type FlowReadings interface {
	Readings(symbol string) (trend models.CVDTrend, pressure float64, ok bool)
}

// Notifier pushes high-urgency signals to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, sig *models.Signal) error
}
