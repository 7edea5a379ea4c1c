package repository

import (
	"context"
	"time"

	"TradeYodha/internal/domain/models"
)

// MarketStream is a live tape feed from the provider.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// AlertSink receives fired signals for delivery.
type AlertSink interface {
	Publish(ctx context.Context, sig *models.Signal) error
	PublishBatch(ctx context.Context, sigs []*models.Signal) error
	Close() error
}

// SignalHistory persists fired signals for the history API.
type SignalHistory interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, sig *models.Signal) error
	StoreBatch(ctx context.Context, sigs []*models.Signal) error
	// Query returns fired signals for symbol between from and to, newest
	// first, at or above maxTier urgency (tier <= maxTier).
	Query(ctx context.Context, symbol string, from, to time.Time, limit, maxTier int) ([]*models.Signal, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational counters for the scan pipeline.
type Metrics interface {
	RecordSignalFired(ticker, signalType string, tier int)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
