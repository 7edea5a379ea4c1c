package usecase

import (
	"context"

	"TradeYodha/internal/domain/models"
	drepo "TradeYodha/internal/domain/repository"
)

// FlowCollector consumes the live trade stream and feeds the flow tracker.
type FlowCollector struct {
	stream  drepo.MarketStream
	tracker *FlowTracker
	metrics drepo.Metrics
}

// NewFlowCollector creates a new FlowCollector instance.
func NewFlowCollector(stream drepo.MarketStream, tracker *FlowTracker, metrics drepo.Metrics) *FlowCollector {
	return &FlowCollector{stream: stream, tracker: tracker, metrics: metrics}
}

// IsConnected returns true if the market stream is connected.
func (c *FlowCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Tracker returns the underlying FlowTracker.
func (c *FlowCollector) Tracker() *FlowTracker { return c.tracker }

func (c *FlowCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	trCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, trCh, errCh)
	return nil
}

func (c *FlowCollector) consume(ctx context.Context, trCh <-chan *models.Trade, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			// The stream closes both channels after a read failure, so a
			// closed errCh means the socket is gone too. Reconnect paces
			// itself with the configured delay, then fresh channels replace
			// the dead ones.
			if !ok || err != nil {
				c.metrics.RecordError("stream")
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					continue
				}
				trCh, errCh = c.stream.Read(ctx)
			}
		case t, ok := <-trCh:
			if !ok {
				trCh = nil
				continue
			}
			if t == nil {
				continue
			}
			c.tracker.Observe(t)
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

func (c *FlowCollector) Stop() error { return c.stream.Close() }
