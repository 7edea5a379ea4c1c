package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeYodha/internal/domain/models"
	drepo "TradeYodha/internal/domain/repository"
	domsvc "TradeYodha/internal/domain/service"
	applogger "TradeYodha/pkg/logger"
)

// SignalProcessor routes fired signals to the alert sink and, for urgent
// tiers, to the chat notifier. One publish failure fails the whole
// Process call so the pipeline can buffer and retry; notifier failures
// are logged but never block delivery to the bus.
type SignalProcessor struct {
	sink     drepo.AlertSink
	notifier domsvc.Notifier
	metrics  drepo.Metrics
	l        *applogger.Logger
}

// NewSignalProcessor creates a new SignalProcessor instance.
func NewSignalProcessor(sink drepo.AlertSink, notifier domsvc.Notifier, metrics drepo.Metrics, l *applogger.Logger) *SignalProcessor {
	return &SignalProcessor{sink: sink, notifier: notifier, metrics: metrics, l: l}
}

// Process delivers a single fired signal.
func (p *SignalProcessor) Process(ctx context.Context, sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal is nil")
	}

	start := time.Now()
	if err := p.sink.Publish(ctx, sig); err != nil {
		p.metrics.RecordError("publish")
		return fmt.Errorf("publish signal: %w", err)
	}

	p.metrics.RecordSignalFired(sig.Ticker, string(sig.Type), sig.Tier)
	p.metrics.RecordLatency("publish", time.Since(start).Seconds())

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, sig); err != nil {
			p.metrics.RecordError("notify")
			if p.l != nil {
				p.l.Warn("notifier error",
					applogger.String("ticker", sig.Ticker),
					applogger.String("type", string(sig.Type)),
					applogger.Error(err),
				)
			}
		}
	}
	return nil
}

// ProcessBatch delivers multiple fired signals in one publish.
func (p *SignalProcessor) ProcessBatch(ctx context.Context, sigs []*models.Signal) error {
	if len(sigs) == 0 {
		return nil
	}

	start := time.Now()
	if err := p.sink.PublishBatch(ctx, sigs); err != nil {
		p.metrics.RecordError("publish_batch")
		return fmt.Errorf("publish batch: %w", err)
	}

	for _, sig := range sigs {
		p.metrics.RecordSignalFired(sig.Ticker, string(sig.Type), sig.Tier)
		if p.notifier != nil {
			if err := p.notifier.Notify(ctx, sig); err != nil {
				p.metrics.RecordError("notify")
			}
		}
	}
	p.metrics.RecordLatency("publish_batch", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *SignalProcessor) Close() {
	if p.sink != nil {
		_ = p.sink.Close()
	}
}
