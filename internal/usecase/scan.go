package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
	domsvc "TradeYodha/internal/domain/service"
	mid "TradeYodha/internal/middleware"
	svcmetrics "TradeYodha/internal/service/metrics"
	"TradeYodha/internal/services/detect"
	applogger "TradeYodha/pkg/logger"
)

// ScanUseCase runs one full detection pass for a ticker: fetch the
// current snapshot, load the stored baseline, run every detector, hand
// fired signals to the delivery pipeline, then persist the new baseline.
//
// The baseline is saved even when delivery fails so detectors never see
// a stale previous state on the next tick.
type ScanUseCase struct {
	source   domsvc.SnapshotSource
	states   domrepo.StateStore
	pipeline *mid.AlertPipeline
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewScanUseCase(
	source domsvc.SnapshotSource,
	states domrepo.StateStore,
	pipeline *mid.AlertPipeline,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *ScanUseCase {
	svcmetrics.Register()
	return &ScanUseCase{source: source, states: states, pipeline: pipeline, metrics: metrics, l: l}
}

// Scan evaluates one ticker and returns the fired signals (before any
// pipeline suppression). Delivery errors are reported through metrics
// and logs, not as a scan failure.
func (uc *ScanUseCase) Scan(ctx context.Context, symbol string) ([]*models.Signal, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	start := time.Now()
	defer func() {
		svcmetrics.ScanLatency.WithLabelValues("full").Observe(time.Since(start).Seconds())
	}()

	snap, err := uc.source.Snapshot(ctx, symbol)
	if err != nil {
		svcmetrics.ScanErrors.WithLabelValues("snapshot").Inc()
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	prev, found, err := uc.states.Load(ctx, symbol)
	if err != nil {
		svcmetrics.ScanErrors.WithLabelValues("state_load").Inc()
		return nil, fmt.Errorf("load state: %w", err)
	}

	var prevPtr *models.PreviousState
	if found {
		prevPtr = &prev
	}
	signals := detect.RunAll(snap, prevPtr)

	for _, sig := range signals {
		if uc.pipeline == nil {
			continue
		}
		if err := uc.pipeline.Process(ctx, sig); err != nil {
			if uc.l != nil {
				uc.l.Warn("signal delivery error",
					applogger.String("ticker", sig.Ticker),
					applogger.String("type", string(sig.Type)),
					applogger.Error(err),
				)
			}
		}
	}

	if err := uc.states.Save(ctx, symbol, detect.NextState(snap)); err != nil {
		svcmetrics.ScanErrors.WithLabelValues("state_save").Inc()
		return signals, fmt.Errorf("save state: %w", err)
	}

	if uc.l != nil && len(signals) > 0 {
		uc.l.Info("scan fired signals",
			applogger.String("symbol", symbol),
			applogger.Int("count", len(signals)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return signals, nil
}

// Snapshot returns the current assembled state for a ticker without
// running detection or touching the stored baseline.
func (uc *ScanUseCase) Snapshot(ctx context.Context, symbol string) (*models.TickerState, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	return uc.source.Snapshot(ctx, symbol)
}

// Baseline returns the stored previous state for a ticker.
func (uc *ScanUseCase) Baseline(ctx context.Context, symbol string) (*models.PreviousState, error) {
	st, ok, err := uc.states.Load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &st, nil
}
