package usecase

import (
	"context"
	"sync"
	"time"

	"TradeYodha/pkg/queue"

	applogger "TradeYodha/pkg/logger"
)

// ScanScheduler enqueues one scan request per watchlist symbol every
// interval. Queue workers pick the requests up, so a slow provider call
// for one ticker never delays the others.
type ScanScheduler struct {
	publisher queue.QueueService
	symbols   []string
	interval  time.Duration
	l         *applogger.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	started bool
}

func NewScanScheduler(publisher queue.QueueService, symbols []string, interval time.Duration, l *applogger.Logger) *ScanScheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ScanScheduler{
		publisher: publisher,
		symbols:   symbols,
		interval:  interval,
		l:         l,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the scheduling loop. The first round is enqueued
// immediately.
func (s *ScanScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueRound(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.enqueueRound(ctx)
			}
		}
	}()

	if s.l != nil {
		s.l.Info("scan scheduler started",
			applogger.Strings("symbols", s.symbols),
			applogger.Duration("interval_ms", s.interval),
		)
	}
}

// Stop halts the scheduling loop.
func (s *ScanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
}

func (s *ScanScheduler) enqueueRound(ctx context.Context) {
	for _, sym := range s.symbols {
		if err := s.publisher.PublishMessage(ctx, ScanTickerMsgType, ScanTickerPayload{Symbol: sym}); err != nil {
			if s.l != nil {
				s.l.Error("scan enqueue failed", applogger.String("symbol", sym), applogger.Error(err))
			}
		}
	}
}
