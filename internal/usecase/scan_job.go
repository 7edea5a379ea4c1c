package usecase

import (
	"context"
	"fmt"
	"time"

	pkgcache "TradeYodha/pkg/cache"
	"TradeYodha/pkg/queue"
)

// ScanTickerMsgType is the queue message type for single-ticker scans.
const ScanTickerMsgType = "scan_ticker"

// scanLockTTL bounds how long a crashed worker can hold a symbol.
const scanLockTTL = 30 * time.Second

// ScanTickerPayload is the queue payload for a scan request.
type ScanTickerPayload struct {
	Symbol string `json:"symbol"`
}

// ScanTickerJob processes queued scan requests through the scan usecase.
// A per-symbol Redis lock keeps two workers from interleaving the
// baseline read-modify-write when scheduler rounds overlap.
type ScanTickerJob struct {
	scanner *ScanUseCase
	locks   pkgcache.Service
}

func NewScanTickerJob(scanner *ScanUseCase, locks pkgcache.Service) *ScanTickerJob {
	return &ScanTickerJob{scanner: scanner, locks: locks}
}

func (j *ScanTickerJob) Name() string { return "scan-ticker" }

func (j *ScanTickerJob) Type() string { return ScanTickerMsgType }

func (j *ScanTickerJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[ScanTickerPayload](payload)
	if err != nil {
		return fmt.Errorf("scan job payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("scan job: symbol empty")
	}

	if j.locks != nil {
		lockKey := "scanlock:" + p.Symbol
		ok, err := j.locks.TryLock(ctx, lockKey, scanLockTTL)
		if err != nil {
			return fmt.Errorf("scan job lock: %w", err)
		}
		if !ok {
			// Another worker is mid-scan on this symbol; the next
			// scheduler round will retry.
			return nil
		}
		defer func() { _ = j.locks.Unlock(context.Background(), lockKey) }()
	}

	_, err = j.scanner.Scan(ctx, p.Symbol)
	return err
}

var _ queue.Job = (*ScanTickerJob)(nil)
