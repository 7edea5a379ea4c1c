package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
)

// Proc is the minimal signal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, sig *models.Signal) error
}

// AlertPipeline sits between the detectors and the delivery sinks.
// It validates fired signals, throttles repeats of the same (ticker, type)
// inside a cooldown window, and buffers when downstream is unavailable.
// Detection itself never dedupes; suppression lives here only.
type AlertPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	cooldown time.Duration
	bufSize  int
	bufCh    chan *models.Signal
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSent map[string]time.Time // per (ticker, type) last delivered time
}

type PipelineOption func(*AlertPipeline)

// WithCooldown sets the repeat-suppression window per (ticker, type).
// Zero disables throttling.
func WithCooldown(d time.Duration) PipelineOption {
	return func(p *AlertPipeline) {
		p.cooldown = d
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *AlertPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewAlertPipeline creates a new pipeline.
func NewAlertPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *AlertPipeline {
	p := &AlertPipeline{
		proc:     proc,
		metrics:  metrics,
		cooldown: 5 * time.Minute,
		bufSize:  1000,
		bufCh:    make(chan *models.Signal, 1000),
		stopCh:   make(chan struct{}),
		lastSent: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.Signal, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered signals.
func (p *AlertPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case sig := <-p.bufCh:
				if sig == nil {
					continue
				}
				if err := p.proc.Process(ctx, sig); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- sig:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *AlertPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards the signal downstream,
// buffering on errors.
func (p *AlertPipeline) Process(ctx context.Context, sig *models.Signal) error {
	start := time.Now()
	if err := validateSignal(sig); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(sig, start) {
		// suppressed inside cooldown; record and drop silently
		p.metrics.RecordError("pipeline_cooldown")
		return nil
	}

	if err := p.proc.Process(ctx, sig); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- sig:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateSignal(sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal nil")
	}
	if sig.Ticker == "" {
		return fmt.Errorf("ticker empty")
	}
	if sig.Type == "" {
		return fmt.Errorf("type empty")
	}
	if sig.Tier < 1 || sig.Tier > 3 {
		return fmt.Errorf("tier out of range: %d", sig.Tier)
	}
	return nil
}

func (p *AlertPipeline) allow(sig *models.Signal, now time.Time) bool {
	if p.cooldown <= 0 {
		return true
	}
	key := sig.Ticker + ":" + string(sig.Type)

	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSent[key]
	if !last.IsZero() && now.Sub(last) < p.cooldown {
		return false
	}
	p.lastSent[key] = now
	return true
}
