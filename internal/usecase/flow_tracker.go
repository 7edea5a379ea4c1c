package usecase

import (
	"sync"
	"time"

	"TradeYodha/internal/domain/models"
	domsvc "TradeYodha/internal/domain/service"
)

// FlowTracker maintains tape-derived readings per symbol from the live
// trade stream: CVD trend and a 0..100 buy-vs-sell volume pressure index.
// Trades are classified by the tick rule; zero-tick trades inherit the
// side of the previous print.
type FlowTracker struct {
	mu      sync.RWMutex
	window  time.Duration
	minObs  int
	symbols map[string]*symbolFlow
}

type flowPrint struct {
	ts     int64
	signed float64 // +size buy, -size sell
}

type symbolFlow struct {
	lastPrice float64
	lastSide  float64 // +1 or -1
	prints    []flowPrint
}

// FlowTrackerOption configures FlowTracker.
type FlowTrackerOption func(*FlowTracker)

// WithFlowWindow sets the rolling window for pressure and CVD slope.
func WithFlowWindow(d time.Duration) FlowTrackerOption {
	return func(t *FlowTracker) {
		if d > 0 {
			t.window = d
		}
	}
}

// WithFlowMinObservations sets the minimum prints before readings are
// reported as valid.
func WithFlowMinObservations(n int) FlowTrackerOption {
	return func(t *FlowTracker) {
		if n > 0 {
			t.minObs = n
		}
	}
}

// NewFlowTracker creates a tracker with a 5 minute window by default.
func NewFlowTracker(opts ...FlowTrackerOption) *FlowTracker {
	t := &FlowTracker{
		window:  5 * time.Minute,
		minObs:  20,
		symbols: make(map[string]*symbolFlow),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe records one tape print.
func (t *FlowTracker) Observe(tr *models.Trade) {
	if tr == nil || tr.Symbol == "" || tr.Size <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sf, ok := t.symbols[tr.Symbol]
	if !ok {
		sf = &symbolFlow{lastSide: 1}
		t.symbols[tr.Symbol] = sf
	}

	side := sf.lastSide
	switch {
	case sf.lastPrice == 0:
		// first print, assume buy
	case tr.Price > sf.lastPrice:
		side = 1
	case tr.Price < sf.lastPrice:
		side = -1
	}
	sf.lastPrice = tr.Price
	sf.lastSide = side

	sf.prints = append(sf.prints, flowPrint{ts: tr.Timestamp, signed: side * tr.Size})
	sf.prune(tr.Timestamp, t.window)
}

// Readings returns the current CVD trend and volume pressure for symbol.
// ok is false until enough prints have been observed inside the window.
func (t *FlowTracker) Readings(symbol string) (models.CVDTrend, float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sf, exists := t.symbols[symbol]
	if !exists || len(sf.prints) < t.minObs {
		return models.CVDFlat, 50, false
	}

	var buy, sell float64
	for _, p := range sf.prints {
		if p.signed >= 0 {
			buy += p.signed
		} else {
			sell -= p.signed
		}
	}
	total := buy + sell
	if total <= 0 {
		return models.CVDFlat, 50, false
	}

	pressure := buy / total * 100

	// Net delta beyond 5% of window volume counts as a trend.
	net := buy - sell
	trend := models.CVDFlat
	if net > 0.05*total {
		trend = models.CVDRising
	} else if net < -0.05*total {
		trend = models.CVDFalling
	}
	return trend, pressure, true
}

func (sf *symbolFlow) prune(now int64, window time.Duration) {
	cutoff := now - int64(window.Seconds())
	i := 0
	for ; i < len(sf.prints); i++ {
		if sf.prints[i].ts >= cutoff {
			break
		}
	}
	if i > 0 {
		sf.prints = sf.prints[i:]
	}
}

var _ domsvc.FlowReadings = (*FlowTracker)(nil)
