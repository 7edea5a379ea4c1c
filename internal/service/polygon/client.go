package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TradeYodha/internal/domain/models"
	domsvc "TradeYodha/internal/domain/service"
	icache "TradeYodha/internal/service/cache"
	"TradeYodha/internal/service/ratelimit"
	xhttp "TradeYodha/pkg/http"
	applogger "TradeYodha/pkg/logger"
)

// Client assembles TickerState snapshots from the Polygon-style REST API.
// Responses are cached for a short TTL so burst scans do not hammer the
// provider; a token bucket caps the request rate per endpoint.
type Client struct {
	http     *xhttp.Client
	baseURL  string
	apiKey   string
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
	maxRPS   float64
	flow     domsvc.FlowReadings
	l        *applogger.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithCache sets the response cache.
func WithCache(c icache.BytesCache, ttl time.Duration) ClientOption {
	return func(cl *Client) {
		cl.cache = c
		if ttl > 0 {
			cl.cacheTTL = ttl
		}
	}
}

// WithFlowReadings wires the tape-derived CVD and volume pressure source.
func WithFlowReadings(f domsvc.FlowReadings) ClientOption {
	return func(cl *Client) { cl.flow = f }
}

// WithMaxRPS caps outbound requests per second per endpoint.
func WithMaxRPS(rps float64) ClientOption {
	return func(cl *Client) {
		if rps > 0 {
			cl.maxRPS = rps
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) ClientOption {
	return func(cl *Client) { cl.l = l }
}

// NewClient creates a Polygon REST client.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:  baseURL,
		apiKey:   apiKey,
		cacheTTL: 10 * time.Second,
		rl:       ratelimit.New(),
		maxRPS:   5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tickerSnapshot struct {
	Ticker        string   `json:"ticker"`
	Price         float64  `json:"price"`
	ChangePercent float64  `json:"change_percent"`
	VWAP          *float64 `json:"vwap"`
}

type flowSummary struct {
	CallRatio      float64  `json:"call_ratio"`
	SweepRatio     float64  `json:"sweep_ratio"`
	NetDelta       float64  `json:"net_delta"`
	SweepCount     int      `json:"sweep_count"`
	TopSweepStrike *string  `json:"top_sweep_strike"`
	TopSweepValue  *float64 `json:"top_sweep_value"`
}

type darkPoolSummary struct {
	BullishPct  float64 `json:"bullish_pct"`
	LargePrints int     `json:"large_prints"`
	TotalValue  float64 `json:"total_value"`
}

type levelsSummary struct {
	CallWall *float64 `json:"call_wall"`
	PutWall  *float64 `json:"put_wall"`
	GEXFlip  *float64 `json:"gex_flip"`
	RSVsSPY  float64  `json:"rs_vs_spy"`
}

type newsSummary struct {
	Score *float64 `json:"score"`
}

// Snapshot fetches and assembles the full TickerState for one symbol.
// The flow tracker overrides CVD trend and volume pressure when it has
// seen enough tape for the symbol.
func (c *Client) Snapshot(ctx context.Context, symbol string) (*models.TickerState, error) {
	start := time.Now()

	var snap tickerSnapshot
	if err := c.fetch(ctx, "snapshot", symbol, &snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", symbol, err)
	}

	var flow flowSummary
	if err := c.fetch(ctx, "flow", symbol, &flow); err != nil {
		return nil, fmt.Errorf("flow %s: %w", symbol, err)
	}

	var dp darkPoolSummary
	if err := c.fetch(ctx, "darkpool", symbol, &dp); err != nil {
		return nil, fmt.Errorf("darkpool %s: %w", symbol, err)
	}

	var levels levelsSummary
	if err := c.fetch(ctx, "levels", symbol, &levels); err != nil {
		return nil, fmt.Errorf("levels %s: %w", symbol, err)
	}

	// News coverage is optional; a miss leaves NewsScore nil.
	var news newsSummary
	if err := c.fetch(ctx, "news", symbol, &news); err != nil {
		if c.l != nil {
			c.l.Warn("polygon news fetch failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
		news.Score = nil
	}

	st := &models.TickerState{
		Ticker:         symbol,
		Timestamp:      time.Now(),
		Price:          snap.Price,
		ChangePercent:  snap.ChangePercent,
		FlowCallRatio:  flow.CallRatio,
		FlowSweepRatio: flow.SweepRatio,
		FlowNetDelta:   flow.NetDelta,
		SweepCount:     flow.SweepCount,
		TopSweepStrike: flow.TopSweepStrike,
		TopSweepValue:  flow.TopSweepValue,
		CVDTrend:       models.CVDFlat,
		VolumePressure: 50,
		DPBullishPct:   dp.BullishPct,
		DPLargePrints:  dp.LargePrints,
		DPTotalValue:   dp.TotalValue,
		RSVsSPY:        levels.RSVsSPY,
		CallWall:       levels.CallWall,
		PutWall:        levels.PutWall,
		GEXFlip:        levels.GEXFlip,
		VWAP:           snap.VWAP,
		NewsScore:      news.Score,
	}

	if c.flow != nil {
		if trend, pressure, ok := c.flow.Readings(symbol); ok {
			st.CVDTrend = trend
			st.VolumePressure = pressure
		}
	}

	if c.l != nil {
		c.l.Debug("polygon snapshot assembled",
			applogger.String("symbol", symbol),
			applogger.Float64("price", st.Price),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return st, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, symbol string, dest interface{}) error {
	key := "polygon:" + endpoint + ":" + symbol
	if c.cache != nil {
		if b, ok, err := c.cache.GetBytes(key); err == nil && ok {
			return json.Unmarshal(b, dest)
		}
	}

	if !c.rl.Allow(endpoint, c.maxRPS, c.maxRPS) {
		return fmt.Errorf("rate limited: %s", endpoint)
	}

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v1/%s/%s", c.baseURL, endpoint, symbol),
		QueryParams: map[string][]string{
			"apiKey": {c.apiKey},
		},
	}, &raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	if c.cache != nil {
		_ = c.cache.SetBytes(key, raw, c.cacheTTL)
	}
	return nil
}

var _ domsvc.SnapshotSource = (*Client)(nil)
