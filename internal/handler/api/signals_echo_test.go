package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TradeYodha/internal/domain/models"
	icache "TradeYodha/internal/service/cache"
	"TradeYodha/internal/usecase"
	applogger "TradeYodha/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubHistory struct {
	limit   int
	maxTier int
	result  []*models.Signal
}

func (s *stubHistory) Init(ctx context.Context) error                           { return nil }
func (s *stubHistory) Store(ctx context.Context, sig *models.Signal) error      { return nil }
func (s *stubHistory) StoreBatch(ctx context.Context, sg []*models.Signal) error { return nil }
func (s *stubHistory) Health(ctx context.Context) error                         { return nil }
func (s *stubHistory) Close() error                                             { return nil }

func (s *stubHistory) Query(ctx context.Context, symbol string, from, to time.Time, limit, maxTier int) ([]*models.Signal, error) {
	s.limit, s.maxTier = limit, maxTier
	return s.result, nil
}

func newTestHandler(t *testing.T, hist *stubHistory) *SignalsEchoHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewSignalsEchoHandler(l, usecase.NewSignalsQueryUseCase(hist), nil, nil)
}

func TestHistoryRequiresSymbol(t *testing.T) {
	h := newTestHandler(t, &stubHistory{})
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/api/signals", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Errorf("expected validation failure, got %s", rec.Body.String())
	}
}

func TestHistoryAppliesRequestDefaults(t *testing.T) {
	hist := &stubHistory{result: []*models.Signal{{Ticker: "AAPL", Type: models.SignalConfluence, Tier: 1}}}
	h := newTestHandler(t, hist)
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/api/signals?symbol=AAPL", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `"status":200`) {
		t.Fatalf("expected success, got %s", body)
	}
	if hist.limit != 100 {
		t.Errorf("default limit = %d, want 100", hist.limit)
	}
	if hist.maxTier != 3 {
		t.Errorf("default tier = %d, want 3", hist.maxTier)
	}
	if !strings.Contains(body, `"ticker":"AAPL"`) {
		t.Errorf("expected signal row in response, got %s", body)
	}
}

func TestHistoryCacheKeyedByLimitAndTier(t *testing.T) {
	hist := &stubHistory{result: []*models.Signal{{Ticker: "AAPL", Type: models.SignalConfluence, Tier: 3}}}
	h := newTestHandler(t, hist)
	h.SetCache(icache.NewTTLCache())
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/api/signals?symbol=AAPL&tier=3", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"status":200`) {
		t.Fatalf("expected success, got %s", rec.Body.String())
	}

	// A stricter tier filter must not be served the tier=3 payload.
	hist.result = nil
	req = httptest.NewRequest(http.MethodGet, "/api/signals?symbol=AAPL&tier=1", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if hist.maxTier != 1 {
		t.Errorf("tier=1 request never reached the store, maxTier = %d", hist.maxTier)
	}
	if strings.Contains(rec.Body.String(), `"tier":3`) {
		t.Errorf("tier=1 request served tier=3 payload: %s", rec.Body.String())
	}
}

func TestHistoryRejectsOutOfRangeTier(t *testing.T) {
	h := newTestHandler(t, &stubHistory{})
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/api/signals?symbol=AAPL&tier=7", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Errorf("expected validation failure for tier 7, got %s", rec.Body.String())
	}
}
