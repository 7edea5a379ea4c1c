package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	models "TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
	icache "TradeYodha/internal/service/cache"
	svcmetrics "TradeYodha/internal/service/metrics"
	"TradeYodha/internal/service/ratelimit"
	"TradeYodha/internal/usecase"
	xhttp "TradeYodha/pkg/http"
	xlogger "TradeYodha/pkg/logger"
	"TradeYodha/pkg/util"

	"github.com/labstack/echo/v4"
)

const historyCacheTTL = 30 * time.Second

// SignalsEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type SignalsEchoHandler struct {
	logger *xlogger.Logger
	query  *usecase.SignalsQueryUseCase
	scan   *usecase.ScanUseCase
	stream domrepo.MarketStream
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
}

func NewSignalsEchoHandler(logger *xlogger.Logger, query *usecase.SignalsQueryUseCase, scan *usecase.ScanUseCase, stream domrepo.MarketStream) *SignalsEchoHandler {
	svcmetrics.Register()
	return &SignalsEchoHandler{
		logger: logger,
		query:  query,
		scan:   scan,
		stream: stream,
		rl:     ratelimit.New(),
	}
}

// SetCache enables response caching for the history endpoint.
func (h *SignalsEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.History)
	g.GET("/signals/live", h.LiveScan)
	g.GET("/state", h.State)
	e.GET("/healthz", h.Health)
}

func (h *SignalsEchoHandler) History(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.ScanLatency.WithLabelValues("http_history").Observe(time.Since(start).Seconds())
	}()

	req := &models.SignalsHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":history", 5, 2) {
		h.logger.Warn("signals.history rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	to := util.ParseTimeDefault(req.To, time.Now())
	from := util.ParseTimeDefault(req.From, to.Add(-24*time.Hour))

	// Limit and tier shape the payload, so they belong in the key.
	cacheKey := fmt.Sprintf("signals:%s:%s:%s:%d:%d", req.Symbol, req.From, req.To, req.Limit, req.Tier)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("signals.history cache_get_error", xlogger.Error(err))
		} else if ok {
			h.logger.Debug("signals.history cache_hit", xlogger.String("key", cacheKey))
			return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, b)
		}
	}

	res, err := h.query.GetSignals(c.Request().Context(), usecase.GetSignalsParams{
		Symbol:  req.Symbol,
		From:    from,
		To:      to,
		Limit:   req.Limit,
		MaxTier: req.Tier,
	})
	if err != nil {
		svcmetrics.ScanErrors.WithLabelValues("http_history").Inc()
		h.logger.Error("signals.history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		wrapped := xhttp.APIResponse{
			Status:  http.StatusOK,
			Message: http.StatusText(http.StatusOK),
			Data:    res,
		}
		if b, merr := json.Marshal(wrapped); merr == nil {
			if cerr := h.cache.SetBytes(cacheKey, b, historyCacheTTL); cerr != nil {
				h.logger.Warn("signals.history cache_set_error", xlogger.Error(cerr))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) LiveScan(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.ScanLatency.WithLabelValues("http_live").Observe(time.Since(start).Seconds())
	}()

	req := &models.LiveScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":live", 3, 1) {
		h.logger.Warn("signals.live rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	signals, err := h.scan.Scan(c.Request().Context(), req.Symbol)
	if err != nil {
		svcmetrics.ScanErrors.WithLabelValues("http_live").Inc()
		h.logger.Error("signals.live scan error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"symbol":  req.Symbol,
		"count":   len(signals),
		"signals": signals,
	})
}

func (h *SignalsEchoHandler) State(c echo.Context) error {
	req := &models.StateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":state", 5, 2) {
		h.logger.Warn("signals.state rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	snap, err := h.scan.Snapshot(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("signals.state snapshot error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	baseline, err := h.scan.Baseline(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("signals.state baseline error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"symbol":   req.Symbol,
		"snapshot": snap,
		"baseline": baseline,
	})
}

func (h *SignalsEchoHandler) Health(c echo.Context) error {
	status := "ok"
	code := http.StatusOK
	if err := h.query.Health(c.Request().Context()); err != nil {
		h.logger.Warn("healthz storage unavailable", xlogger.Error(err))
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	connected := h.stream != nil && h.stream.IsConnected()
	return c.JSON(code, echo.Map{
		"status":           status,
		"stream_connected": connected,
	})
}
