package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
	xhttp "TradeYodha/pkg/http"
)

// SignalsQueryUseCase serves fired-signal history from storage.
type SignalsQueryUseCase struct {
	history domrepo.SignalHistory
	timeout time.Duration
}

func NewSignalsQueryUseCase(history domrepo.SignalHistory) *SignalsQueryUseCase {
	return &SignalsQueryUseCase{history: history, timeout: 10 * time.Second}
}

type GetSignalsParams struct {
	Symbol  string
	From    time.Time
	To      time.Time
	Limit   int
	MaxTier int
}

type GetSignalsResult struct {
	Symbol  string           `json:"symbol"`
	From    time.Time        `json:"from"`
	To      time.Time        `json:"to"`
	Count   int              `json:"count"`
	Signals []*models.Signal `json:"signals"`
}

func (uc *SignalsQueryUseCase) GetSignals(ctx context.Context, p GetSignalsParams) (*GetSignalsResult, error) {
	if p.Symbol == "" {
		return nil, xhttp.NewAppError("ERR_REQUIRED", "symbol", "symbol is required", http.StatusBadRequest)
	}
	if p.To.IsZero() {
		p.To = time.Now()
	}
	if p.From.IsZero() {
		p.From = p.To.Add(-24 * time.Hour)
	}
	if p.From.After(p.To) {
		return nil, xhttp.NewAppError("ERR_RANGE", "from", "from must be before to", http.StatusBadRequest)
	}
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}
	if p.MaxTier < 1 || p.MaxTier > 3 {
		p.MaxTier = 3
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	signals, err := uc.history.Query(ctx, p.Symbol, p.From, p.To, p.Limit, p.MaxTier)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}

	return &GetSignalsResult{
		Symbol:  p.Symbol,
		From:    p.From,
		To:      p.To,
		Count:   len(signals),
		Signals: signals,
	}, nil
}

// Health reports storage availability for the health endpoint.
func (uc *SignalsQueryUseCase) Health(ctx context.Context) error {
	return uc.history.Health(ctx)
}
