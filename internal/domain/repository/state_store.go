package repository

import (
	"context"

	"TradeYodha/internal/domain/models"
)

// StateStore persists the per-ticker detection baseline between ticks.
// Load reports ok=false on a ticker's first ever scan.
type StateStore interface {
	Load(ctx context.Context, ticker string) (st models.PreviousState, ok bool, err error)
	Save(ctx context.Context, ticker string, st models.PreviousState) error
}
