package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"TradeYodha/internal/domain/models"
	domrepo "TradeYodha/internal/domain/repository"
	"TradeYodha/pkg/cache"
)

// CacheStateStore persists per-ticker detection baselines through the
// cache service (layered memory + Redis in production). Values are stored
// as JSON strings so both cache backends round-trip them unchanged.
type CacheStateStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewCacheStateStore creates a state store. A zero ttl keeps baselines
// until the cache evicts them.
func NewCacheStateStore(c cache.Service, ttl time.Duration) *CacheStateStore {
	return &CacheStateStore{cache: c, ttl: ttl}
}

func stateKey(ticker string) string {
	return "state:" + ticker
}

// Load returns the stored baseline, with ok=false on a first-ever scan.
func (s *CacheStateStore) Load(ctx context.Context, ticker string) (models.PreviousState, bool, error) {
	var raw string
	err := s.cache.Get(ctx, stateKey(ticker), &raw)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.PreviousState{}, false, nil
		}
		return models.PreviousState{}, false, fmt.Errorf("load state %s: %w", ticker, err)
	}

	var st models.PreviousState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return models.PreviousState{}, false, fmt.Errorf("decode state %s: %w", ticker, err)
	}
	return st, true, nil
}

// Save overwrites the baseline for the ticker.
func (s *CacheStateStore) Save(ctx context.Context, ticker string, st models.PreviousState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", ticker, err)
	}
	if err := s.cache.Set(ctx, stateKey(ticker), string(b), s.ttl); err != nil {
		return fmt.Errorf("save state %s: %w", ticker, err)
	}
	return nil
}

var _ domrepo.StateStore = (*CacheStateStore)(nil)
