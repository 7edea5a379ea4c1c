package cache

import (
	"sync"
	"time"
)

// TTLCache is an in-process BytesCache. Expired entries are pruned
// lazily on read, which is enough for the handful of response keys the
// API layer produces.
type TTLCache struct {
	mu sync.RWMutex
	m  map[string]ttlEntry
}

type ttlEntry struct {
	val []byte
	exp time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]ttlEntry)}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.val, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = ttlEntry{val: value, exp: exp}
	c.mu.Unlock()
	return nil
}
