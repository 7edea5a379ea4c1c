package cache

import "time"

// BytesCache stores raw bytes under a TTL. The Polygon client uses the
// Redis implementation to dedupe provider calls between scan ticks; the
// HTTP layer uses the in-process TTL cache for rendered responses.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
