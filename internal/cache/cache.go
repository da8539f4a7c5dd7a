// Package cache provides the content-addressed acquisition cache. The unit
// of mutation is "insert if absent"; two concurrent identical OCR jobs may
// both compute and overwrite the same entry harmlessly.
package cache

import (
	"context"
	"time"
)

// Entry is one cached acquisition result, keyed by content hash.
type Entry struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
}

// Store is the keyed cache contract consumed by the acquirer. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
}
