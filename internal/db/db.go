package db

import (
	"context"
	"time"
)

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RecordStore keeps expiring records that are written once and then
// replaced in place until they expire.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Create fails with ErrKeyExists when the key is present.
	Create(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Replace keeps the remaining TTL and fails with ErrKeyNotFound when the
	// key is gone.
	Replace(ctx context.Context, key string, value []byte) error
}

// SearchEngine is the search backend facade. Consumers depend on narrow
// sub-sets of it.
//
//nolint:interfacebloat // facade; consumers declare their own narrow interfaces (ISP)
type SearchEngine interface {
	Pinger
	IndexExists(ctx context.Context, name string) (bool, error)
	GetMapping(ctx context.Context, index string) (map[string]any, error)
	Search(ctx context.Context, q *SearchQuery) (*SearchResponse, error)
	Count(ctx context.Context, indices []string, query map[string]any) (int64, error)
	Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*SearchResponse, error)
	ClearScroll(ctx context.Context, scrollID string) error
}
