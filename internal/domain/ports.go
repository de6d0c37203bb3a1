package domain

import "context"

// Cache is the JSON-blob cache port backing the content-addressed dataset
// cache. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SourceReader fetches the raw bytes of one tabular source, local or remote.
type SourceReader interface {
	Read(ctx context.Context, location string) ([]byte, error)
}
