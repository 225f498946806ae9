package listing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache stores serialized pages keyed by the full request, with one
// coarse invalidation tag per entity kind. Implementations must treat
// every failure as a miss: caching may only affect latency, never the
// observable result.
type Cache interface {
	Get(ctx context.Context, kind, key string) (*PageResult, bool)
	Set(ctx context.Context, kind, key string, value *PageResult, ttl time.Duration)
	Invalidate(ctx context.Context, kind string)
}

// cacheKey derives the page key from everything that determines the
// result: the entity kind and the final SQL text with its arguments.
// Two requests that normalize to the same query share a cache entry.
func cacheKey(kind, sqlStr string, args []any) string {
	payload := struct {
		Kind string `json:"kind"`
		SQL  string `json:"sql"`
		Args []any  `json:"args"`
	}{Kind: kind, SQL: sqlStr, Args: args}

	data, err := json.Marshal(payload)
	if err != nil {
		// unmarshalable args make the request uncacheable, not broken
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
