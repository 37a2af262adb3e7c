package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of analyses a Cache keeps.
const DefaultCacheSize = 256

var _ Analyzer = (*Cache)(nil)

// Cache memoises another Analyzer by source content. Results shaped by a
// timeout or harness error are not stored, so the next request retries.
type Cache struct {
	next   Analyzer
	lru    *lru.Cache[string, *AnalysisResult]
	logger *slog.Logger
}

// NewCache wraps next with an LRU of the given size.
func NewCache(next Analyzer, size int, logger *slog.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *AnalysisResult](size)
	if err != nil {
		return nil, err
	}
	return &Cache{next: next, lru: c, logger: logger}, nil
}

// Analyze returns a cached result for source or delegates to the wrapped
// Analyzer. Callers always receive their own copy.
func (c *Cache) Analyze(ctx context.Context, source string) *AnalysisResult {
	key := cacheKey(source)
	if res, ok := c.lru.Get(key); ok {
		c.logger.Debug("analysis cache hit", slog.String("key", key[:12]))
		return res.clone()
	}

	res := c.next.Analyze(ctx, source)
	if !res.Degraded() {
		c.lru.Add(key, res.clone())
	}
	return res
}

// Len reports how many results are cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
