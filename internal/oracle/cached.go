package oracle

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"sehat/internal/cache"
)

// Cached memoizes score maps by model fingerprint and canonical input. Cache
// failures are logged and the inner oracle is used directly.
type Cached struct {
	inner  Oracle
	store  cache.Store
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewCached(inner Oracle, store cache.Store, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{inner: inner, store: store, ttl: ttl, prefix: "score:" + fingerprintOf(inner) + ":", logger: logger}
}

func (c *Cached) Classes() []string {
	return c.inner.Classes()
}

func (c *Cached) Score(ctx context.Context, in Input) (map[string]float64, error) {
	key := c.prefix + in.Key()
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("score cache get failed", "key", key, "error", err)
	} else if ok {
		var scores map[string]float64
		if err := json.Unmarshal(raw, &scores); err == nil {
			return scores, nil
		}
		c.logger.Warn("score cache entry unreadable", "key", key)
	}

	scores, err := c.inner.Score(ctx, in)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(scores); err == nil {
		if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("score cache set failed", "key", key, "error", err)
		}
	}
	return scores, nil
}
