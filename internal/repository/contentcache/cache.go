// Package contentcache caches extracted document text keyed by file identity
// (path, size, modification time), so unchanged PDFs are not re-parsed.
package contentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/db"
	"github.com/kailas-cloud/docqa/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "content:"

// store is the consumer interface for the content cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores extracted text in a key-value store.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a content cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns cached text for the file identity. Store errors count as a miss.
func (c *Cache) Get(ctx context.Context, path string, size int64, modTime time.Time) (string, bool) {
	key := Key(path, size, modTime)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Content cache get failed", zap.String("path", path), zap.Error(err))
		}
		c.inc("miss")
		return "", false
	}

	c.inc("hit")
	return string(data), true
}

// Put stores extracted text. Failures are logged and swallowed.
func (c *Cache) Put(ctx context.Context, path string, size int64, modTime time.Time, content string) {
	key := Key(path, size, modTime)
	if err := c.store.SetWithTTL(ctx, key, []byte(content), c.ttl); err != nil {
		c.logger.Warn("Content cache put failed", zap.String("path", path), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// Key derives the cache key: sha256 of the path, then size and mtime.
// A rewritten file changes size or mtime and therefore misses.
func Key(path string, size int64, modTime time.Time) string {
	h := sha256.Sum256([]byte(path))
	return cacheKeyPrefix + hex.EncodeToString(h[:]) + ":" +
		strconv.FormatInt(modTime.UnixNano(), 10) + ":" + strconv.FormatInt(size, 10)
}
