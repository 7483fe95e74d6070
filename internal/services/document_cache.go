package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/metrics"
)

// IngestFunc performs the expensive parse-and-embed step for one document.
type IngestFunc func(ctx context.Context, hash string, raw []byte) (*Representation, error)

// ContentHash is the hex SHA-256 of raw, the cache and storage key of a document.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// DocumentCache memoizes ingestion by content hash. Entries never expire;
// Invalidate removes one. Concurrent callers with the same bytes share a
// single ingestion, and failed ingestions are not stored.
type DocumentCache struct {
	mu      sync.RWMutex
	entries map[string]*Representation
	group   singleflight.Group
	logger  *zap.Logger
}

func NewDocumentCache(log *zap.Logger) *DocumentCache {
	return &DocumentCache{
		entries: make(map[string]*Representation),
		logger:  logger.OrNop(log).Named("cache"),
	}
}

// GetOrIngest returns the representation of raw, calling ingest at most once
// per distinct content. The shared ingestion is detached from any single
// caller's cancellation; each caller still stops waiting when its ctx ends.
func (c *DocumentCache) GetOrIngest(ctx context.Context, raw []byte, ingest IngestFunc) (*Representation, error) {
	if ingest == nil {
		return nil, errors.New("document cache: nil ingest function")
	}

	hash := ContentHash(raw)
	if rep, ok := c.Get(hash); ok {
		metrics.DocumentCacheLookups.WithLabelValues("hit").Inc()
		return rep, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(hash, func() (any, error) {
		// Another flight may have finished between the lookup above and here.
		if rep, ok := c.Get(hash); ok {
			return rep, nil
		}

		rep, err := ingest(detached, hash, raw)
		if err != nil {
			return nil, err
		}
		if rep == nil {
			return nil, fmt.Errorf("ingesting %s: no representation returned", shortHash(hash))
		}

		c.mu.Lock()
		c.entries[hash] = rep
		c.mu.Unlock()
		return rep, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for ingestion of %s: %w", shortHash(hash), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			metrics.DocumentCacheLookups.WithLabelValues("error").Inc()
			c.logger.Warn("ingestion failed; not cached",
				zap.String("doc", shortHash(hash)),
				zap.Error(res.Err),
			)
			return nil, res.Err
		}

		outcome := "miss"
		if res.Shared {
			outcome = "shared"
		}
		metrics.DocumentCacheLookups.WithLabelValues(outcome).Inc()
		c.logger.Debug("document cache filled", zap.String("doc", shortHash(hash)), zap.Bool("shared", res.Shared))
		return res.Val.(*Representation), nil
	}
}

// Get returns the cached representation for hash, if any.
func (c *DocumentCache) Get(hash string) (*Representation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rep, ok := c.entries[hash]
	return rep, ok
}

// Invalidate drops the entry for hash and reports whether one existed. The
// next GetOrIngest for that content ingests again.
func (c *DocumentCache) Invalidate(hash string) bool {
	c.mu.Lock()
	_, ok := c.entries[hash]
	delete(c.entries, hash)
	c.mu.Unlock()

	c.group.Forget(hash)
	if ok {
		c.logger.Info("document cache entry invalidated", zap.String("doc", shortHash(hash)))
	}
	return ok
}

func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
