// Package cache provides a short-lived redis cache for recommendation
// responses. The same draft state asked twice within the TTL is served
// without rescoring.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/models"
)

const keyPrefix = "draft:recommend:"

// RecommendationCache caches responses keyed by the full request payload.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// New creates a cache around an existing redis client.
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RecommendationCache {
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
		logger: logger.Sugar(),
	}
}

// Key derives a stable cache key from the request.
func Key(req *models.RecommendDraftRequest) string {
	raw, _ := json.Marshal(req)
	sum := sha256.Sum256(raw)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns a cached response, or nil on miss. Cache errors are treated
// as misses; the cache must never fail a request.
func (c *RecommendationCache) Get(ctx context.Context, req *models.RecommendDraftRequest) *models.RecommendDraftResponse {
	raw, err := c.client.Get(ctx, Key(req)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnw("Cache read failed", "error", err)
		}
		return nil
	}

	var resp models.RecommendDraftResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Warnw("Cache entry corrupt, ignoring", "error", err)
		return nil
	}
	return &resp
}

// Set stores a response. Failures are logged and ignored.
func (c *RecommendationCache) Set(ctx context.Context, req *models.RecommendDraftRequest, resp *models.RecommendDraftResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, Key(req), raw, c.ttl).Err(); err != nil {
		c.logger.Warnw("Cache write failed", "error", err)
	}
}

// Ping verifies connectivity, for readiness checks.
func (c *RecommendationCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
