package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/support-desk/pkg/component/redis"
	jsonutil "github.com/kart-io/support-desk/pkg/utils/json"
)

// EmbeddingCache caches query embeddings so repeated questions skip the
// embedding API round-trip. A miss is never an error.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Set(ctx context.Context, text string, embedding []float32)
}

const embeddingKeyPrefix = "support-desk:embedding:"

// redisEmbeddingCache stores embeddings in Redis keyed by content hash.
type redisEmbeddingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEmbeddingCache creates a Redis-backed embedding cache.
func NewRedisEmbeddingCache(client *redis.Client, ttl time.Duration) EmbeddingCache {
	return &redisEmbeddingCache{client: client, ttl: ttl}
}

func embeddingKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return embeddingKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *redisEmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool) {
	raw, err := c.client.Client().Get(ctx, embeddingKey(text)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warnw("Failed to read embedding cache", "error", err)
		}
		return nil, false
	}

	var embedding []float32
	if err := jsonutil.Unmarshal(raw, &embedding); err != nil {
		logger.Warnw("Failed to decode cached embedding", "error", err)
		return nil, false
	}
	return embedding, true
}

func (c *redisEmbeddingCache) Set(ctx context.Context, text string, embedding []float32) {
	raw, err := jsonutil.Marshal(embedding)
	if err != nil {
		logger.Warnw("Failed to encode embedding for cache", "error", err)
		return
	}
	if err := c.client.Client().Set(ctx, embeddingKey(text), raw, c.ttl).Err(); err != nil {
		logger.Warnw("Failed to write embedding cache", "error", err)
	}
}

// noopEmbeddingCache is used when Redis is not configured.
type noopEmbeddingCache struct{}

// NewNoopEmbeddingCache returns a cache that never hits.
func NewNoopEmbeddingCache() EmbeddingCache {
	return noopEmbeddingCache{}
}

func (noopEmbeddingCache) Get(context.Context, string) ([]float32, bool) { return nil, false }
func (noopEmbeddingCache) Set(context.Context, string, []float32)       {}
