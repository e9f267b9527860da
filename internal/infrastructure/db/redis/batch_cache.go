package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

const defaultCacheTTL = 30 * time.Second

// BatchCache is a short-TTL read cache in front of the contract's
// batches(id) getter. The chain stays authoritative: entries expire on
// their own and a cache failure is never fatal to a fetch.
// Key format: batch:<id>
type BatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBatchCache creates a BatchCache wrapping the given Redis client.
func NewBatchCache(client *redis.Client, ttl time.Duration) *BatchCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &BatchCache{client: client, ttl: ttl}
}

// Get returns the cached record, or (nil, nil) on a miss.
func (c *BatchCache) Get(ctx context.Context, id *big.Int) (*domain.Batch, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("batch cache get: %w", err)
	}

	var batch domain.Batch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("batch cache decode: %w", err)
	}
	return &batch, nil
}

// Set stores the record for the configured TTL.
func (c *BatchCache) Set(ctx context.Context, batch *domain.Batch) error {
	raw, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("batch cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(batch.ID), raw, c.ttl).Err()
}

func (c *BatchCache) key(id *big.Int) string {
	return fmt.Sprintf("batch:%s", id.String())
}
