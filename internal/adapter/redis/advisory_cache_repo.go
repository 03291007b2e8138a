package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Issaqsk/farm2market/internal/repository"
	"github.com/redis/go-redis/v9"
)

const advisoryCacheKeyPrefix = "advisory:"

// advisoryCacheRepository keeps advisory responses in Redis so repeated
// price/crop lookups skip the slow LLM round trip.
type advisoryCacheRepository struct {
	client *redis.Client
}

func NewAdvisoryCacheRepository(client *redis.Client) repository.AdvisoryCache {
	return &advisoryCacheRepository{client: client}
}

func (r *advisoryCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, advisoryCacheKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get advisory entry %s from redis: %w", key, err)
	}
	return val, nil
}

func (r *advisoryCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, advisoryCacheKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set advisory entry %s to redis: %w", key, err)
	}
	return nil
}
