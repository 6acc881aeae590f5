package donor

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const generationKey = "donors:generation"

// GenerationStore shares an invalidation counter between processes that
// serve the same spreadsheet.
type GenerationStore interface {
	Current(ctx context.Context) (int64, error)
	Bump(ctx context.Context) (int64, error)
}

type redisGenerationStore struct {
	client *redis.Client
}

func NewRedisGenerationStore(client *redis.Client) GenerationStore {
	return &redisGenerationStore{client: client}
}

func (s *redisGenerationStore) Current(ctx context.Context) (int64, error) {
	gen, err := s.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (s *redisGenerationStore) Bump(ctx context.Context) (int64, error) {
	return s.client.Incr(ctx, generationKey).Result()
}
