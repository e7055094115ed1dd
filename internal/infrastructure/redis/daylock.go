package redisstore

import (
	"context"
	"time"

	"fxagg-service/internal/application"

	"github.com/redis/go-redis/v9"
)

// Store reserves a per-day upstream fetch slot via SetNX. The TTL covers the
// calendar day, so a crashed holder frees the slot on its own.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

var _ application.FetchLock = (*Store)(nil)

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func (s *Store) TryReserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, key, "1", s.TTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
