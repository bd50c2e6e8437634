package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "jwt-blacklist:"

// RedisBlacklistStore persists revoked tokens in Redis so revocation
// survives restarts and is shared between instances. Entries expire with
// the token itself via the key TTL.
type RedisBlacklistStore struct {
	client *redis.Client
}

// NewRedisBlacklistStore creates a store backed by the Redis at addr.
func NewRedisBlacklistStore(addr string, password string) *RedisBlacklistStore {
	return &RedisBlacklistStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// IsBlacklisted reports whether the token has been revoked.
func (s *RedisBlacklistStore) IsBlacklisted(token string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	n, err := s.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddToBlacklist revokes the token until exp.
func (s *RedisBlacklistStore) AddToBlacklist(token string, exp time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ttl := time.Until(exp)
	if ttl <= 0 {
		// Already expired, nothing to revoke.
		return nil
	}
	return s.client.Set(ctx, blacklistKeyPrefix+token, 1, ttl).Err()
}
