package auth

import (
	"context"
	"time"
)

const revokedTokenKeyPrefix = "blacklist:access_token:"

// KeyValueStore is the subset of the cache the token store needs.
type KeyValueStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// TokenStore records revoked access tokens until they expire.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisTokenStore keeps revoked token ids in Redis.
type RedisTokenStore struct {
	kv KeyValueStore
}

var _ TokenStore = (*RedisTokenStore)(nil)

// NewRedisTokenStore creates a token store on top of kv
func NewRedisTokenStore(kv KeyValueStore) *RedisTokenStore {
	return &RedisTokenStore{kv: kv}
}

// Revoke blacklists the token id for ttl. Already expired tokens need no entry.
func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.kv.Set(ctx, revokedTokenKeyPrefix+tokenID, "1", ttl)
}

// IsRevoked checks whether the token id is blacklisted.
func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.kv.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}

// NoopTokenStore is used when Redis is disabled: nothing is ever revoked.
type NoopTokenStore struct{}

func (NoopTokenStore) Revoke(context.Context, string, time.Duration) error { return nil }
func (NoopTokenStore) IsRevoked(context.Context, string) (bool, error)     { return false, nil }
