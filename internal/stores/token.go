package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore maps opaque token strings to user ids with a TTL. The same
// store backs refresh sessions and recovery tokens under different
// prefixes.
type TokenStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewTokenStore(redisClient redis.UniversalClient, prefix string) *TokenStore {
	if prefix == "" {
		prefix = "agt"
	}
	return &TokenStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *TokenStore) key(token string) string {
	return s.prefix + ":" + token
}

func (s *TokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *TokenStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.redis.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return userID, nil
}

// Consume atomically reads and deletes the token; it can succeed at most
// once per token.
func (s *TokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.redis.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return userID, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
