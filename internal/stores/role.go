package stores

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RoleStore keeps role grants as a Redis set per user.
type RoleStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRoleStore(redisClient redis.UniversalClient, prefix string) *RoleStore {
	if prefix == "" {
		prefix = "agrole"
	}
	return &RoleStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *RoleStore) key(userID string) string {
	return s.prefix + ":" + userID
}

func (s *RoleStore) Grant(ctx context.Context, userID, role string) error {
	if err := s.redis.SAdd(ctx, s.key(userID), role).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RoleStore) Revoke(ctx context.Context, userID, role string) error {
	if err := s.redis.SRem(ctx, s.key(userID), role).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RoleStore) Has(ctx context.Context, userID, role string) (bool, error) {
	granted, err := s.redis.SIsMember(ctx, s.key(userID), role).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return granted, nil
}
