package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slotify/models"
	"slotify/utils"

	"github.com/go-redis/redis/v8"
)

// LockStore holds capacity-lock tokens between the Lock and Commit phases.
// Claim is a get-and-delete: of all racing claimants (commit, explicit
// release, scheduled expiry) exactly one observes the lock.
type LockStore interface {
	Put(ctx context.Context, lock models.CapacityLock) error
	Get(ctx context.Context, token string) (*models.CapacityLock, error)
	Claim(ctx context.Context, token string) (*models.CapacityLock, error)
}

// RedisLockStore implements LockStore on the dedicated lock Redis DB.
type RedisLockStore struct {
	Client *redis.Client
}

// NewRedisLockStore returns a store bound to the shared lock cache client.
func NewRedisLockStore() *RedisLockStore {
	return &RedisLockStore{Client: utils.GetLockCacheClient()}
}

// redisExpiryGrace keeps the key alive past the lock TTL so the scheduled
// release task can still read the per-slot counts it must return.
const redisExpiryGrace = 10 * time.Minute

func (s *RedisLockStore) Put(ctx context.Context, lock models.CapacityLock) error {
	data, err := json.Marshal(lock)
	if err != nil {
		return fmt.Errorf("failed to marshal capacity lock: %w", err)
	}
	ttl := time.Until(lock.ExpiresAt) + redisExpiryGrace
	if err := s.Client.Set(ctx, utils.LockCachePrefix+lock.Token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store capacity lock: %w", err)
	}
	return nil
}

func (s *RedisLockStore) Get(ctx context.Context, token string) (*models.CapacityLock, error) {
	data, err := s.Client.Get(ctx, utils.LockCachePrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch capacity lock: %w", err)
	}
	return decodeLock(data)
}

func (s *RedisLockStore) Claim(ctx context.Context, token string) (*models.CapacityLock, error) {
	data, err := s.Client.GetDel(ctx, utils.LockCachePrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim capacity lock: %w", err)
	}
	return decodeLock(data)
}

func decodeLock(data string) (*models.CapacityLock, error) {
	var lock models.CapacityLock
	if err := json.Unmarshal([]byte(data), &lock); err != nil {
		return nil, fmt.Errorf("failed to parse capacity lock: %w", err)
	}
	return &lock, nil
}
