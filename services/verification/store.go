package verification

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

// SessionStore persists OTP sessions keyed by phone number. A missing session
// is the PHONE state: nothing outstanding for that number.
type SessionStore interface {
	Get(ctx context.Context, phone string) (*models.OTPSession, error)
	Save(ctx context.Context, session models.OTPSession, ttl time.Duration) error
	Delete(ctx context.Context, phone string) error
}

// RedisSessionStore implements SessionStore on the dedicated OTP Redis DB.
type RedisSessionStore struct {
	Client *redis.Client
}

// NewRedisSessionStore returns a store bound to the shared OTP cache client.
func NewRedisSessionStore() *RedisSessionStore {
	return &RedisSessionStore{Client: utils.GetOTPCacheClient()}
}

func (s *RedisSessionStore) Get(ctx context.Context, phone string) (*models.OTPSession, error) {
	data, err := s.Client.Get(ctx, utils.OTPCachePrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OTP session: %w", err)
	}
	var session models.OTPSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse OTP session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session models.OTPSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal OTP session: %w", err)
	}
	if err := s.Client.Set(ctx, utils.OTPCachePrefix+session.Phone, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store OTP session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, phone string) error {
	if err := s.Client.Del(ctx, utils.OTPCachePrefix+phone).Err(); err != nil {
		return fmt.Errorf("failed to delete OTP session: %w", err)
	}
	return nil
}
