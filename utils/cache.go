package utils

import (
	"context"
	"log"
	"time"

	"slotify/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (availability date counts, short-lived reads).
	CacheClient *redis.Client
	// LockCacheClient is the dedicated client for capacity-lock tokens.
	LockCacheClient *redis.Client
	// OTPCacheClient is the dedicated client for guest OTP sessions.
	OTPCacheClient *redis.Client
)

func newClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis initializes all Redis clients up front.
func InitRedis() {
	CacheClient = newClient(config.AppConfig.RedisCacheDB)
	LockCacheClient = newClient(config.AppConfig.RedisLockDB)
	OTPCacheClient = newClient(config.AppConfig.RedisOTPDB)
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newClient(config.AppConfig.RedisCacheDB)
	}
	return CacheClient
}

// GetLockCacheClient returns the Redis client holding capacity-lock tokens.
func GetLockCacheClient() *redis.Client {
	if LockCacheClient == nil {
		LockCacheClient = newClient(config.AppConfig.RedisLockDB)
	}
	return LockCacheClient
}

// GetOTPCacheClient returns the Redis client holding OTP sessions.
func GetOTPCacheClient() *redis.Client {
	if OTPCacheClient == nil {
		OTPCacheClient = newClient(config.AppConfig.RedisOTPDB)
	}
	return OTPCacheClient
}
