package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking tunables.
	LockTTLSeconds        int `mapstructure:"LOCK_TTL_SECONDS"`
	OTPTTLSeconds         int `mapstructure:"OTP_TTL_SECONDS"`
	OTPCooldownSeconds    int `mapstructure:"OTP_COOLDOWN_SECONDS"`
	AvailabilityCacheSecs int `mapstructure:"AVAILABILITY_CACHE_SECONDS"`
	AvailabilityDays      int `mapstructure:"AVAILABILITY_DAYS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_OTP_DB", 2)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "slotify")
	viper.SetDefault("LOCK_TTL_SECONDS", 600)
	viper.SetDefault("OTP_TTL_SECONDS", 300)
	viper.SetDefault("OTP_COOLDOWN_SECONDS", 60)
	viper.SetDefault("AVAILABILITY_CACHE_SECONDS", 30)
	viper.SetDefault("AVAILABILITY_DAYS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// LockTTL returns the capacity-lock TTL as a duration.
func LockTTL() time.Duration {
	return time.Duration(AppConfig.LockTTLSeconds) * time.Second
}

// OTPTTL returns the OTP code lifetime.
func OTPTTL() time.Duration {
	return time.Duration(AppConfig.OTPTTLSeconds) * time.Second
}

// OTPCooldown returns the minimum wait between OTP sends to one phone.
func OTPCooldown() time.Duration {
	return time.Duration(AppConfig.OTPCooldownSeconds) * time.Second
}

// AvailabilityCacheTTL returns the browse-cache lifetime.
func AvailabilityCacheTTL() time.Duration {
	return time.Duration(AppConfig.AvailabilityCacheSecs) * time.Second
}
