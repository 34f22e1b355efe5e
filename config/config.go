package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cache     CacheConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        string
	BaseURL     string
	LogsPath    string
	Timeout     time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	Database     int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	Secret           string
	SigningAlgorithm string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	VerifyTTL        time.Duration
}

type CacheConfig struct {
	UserTTL time.Duration
}

type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Workers   int
	QueueSize int
}

type RateLimitConfig struct {
	Request        int
	Duration       time.Duration
	CreateRequest  int
	CreateDuration time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is optional, environment variables win either way
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "contacts-service"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8000"),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8000"),
			LogsPath:    getEnv("LOGS_PATH", "./logs"),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "contacts_db"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "default_secret_key_change_in_production"),
			SigningAlgorithm: getEnv("JWT_SIGNING_ALGORITHM", "HS256"),
			AccessTTL:        getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL:       getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			VerifyTTL:        getEnvAsDuration("JWT_VERIFY_TTL", 24*time.Hour),
		},
		Cache: CacheConfig{
			UserTTL: getEnvAsDuration("CACHE_USER_TTL", 15*time.Minute),
		},
		Mail: MailConfig{
			Host:      getEnv("MAIL_SERVER", "localhost"),
			Port:      getEnvAsInt("MAIL_PORT", 587),
			Username:  getEnv("MAIL_USERNAME", ""),
			Password:  getEnv("MAIL_PASSWORD", ""),
			From:      getEnv("MAIL_FROM", "noreply@localhost"),
			Workers:   getEnvAsInt("MAIL_WORKERS", 2),
			QueueSize: getEnvAsInt("MAIL_QUEUE_SIZE", 64),
		},
		RateLimit: RateLimitConfig{
			Request:        getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 60),
			Duration:       getEnvAsDuration("RATE_LIMIT_DURATION", time.Minute),
			CreateRequest:  getEnvAsInt("RATE_LIMIT_CONTACT_CREATE_MAX_REQUEST", 3),
			CreateDuration: getEnvAsDuration("RATE_LIMIT_CONTACT_CREATE_DURATION", time.Minute),
		},
	}

	if config.JWT.SigningAlgorithm != "HS256" && config.JWT.SigningAlgorithm != "HS512" {
		return nil, fmt.Errorf("JWT_SIGNING_ALGORITHM must be one of HS256 or HS512, got %q", config.JWT.SigningAlgorithm)
	}

	return config, nil
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
