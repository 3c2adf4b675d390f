package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Dispatcher configuration
	MaxConcurrency int
	StoreTimeout   time.Duration

	// Static fetch configuration
	HTTPTimeout      time.Duration
	RateLimitPerHost float64
	RateBurst        int
	BlockTTL         time.Duration

	// Memcache configuration (empty address selects the in-process cache)
	MemcacheAddr string

	// Redis result publishing (optional)
	PublishResults       bool
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Page renderer configuration
	RendererDisabled bool
	BrowserBin       string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	maxConcurrency, _ := strconv.Atoi(getEnv("MAX_CONCURRENCY", "3"))
	storeTimeout, _ := strconv.Atoi(getEnv("STORE_TIMEOUT_SECONDS", "20"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "15"))
	rateLimit, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_PER_HOST", "1"), 64)
	rateBurst, _ := strconv.Atoi(getEnv("RATE_BURST", "2"))
	blockTTL, _ := strconv.Atoi(getEnv("BLOCK_TTL_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "1000"))

	return Config{
		MaxConcurrency:       maxConcurrency,
		StoreTimeout:         time.Duration(storeTimeout) * time.Second,
		HTTPTimeout:          time.Duration(httpTimeout) * time.Second,
		RateLimitPerHost:     rateLimit,
		RateBurst:            rateBurst,
		BlockTTL:             time.Duration(blockTTL) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		PublishResults:       getEnv("PUBLISH_RESULTS", "false") == "true",
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "storefinder:results"),
		RedisStreamMaxLength: streamMaxLen,
		RendererDisabled:     getEnv("RENDERER_DISABLED", "false") == "true",
		BrowserBin:           getEnv("BROWSER_BIN", ""),
		Environment:          getEnv("STOREFINDER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("MAX_CONCURRENCY must be at least 1, got %d", c.MaxConcurrency)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be positive, got %s", c.StoreTimeout)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %s", c.HTTPTimeout)
	}
	if c.RateLimitPerHost <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_HOST must be positive, got %f", c.RateLimitPerHost)
	}
	if c.PublishResults && c.RedisAddr == "" {
		return fmt.Errorf("PUBLISH_RESULTS requires REDIS_ADDR")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
