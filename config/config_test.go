package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, 3, config.MaxConcurrency)
	assert.Equal(t, 20*time.Second, config.StoreTimeout)
	assert.Equal(t, 15*time.Second, config.HTTPTimeout)
	assert.Equal(t, 1.0, config.RateLimitPerHost)
	assert.Equal(t, 2, config.RateBurst)
	assert.Equal(t, 300*time.Second, config.BlockTTL)
	assert.Equal(t, "", config.MemcacheAddr)
	assert.False(t, config.PublishResults)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, "storefinder:results", config.RedisStream)
	assert.Equal(t, 1000, config.RedisStreamMaxLength)
	assert.False(t, config.RendererDisabled)

	// Test with environment variables
	os.Setenv("MAX_CONCURRENCY", "2")
	os.Setenv("STORE_TIMEOUT_SECONDS", "10")
	os.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	os.Setenv("RATE_LIMIT_PER_HOST", "0.5")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	os.Setenv("PUBLISH_RESULTS", "true")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("RENDERER_DISABLED", "true")

	config = LoadConfig()
	assert.Equal(t, 2, config.MaxConcurrency)
	assert.Equal(t, 10*time.Second, config.StoreTimeout)
	assert.Equal(t, 5*time.Second, config.HTTPTimeout)
	assert.Equal(t, 0.5, config.RateLimitPerHost)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.True(t, config.PublishResults)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.True(t, config.RendererDisabled)

	// Clean up
	os.Unsetenv("MAX_CONCURRENCY")
	os.Unsetenv("STORE_TIMEOUT_SECONDS")
	os.Unsetenv("HTTP_TIMEOUT_SECONDS")
	os.Unsetenv("RATE_LIMIT_PER_HOST")
	os.Unsetenv("MEMCACHE_ADDR")
	os.Unsetenv("PUBLISH_RESULTS")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("RENDERER_DISABLED")
}

func TestValidate(t *testing.T) {
	valid := LoadConfig()
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.MaxConcurrency = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.StoreTimeout = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.RateLimitPerHost = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.PublishResults = true
	bad.RedisAddr = ""
	assert.Error(t, bad.Validate())
}
