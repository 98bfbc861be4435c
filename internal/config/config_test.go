package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
    t.Setenv("APP_ENV", "test")
    t.Setenv("APP_PORT", "8081")
    t.Setenv("BACKEND_URL", "http://backend:8080")
    t.Setenv("SESSION_SECRET", "s3cret")
    t.Setenv("SESSION_TTL", "2h")
    t.Setenv("BACKEND_TIMEOUT", "nonsense")
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://guest:guest@mq:5672/")
    t.Setenv("ACTIVITY_ENABLED", "off")

    cfg := Load()
    assert.Equal(t, "8081", cfg.Port)
    assert.Equal(t, "http://backend:8080", cfg.BackendURL)
    assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
    assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
    assert.Equal(t, 1500*time.Millisecond, cfg.RegisterDelay)
    assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.AMQPURL)
    assert.False(t, cfg.ActivityEnabled)
}

func TestLoadRateLimitConfig(t *testing.T) {
    t.Run("Defaults", func(t *testing.T) {
        cfg := LoadRateLimitConfig()
        assert.True(t, cfg.Enabled)
        assert.Equal(t, 10, cfg.Capacity)
        assert.Equal(t, 6*time.Second, cfg.RefillInterval)
        assert.Equal(t, "ip_session_route", cfg.KeyStrategy)
    })

    t.Run("Clamped", func(t *testing.T) {
        t.Setenv("RATE_LIMIT_CAPACITY", "0")
        t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
        t.Setenv("RATE_LIMIT_TTL", "1s")
        cfg := LoadRateLimitConfig()
        assert.Equal(t, 1, cfg.Capacity)
        assert.Equal(t, 5*time.Minute, cfg.TTL)
    })
}

func TestRedisOptions(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6379")
    t.Setenv("REDIS_DB", "3")
    assert.Equal(t, "cache:6379", RedisOptions().Addr)
    assert.Equal(t, 3, RedisOptions().DB)

    t.Setenv("REDIS_HOST", "redis")
    t.Setenv("REDIS_PORT", "6380")
    assert.Equal(t, "redis:6380", RedisOptions().Addr)
}
