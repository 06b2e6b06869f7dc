package alert

import (
	"context"
	"fmt"
	"time"

	appinventory "github.com/Rajak13/Vyapar-sub001/internal/application/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisAlertLimiter throttles low-stock alerts per business using a Redis
// SETNX key with the minimum interval as TTL. Suitable for deployments
// where several instances share one alert budget.
type RedisAlertLimiter struct {
	client      *redis.Client
	keyPrefix   string
	minInterval time.Duration
}

// NewRedisAlertLimiter creates a limiter with its own Redis connection
func NewRedisAlertLimiter(cfg *config.RedisConfig, minInterval time.Duration) (*RedisAlertLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisAlertLimiterWithClient(client, minInterval), nil
}

// NewRedisAlertLimiterWithClient creates a limiter on an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisAlertLimiterWithClient(client *redis.Client, minInterval time.Duration) *RedisAlertLimiter {
	return &RedisAlertLimiter{
		client:      client,
		keyPrefix:   "alerts:stock:",
		minInterval: minInterval,
	}
}

// Allow reports whether an alert batch may fire for the business. The first
// caller inside a window wins; everyone else is told to stay quiet until
// the key expires.
func (l *RedisAlertLimiter) Allow(ctx context.Context, businessID uuid.UUID) (bool, error) {
	key := l.keyPrefix + businessID.String()

	allowed, err := l.client.SetNX(ctx, key, "1", l.minInterval).Result()
	if err != nil {
		return false, fmt.Errorf("alert limiter check failed: %w", err)
	}
	return allowed, nil
}

// Close releases the Redis connection
func (l *RedisAlertLimiter) Close() error {
	return l.client.Close()
}

// NoopAlertLimiter never throttles. Used when alerts are enabled without a
// Redis instance, for development setups.
type NoopAlertLimiter struct{}

// Allow always permits the alert
func (NoopAlertLimiter) Allow(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}

var _ appinventory.AlertLimiter = (*RedisAlertLimiter)(nil)
var _ appinventory.AlertLimiter = NoopAlertLimiter{}
