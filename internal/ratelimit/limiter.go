// Package ratelimit throttles complaint submissions per contact number using
// redis INCR with a window TTL. The limiter fails open: an unreachable redis
// must never block a citizen from filing a complaint.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/pkg/util"
)

const keyPrefix = "complaint_limit"

// Limiter throttles submissions per contact number.
type Limiter struct {
	client  *redis.Client
	logger  *zap.Logger
	enabled bool
	max     int
	window  time.Duration
}

// New connects to redis and builds the limiter. A failed ping only logs; the
// limiter stays fail-open.
func New(cfg config.RedisConfig, limits config.RateLimitConfig, logger *zap.Logger) *Limiter {
	if !limits.Enabled {
		return &Limiter{logger: logger}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis, rate limiting will fail open", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}
	return &Limiter{
		client:  client,
		logger:  logger,
		enabled: true,
		max:     limits.MaxPerWindow,
		window:  limits.Window(),
	}
}

// Allow checks and counts one submission attempt for the given contact.
// Returns a CONFLICT-style DomainError with retry metadata when over limit.
func (l *Limiter) Allow(ctx context.Context, contact string) error {
	if l == nil || !l.enabled || l.client == nil || contact == "" {
		return nil
	}
	key := fmt.Sprintf("%s:%s", keyPrefix, contact)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("rate limiter failed to set window TTL", zap.Error(err))
		}
	}
	if count > int64(l.max) {
		retryAfter, _ := l.client.TTL(ctx, key).Result()
		return util.NewDomainError("RATE_LIMITED", "too many complaints from this contact, try again later",
			429, map[string]any{"retry_after_seconds": retryAfter.Seconds()})
	}
	return nil
}

// Close releases the redis connection.
func (l *Limiter) Close() {
	if l != nil && l.client != nil {
		_ = l.client.Close()
	}
}
