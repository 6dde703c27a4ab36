// Package ratelimit implements service.RateLimiter.
package ratelimit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hrpm/config"
	"hrpm/internal/domain/lifecycle"
	"hrpm/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const keyPrefix = "hrpm:ratelimit:"

// redisLimiter is a fixed-window counter: INCR, and EXPIRE when the window opens.
type redisLimiter struct {
	client *redis.Client
	rules  map[service.RateLimitAction]config.RateLimitRule
}

// NewRedisLimiter builds a limiter over client. Actions without a rule are never limited.
func NewRedisLimiter(client *redis.Client, rules map[service.RateLimitAction]config.RateLimitRule) service.RateLimiter {
	return &redisLimiter{client: client, rules: rules}
}

func (l *redisLimiter) key(action service.RateLimitAction, subject string) string {
	return keyPrefix + string(action) + ":" + strings.ToLower(subject)
}

func (l *redisLimiter) Allow(ctx context.Context, action service.RateLimitAction, subject string) (bool, error) {
	rule, ok := l.rules[action]
	if !ok || rule.MaxAttempts <= 0 {
		return true, nil
	}

	window := rule.Window
	if window <= 0 {
		window = time.Minute
	}

	key := l.key(action, subject)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, "rate limit incr")
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, errors.Wrap(err, "rate limit expire")
		}
	}

	return count <= int64(rule.MaxAttempts), nil
}

type noopLimiter struct{}

// NewNoopLimiter allows every attempt.
func NewNoopLimiter() service.RateLimiter {
	return noopLimiter{}
}

func (noopLimiter) Allow(context.Context, service.RateLimitAction, string) (bool, error) {
	return true, nil
}

// Params defines the dependencies of New.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New returns the redis limiter when redis.addr is set, otherwise a no-op limiter.
func New(params Params) service.RateLimiter {
	cfg := params.Config
	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		params.Logger.Info("Redis not configured, rate limiting disabled")

		return NewNoopLimiter()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			return errors.Wrap(client.Ping(ctx).Err(), "failed to ping redis")
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewRedisLimiter(client, map[service.RateLimitAction]config.RateLimitRule{
		service.RateLimitLogin:          cfg.RateLimit.Login,
		service.RateLimitForgotPassword: cfg.RateLimit.ForgotPassword,
	})
}
