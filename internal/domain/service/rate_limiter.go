package service

import "context"

// RateLimitAction names a rate limited operation.
type RateLimitAction string

const (
	RateLimitLogin          RateLimitAction = "login"
	RateLimitForgotPassword RateLimitAction = "forgot_password"
)

// RateLimiter counts attempts per action and subject (usually an email).
type RateLimiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, action RateLimitAction, subject string) (bool, error)
}
