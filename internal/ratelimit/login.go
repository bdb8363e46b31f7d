package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/payables/internal/config"
)

const keyLoginAttempts = "payables:login:%s"

// ErrLimited is returned when a username has exhausted its login attempts.
var ErrLimited = errors.New("rate_limited")

// LimitedError carries how long the caller should wait.
type LimitedError struct {
	RetryAfter time.Duration
}

func (e *LimitedError) Error() string {
	return fmt.Sprintf("rate_limited: retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *LimitedError) Unwrap() error { return ErrLimited }

// LoginLimiter throttles token requests per username. Without redis it is nil
// and allows everything.
type LoginLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewLoginLimiter(cfg config.Config, bucket *TokenBucket) *LoginLimiter {
	if bucket == nil {
		return nil
	}
	rate := cfg.LoginRatePerMin / 60
	burst := cfg.LoginBurst
	if rate <= 0 {
		rate = 10.0 / 60
	}
	if burst <= 0 {
		burst = 5
	}
	return &LoginLimiter{bucket: bucket, rate: rate, burst: burst}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow consumes one attempt for username. It returns a *LimitedError when the
// budget is spent and a plain error when redis could not be asked.
func (l *LoginLimiter) Allow(ctx context.Context, username string) error {
	if !l.Enabled() {
		return nil
	}
	key := fmt.Sprintf(keyLoginAttempts, strings.ToLower(strings.TrimSpace(username)))
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	if !res.Allowed {
		return &LimitedError{RetryAfter: res.RetryAfter}
	}
	return nil
}
