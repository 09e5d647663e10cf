// Package retry re-runs a unit of work when it failed for a reason that
// may go away: an optimistic lock conflict, a deadlock or a lock timeout.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"ordercore/config"
	"ordercore/domain/order"
	"ordercore/domain/product"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlDeadlock    = 1213
	mysqlLockTimeout = 1205
)

type Config struct {
	Enabled                       bool
	MaxAttempts                   int
	InitialDelay                  time.Duration
	MaxDelay                      time.Duration
	BackoffFactor                 float64
	JitterEnabled                 bool
	RetryOnConcurrentModification bool
	RetryOnDeadlock               bool
	RetryOnLockTimeout            bool
	RetryPredicate                func(error) bool
}

var DefaultConfig = Config{
	Enabled:                       true,
	MaxAttempts:                   3,
	InitialDelay:                  100 * time.Millisecond,
	MaxDelay:                      2 * time.Second,
	BackoffFactor:                 2.0,
	JitterEnabled:                 true,
	RetryOnConcurrentModification: true,
	RetryOnDeadlock:               true,
	RetryOnLockTimeout:            true,
}

func FromAppConfig(cfg config.RetryConfig) Config {
	return Config{
		Enabled:                       cfg.Enabled,
		MaxAttempts:                   cfg.MaxAttempts,
		InitialDelay:                  cfg.InitialDelay,
		MaxDelay:                      cfg.MaxDelay,
		BackoffFactor:                 cfg.BackoffFactor,
		JitterEnabled:                 cfg.JitterEnabled,
		RetryOnConcurrentModification: cfg.RetryOnConcurrentModification,
		RetryOnDeadlock:               cfg.RetryOnDeadlock,
		RetryOnLockTimeout:            cfg.RetryOnLockTimeout,
	}
}

// Backoff is the delay before attempt+1. Jitter spreads it by ±20%.
func Backoff(attempt int, cfg Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.JitterEnabled {
		delay *= 0.8 + rand.Float64()*0.4
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

func IsRetryable(err error, cfg Config) bool {
	if err == nil {
		return false
	}
	if cfg.RetryPredicate != nil && cfg.RetryPredicate(err) {
		return true
	}
	if cfg.RetryOnConcurrentModification &&
		(errors.Is(err, order.ErrConcurrentModification) || errors.Is(err, product.ErrConcurrentModification)) {
		return true
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDeadlock:
			return cfg.RetryOnDeadlock
		case mysqlLockTimeout:
			return cfg.RetryOnLockTimeout
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "deadlock") {
		return cfg.RetryOnDeadlock
	}
	if strings.Contains(msg, "lock wait timeout") {
		return cfg.RetryOnLockTimeout
	}
	return errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, mysqlDriver.ErrInvalidConn)
}

// Do runs fn up to MaxAttempts times, stopping at the first success, the
// first non-retryable error or when ctx is done.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr, cfg) || attempt == cfg.MaxAttempts {
			break
		}

		if delay := Backoff(attempt, cfg); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	return lastErr
}
