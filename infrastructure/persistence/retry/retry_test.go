package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ordercore/domain/order"
	"ordercore/domain/product"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryable(t *testing.T) {
	cfg := fastConfig()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"order version conflict", order.NewConcurrentModificationError("o-1"), true},
		{"wrapped product conflict", fmt.Errorf("save: %w", product.NewConcurrentModificationError("p-1")), true},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"lock timeout", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{"duplicate key", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"domain failure", order.NewEmptyOrderError("o-1"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err, cfg))
		})
	}
}

func TestIsRetryableHonoursSwitches(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryOnDeadlock = false
	cfg.RetryOnConcurrentModification = false

	assert.False(t, IsRetryable(&mysqlDriver.MySQLError{Number: 1213}, cfg))
	assert.False(t, IsRetryable(order.NewConcurrentModificationError("o-1"), cfg))

	cfg.RetryPredicate = func(err error) bool { return err.Error() == "flaky" }
	assert.True(t, IsRetryable(errors.New("flaky"), cfg))
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		if calls < 3 {
			return order.NewConcurrentModificationError("o-1")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return order.NewEmptyOrderError("o-1")
	})

	assert.ErrorIs(t, err, order.ErrEmptyOrder)
	assert.Equal(t, 1, calls)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return order.NewConcurrentModificationError("o-1")
	})

	assert.ErrorIs(t, err, order.ErrConcurrentModification)
	assert.Equal(t, DefaultConfig.MaxAttempts, calls)
}

func TestDoDisabledRunsOnce(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	calls := 0
	_ = Do(context.Background(), cfg, func(context.Context) error {
		calls++
		return order.NewConcurrentModificationError("o-1")
	})
	assert.Equal(t, 1, calls)
}

func TestDoRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffIsCapped(t *testing.T) {
	cfg := DefaultConfig
	cfg.JitterEnabled = false

	assert.Zero(t, Backoff(0, cfg))
	assert.Equal(t, 100*time.Millisecond, Backoff(1, cfg))
	assert.Equal(t, 200*time.Millisecond, Backoff(2, cfg))
	assert.Equal(t, cfg.MaxDelay, Backoff(10, cfg))
}
