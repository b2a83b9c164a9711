package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Alwanly/fleet-dashboard/pkg/clock"
)

// Config holds the configuration for exponential backoff retry logic.
type Config struct {
	// MaxRetries is the maximum number of retry attempts.
	// Set to -1 for unlimited retries.
	MaxRetries int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Multiplier defaults to 2 when unset.
	Multiplier float64

	// Jitter spreads each wait by up to 25% either way.
	Jitter bool

	// Clock defaults to the wall clock.
	Clock clock.Clock

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Operation is retried until it returns nil or a permanent error.
type Operation func(ctx context.Context) error

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// WithExponentialBackoff executes op until it succeeds, returns a
// permanent error, exhausts MaxRetries, or ctx is cancelled.
func WithExponentialBackoff(ctx context.Context, cfg Config, op Operation) error {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	var attempt int
	for {
		attempt++

		err := op(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if cfg.MaxRetries >= 0 && attempt > cfg.MaxRetries {
			return fmt.Errorf("operation failed after %d attempts: %w", attempt, err)
		}

		wait := calculateBackoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, wait, err)
		}

		if err := sleep(ctx, clk, wait); err != nil {
			return fmt.Errorf("operation canceled after %d attempts: %w", attempt, err)
		}
	}
}

func sleep(ctx context.Context, clk clock.Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	t := clk.AfterFunc(d, func() { close(done) })
	select {
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	case <-done:
		return nil
	}
}

// calculateBackoff returns InitialBackoff * Multiplier^(retryNumber-1),
// capped at MaxBackoff.
func calculateBackoff(retryNumber int, cfg Config) time.Duration {
	if retryNumber == 0 {
		return 0
	}

	mult := cfg.Multiplier
	if mult <= 0 {
		mult = 2
	}
	backoff := float64(cfg.InitialBackoff) * math.Pow(mult, float64(retryNumber-1))
	if cfg.MaxBackoff > 0 && backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}

	duration := time.Duration(backoff)
	if cfg.Jitter {
		spread := float64(duration) * 0.25
		duration = time.Duration(float64(duration) + rand.Float64()*2*spread - spread)
		if cfg.MaxBackoff > 0 && duration > cfg.MaxBackoff {
			duration = cfg.MaxBackoff
		}
		if duration < 0 {
			duration = 0
		}
	}
	return duration
}
