package retry

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Config bounds a retry loop. MaxRetries counts retries, not attempts: a
// value of 1 allows at most two calls of the operation.
type Config struct {
	MaxRetries     int
	InitialDelay   time.Duration
	Multiplier     float64
	JitterFraction float64
	Logger         *zap.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:     1,
		InitialDelay:   500 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         zap.NewNop(),
	}
}

// Do runs operation until it succeeds, the retry budget is spent, or ctx is
// done. The last error is returned when the budget runs out.
func Do(ctx context.Context, cfg Config, operation func() error) error {
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 500 * time.Millisecond
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 0 {
				cfg.Logger.Info("operation succeeded after retry",
					zap.Int("attempt", attempt+1),
				)
			}
			return nil
		}

		if attempt >= cfg.MaxRetries {
			return lastErr
		}

		cfg.Logger.Warn("operation failed, retrying",
			zap.Error(lastErr),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(withJitter(delay, cfg.JitterFraction)):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}
}

func withJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	jitter := time.Duration((rand.Float64()*2 - 1) * fraction * float64(d))
	return d + jitter
}
