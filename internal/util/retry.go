package util

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Retry runs fn until it succeeds, giving up after the given number of
// attempts. The wait between attempts starts at base and doubles each time.
// Failed attempts are logged so scanner runs leave a trace of upstream
// flakiness; pass a nil log to use the default logger.
func Retry(ctx context.Context, attempts int, base time.Duration, log *slog.Logger, fn func() error) error {
	if log == nil {
		log = slog.Default()
	}

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		if n >= attempts {
			return fmt.Errorf("giving up after %d attempts: %w", n, err)
		}

		wait := base << (n - 1)
		log.Warn("attempt failed, retrying", "attempt", n, "attempts", attempts, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
