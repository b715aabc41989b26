package proposal

import (
	"context"
	"fmt"
	"time"
)

var defaultBackoffs = []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second}

// RetryWithBackoff executes fn up to maxRetries times, sleeping between
// attempts according to backoffs. The last backoff is reused once the list
// runs out.
func RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int, backoffs []time.Duration) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || len(backoffs) == 0 {
			continue
		}
		wait := backoffs[len(backoffs)-1]
		if i < len(backoffs) {
			wait = backoffs[i]
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
