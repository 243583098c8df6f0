// pkg/execute/retry.go

package execute

import (
	"context"
	"fmt"
	"time"
)

// RetryCommand retries execution until success or maxAttempts is exhausted.
func RetryCommand(ctx context.Context, maxAttempts int, delay time.Duration, name string, args ...string) error {
	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		_, err := Run(ctx, Options{Command: name, Args: args})
		if err == nil {
			return nil
		}
		lastErr = err
		if i < maxAttempts {
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxAttempts, lastErr)
}
