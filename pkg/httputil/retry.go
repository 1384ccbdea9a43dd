package httputil

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
)

// MaxRetryAfter caps how long a Retry-After header can stall a download.
const MaxRetryAfter = 30 * time.Second

// RetryableError marks a transient failure (timeout, 5xx, 429) that [Retry]
// may attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn up to attempts times. Errors not wrapped in
// [RetryableError] end the loop at once. Between attempts it waits delay,
// doubling each time, unless the server asked for a specific wait through
// Retry-After. The last error is returned, or ctx.Err() if ctx ends first.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	for i := 0; ; i++ {
		err := fn()
		if err == nil || !isRetryable(err) || i == attempts-1 {
			return err
		}

		timer := time.NewTimer(waitFor(err, delay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// waitFor returns the pause before the next attempt.
func waitFor(err error, delay time.Duration) time.Duration {
	var rl *apperrors.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return min(time.Duration(rl.RetryAfter)*time.Second, MaxRetryAfter)
	}
	return delay
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
