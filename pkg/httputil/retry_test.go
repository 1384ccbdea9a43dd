package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
)

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("503")}
	permanent := errors.New("404")

	tests := []struct {
		name      string
		attempts  int
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"first try", 3, []error{nil}, 1, nil},
		{"recovers", 3, []error{transient, transient, nil}, 3, nil},
		{"gives up", 2, []error{transient, transient, transient}, 2, transient},
		{"permanent stops", 3, []error{permanent, nil}, 1, permanent},
		{"zero attempts means one", 0, []error{transient, nil}, 1, transient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("timeout")}
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}
}

func TestWaitFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"plain backoff", &RetryableError{Err: errors.New("503")}, 2 * time.Second},
		{"retry-after", &RetryableError{Err: &apperrors.RateLimitedError{RetryAfter: 5}}, 5 * time.Second},
		{"retry-after capped", &RetryableError{Err: &apperrors.RateLimitedError{RetryAfter: 3600}}, MaxRetryAfter},
		{"rate limited without header", &RetryableError{Err: &apperrors.RateLimitedError{}}, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := waitFor(tt.err, 2*time.Second); got != tt.want {
			t.Errorf("%s: waitFor = %v, want %v", tt.name, got, tt.want)
		}
	}
}
