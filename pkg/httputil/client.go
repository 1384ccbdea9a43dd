package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/matzehuels/albumposter/pkg/errors"
	"github.com/matzehuels/albumposter/pkg/observability"
)

// Defaults applied by [NewClient] to zero-valued [Options].
const (
	DefaultTimeout   = 10 * time.Second
	DefaultAttempts  = 3
	DefaultDelay     = time.Second
	DefaultUserAgent = "albumposter"
	DefaultMaxBytes  = 32 << 20
)

// Options configures a [Client].
type Options struct {
	Timeout   time.Duration     // Per-request timeout
	Attempts  int               // Total attempts for retryable failures
	Delay     time.Duration     // Initial backoff delay
	UserAgent string            // User-Agent header
	MaxBytes  int64             // Largest accepted response body
	Headers   map[string]string // Extra headers sent with every request
}

// Client downloads binary resources such as artwork images and font files.
// It is safe for concurrent use.
type Client struct {
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
	maxBytes int64
}

// NewClient creates a Client. Zero fields in opts take the package defaults.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	headers := map[string]string{"User-Agent": opts.UserAgent}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	return &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		headers:  headers,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		maxBytes: opts.MaxBytes,
	}
}

// Get fetches rawURL and returns the response body. Transient failures are
// retried with backoff.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		data, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, err, "GET %s", host)
		}
		if isTimeout(err) {
			return nil, &RetryableError{Err: apperrors.Wrap(apperrors.ErrCodeTimeout, err, "GET %s", host)}
		}
		return nil, &RetryableError{Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "GET %s", host)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		var rl *apperrors.RateLimitedError
		if errors.As(err, &rl) {
			rl.RetryAfter, _ = strconv.Atoi(resp.Header.Get("Retry-After"))
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "read body from %s", host)}
	}
	if int64(len(data)) > c.maxBytes {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "response from %s exceeds %d bytes", host, c.maxBytes)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, "status %d", code)
	case code == http.StatusTooManyRequests:
		return &RetryableError{Err: &apperrors.RateLimitedError{}}
	case code >= 500:
		return &RetryableError{Err: apperrors.New(apperrors.ErrCodeNetwork, "status %d", code)}
	default:
		return apperrors.New(apperrors.ErrCodeNetwork, "status %d", code)
	}
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
