// Package httputil provides the HTTP client used to download artwork and
// font files.
//
// # Overview
//
//   - [Client]: GET with default headers, status classification, a body
//     size limit and observability hooks
//   - [Retry]: automatic retry with exponential backoff
//
// # Status Classification
//
// [Client.Get] maps responses onto coded errors from pkg/errors:
//
//   - 200: success
//   - 404: NOT_FOUND
//   - 429: RATE_LIMITED, retried, honoring Retry-After when present
//   - 5xx and transport failures: NETWORK_ERROR, retried
//   - anything else: NETWORK_ERROR, not retried
//
// A deadline exceeded while waiting is reported as TIMEOUT.
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]; everything else is
// returned at once. The delay doubles after each failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch()
//	})
package httputil
