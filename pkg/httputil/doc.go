// Package httputil provides the retry policy used by the render client.
//
// [Retry] runs an operation until it succeeds, fails with an error that is
// not marked retryable, or runs out of attempts. Transient failures are
// marked by wrapping them in [RetryableError]:
//
//   - transport errors (connection refused, timeouts)
//   - 5xx responses
//   - 429 rate limit responses
//
// [CheckStatus] applies that classification to an HTTP response. The delay
// doubles after every failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp)
//	})
package httputil
