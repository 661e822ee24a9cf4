package ghmcp

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// maxRateLimitWait bounds how long a rate-limited call is suspended before
// retrying. Longer reset windows surface as a rate-limit error instead of
// blocking the tool call open-endedly.
const maxRateLimitWait = 60 * time.Second

// rateLimitRetryTransport wraps an http.RoundTripper with GitHub rate-limit
// handling. It tracks the remaining-call budget from response headers, delays
// a new request while the budget is exhausted, and on a rate-limited response
// waits out the reset window and retries exactly once. A second rate-limited
// response is returned as-is so go-github can surface it as a RateLimitError.
//
// The budget state is shared by every call going through the client, so it is
// guarded by a mutex.
type rateLimitRetryTransport struct {
	inner http.RoundTripper

	// sleep is swapped out in tests so retries do not actually wait.
	sleep func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	known     bool
	remaining int
	reset     time.Time
}

func newRateLimitRetryTransport(inner http.RoundTripper) *rateLimitRetryTransport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &rateLimitRetryTransport{
		inner: inner,
		sleep: sleepContext,
	}
}

func (t *rateLimitRetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if wait := t.pendingWait(time.Now()); wait > 0 {
		if err := t.sleep(req.Context(), wait); err != nil {
			return nil, err
		}
	}

	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.record(resp)

	if !isRateLimitResponse(resp) {
		return resp, nil
	}

	// The request never executed server-side, so a single retry is safe for
	// writes too. Requests whose body cannot be replayed are not retried.
	retry, ok := replayableRequest(req)
	if !ok {
		return resp, nil
	}

	wait := retryWait(resp, time.Now())
	_ = resp.Body.Close()
	if err := t.sleep(req.Context(), wait); err != nil {
		return nil, err
	}

	resp, err = t.inner.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	t.record(resp)
	return resp, nil
}

// pendingWait returns how long a new request must be delayed because a prior
// response reported the budget exhausted.
func (t *rateLimitRetryTransport) pendingWait(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.known || t.remaining > 0 {
		return 0
	}
	return clampWait(t.reset.Sub(now))
}

// record updates the shared budget from a response's rate-limit headers.
func (t *rateLimitRetryTransport) record(resp *http.Response) {
	remaining, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	if err != nil {
		return
	}
	var reset time.Time
	if unix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		reset = time.Unix(unix, 0)
	}
	t.mu.Lock()
	t.known = true
	t.remaining = remaining
	t.reset = reset
	t.mu.Unlock()
}

// isRateLimitResponse reports whether resp is GitHub telling us to back off.
// GitHub signals primary rate limits with 403 or 429 plus a zeroed remaining
// header, and secondary limits with Retry-After.
func isRateLimitResponse(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	if resp.Header.Get("Retry-After") != "" {
		return true
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// retryWait computes how long to wait before the single retry, preferring
// Retry-After over the reset timestamp.
func retryWait(resp *http.Response, now time.Time) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil {
			return clampWait(time.Duration(secs) * time.Second)
		}
	}
	if s := resp.Header.Get("X-RateLimit-Reset"); s != "" {
		if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
			return clampWait(time.Unix(unix, 0).Sub(now))
		}
	}
	return time.Second
}

func clampWait(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > maxRateLimitWait {
		return maxRateLimitWait
	}
	return d
}

// replayableRequest clones req for the retry. The original body has already
// been consumed by the first attempt, so a body-carrying request needs
// GetBody to be replayed.
func replayableRequest(req *http.Request) (*http.Request, bool) {
	clone := req.Clone(req.Context())
	if req.Body == nil {
		return clone, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	clone.Body = body
	return clone, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
