package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v69/github"
	"github.com/mark3labs/mcp-go/mcp"
)

// Kind classifies a failed GitHub API call so callers can decide whether the
// failure is fatal (authentication), recoverable after backoff (rate limit),
// ambiguous for writes (timeout), or just an unexpected API response.
type Kind string

const (
	KindAuthenticationFailed Kind = "authentication_failed"
	KindNotFound             Kind = "not_found"
	KindRateLimited          Kind = "rate_limited"
	KindTimeout              Kind = "timeout"
	KindAPIError             Kind = "api_error"
)

// GitHubAPIError wraps an error from a GitHub API call together with its
// classification and the response status code. The bearer token never appears
// in the message: only the operation description, status and the API's own
// error message are carried.
type GitHubAPIError struct {
	Message    string    `json:"message"`
	Kind       Kind      `json:"kind"`
	StatusCode int       `json:"status_code,omitempty"`
	ResetAt    time.Time `json:"reset_at,omitempty"`
	err        error
}

func (e *GitHubAPIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *GitHubAPIError) Unwrap() error {
	return e.err
}

// NewGitHubAPIError classifies err and resp into a GitHubAPIError. resp may
// be nil when the request never completed.
func NewGitHubAPIError(message string, resp *github.Response, err error) *GitHubAPIError {
	apiErr := &GitHubAPIError{
		Message: message,
		Kind:    classify(resp, err),
		err:     err,
	}
	if resp != nil {
		apiErr.StatusCode = resp.StatusCode
		if resp.Rate.Reset.Time.After(time.Now()) {
			apiErr.ResetAt = resp.Rate.Reset.Time
		}
	}
	return apiErr
}

func classify(resp *github.Response, err error) Kind {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return KindRateLimited
	case isTimeout(err):
		return KindTimeout
	}

	if resp == nil {
		return KindAPIError
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return KindAuthenticationFailed
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != "" {
			return KindRateLimited
		}
	}
	return KindAPIError
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// errorCollector accumulates API errors for the lifetime of a tool call so
// diagnostics survive even though handlers only return a tool result.
type errorCollector struct {
	mu   sync.Mutex
	errs []*GitHubAPIError
}

type collectorKey struct{}

// ContextWithGitHubErrors initializes (or resets) error collection on ctx.
func ContextWithGitHubErrors(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if c, ok := ctx.Value(collectorKey{}).(*errorCollector); ok {
		c.mu.Lock()
		c.errs = nil
		c.mu.Unlock()
		return ctx
	}
	return context.WithValue(ctx, collectorKey{}, &errorCollector{})
}

// GetGitHubAPIErrors returns every API error recorded on ctx so far.
func GetGitHubAPIErrors(ctx context.Context) ([]*GitHubAPIError, error) {
	c, ok := ctx.Value(collectorKey{}).(*errorCollector)
	if !ok {
		return nil, errors.New("context is not initialized for error collection")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*GitHubAPIError(nil), c.errs...), nil
}

// NewGitHubAPIErrorToCtx classifies and records an API error on ctx. Missing
// collection state is not an error: recording is best-effort.
func NewGitHubAPIErrorToCtx(ctx context.Context, message string, resp *github.Response, err error) (context.Context, error) {
	record(ctx, NewGitHubAPIError(message, resp, err))
	return ctx, nil
}

func record(ctx context.Context, apiErr *GitHubAPIError) {
	if ctx == nil {
		return
	}
	if c, ok := ctx.Value(collectorKey{}).(*errorCollector); ok {
		c.mu.Lock()
		c.errs = append(c.errs, apiErr)
		c.mu.Unlock()
	}
}

// NewGitHubAPIErrorResponse records the API error on ctx and returns the
// user-facing tool error result. A failing call yields a failed ToolResult,
// never a process-level fault.
func NewGitHubAPIErrorResponse(ctx context.Context, message string, resp *github.Response, err error) *mcp.CallToolResult {
	apiErr := NewGitHubAPIError(message, resp, err)
	record(ctx, apiErr)
	return mcp.NewToolResultError(userMessage(apiErr))
}

// userMessage renders the error for the calling LLM. Rate limit and
// authentication failures get actionable phrasing; everything else carries the
// API's message and status for diagnostics.
func userMessage(e *GitHubAPIError) string {
	switch e.Kind {
	case KindAuthenticationFailed:
		return fmt.Sprintf("%s: GitHub authentication failed, the configured token is invalid or expired", e.Message)
	case KindRateLimited:
		if !e.ResetAt.IsZero() {
			return fmt.Sprintf("%s: GitHub rate limit exceeded, resets at %s", e.Message, e.ResetAt.UTC().Format(time.RFC3339))
		}
		return fmt.Sprintf("%s: GitHub rate limit exceeded", e.Message)
	case KindTimeout:
		return fmt.Sprintf("%s: request timed out before GitHub responded", e.Message)
	case KindNotFound:
		return e.Error()
	default:
		return e.Error()
	}
}
