package github

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-github/v69/github"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGetClientFn returns a GetClientFn that always yields the given client.
func stubGetClientFn(client *github.Client) GetClientFn {
	return func(_ context.Context) (*github.Client, error) {
		return client, nil
	}
}

func stubGetGQLClientFn(client *githubv4.Client) GetGQLClientFn {
	return func(_ context.Context) (*githubv4.Client, error) {
		return client, nil
	}
}

func createMCPRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func getTextResult(t *testing.T, result *mcp.CallToolResult) mcp.TextContent {
	t.Helper()
	assert.NotNil(t, result)
	require.Len(t, result.Content, 1)
	require.IsType(t, mcp.TextContent{}, result.Content[0])
	textContent := result.Content[0].(mcp.TextContent)
	assert.Equal(t, "text", textContent.Type)
	return textContent
}

func getErrorResult(t *testing.T, result *mcp.CallToolResult) mcp.TextContent {
	t.Helper()
	res := getTextResult(t, result)
	require.True(t, result.IsError, "expected tool call result to be an error")
	return res
}

// mockResponse creates a handler that writes the given body as JSON with the
// given status code.
func mockResponse(t *testing.T, code int, body any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		b, err := json.Marshal(body)
		require.NoError(t, err)
		_, _ = w.Write(b)
	}
}

type partialRequestMatcher struct {
	t        *testing.T
	assert   func(t *testing.T, r *http.Request)
	matched  bool
	fallback http.Handler
}

// expectRequestBody creates a matcher that asserts the JSON request body
// equals the expected map, to be chained with andThen.
func expectRequestBody(t *testing.T, expected map[string]any) *partialRequestMatcher {
	t.Helper()
	return &partialRequestMatcher{
		t: t,
		assert: func(t *testing.T, r *http.Request) {
			var actual map[string]any
			err := json.NewDecoder(r.Body).Decode(&actual)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		},
	}
}

// expectQueryParams creates a matcher that asserts the given query parameters
// are present on the request, to be chained with andThen.
func expectQueryParams(t *testing.T, expected map[string]string) *partialRequestMatcher {
	t.Helper()
	return &partialRequestMatcher{
		t: t,
		assert: func(t *testing.T, r *http.Request) {
			q := r.URL.Query()
			for k, v := range expected {
				assert.Equal(t, v, q.Get(k), "query param %q", k)
			}
		},
	}
}

func (m *partialRequestMatcher) andThen(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.assert(m.t, r)
		next(w, r)
	}
}
