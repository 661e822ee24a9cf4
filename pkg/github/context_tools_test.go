package github

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-github/v69/github"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetMe(t *testing.T) {
	mockClient := github.NewClient(nil)
	tool, _ := GetMe(stubGetClientFn(mockClient), translations.NullTranslationHelper)

	assert.Equal(t, "get_me", tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.Empty(t, tool.InputSchema.Required)

	mockUser := &github.User{
		Login:       github.Ptr("octocat"),
		ID:          github.Ptr(int64(583231)),
		Name:        github.Ptr("The Octocat"),
		Company:     github.Ptr("GitHub"),
		HTMLURL:     github.Ptr("https://github.com/octocat"),
		PublicRepos: github.Ptr(8),
	}

	tests := []struct {
		name           string
		mockedClient   *http.Client
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "successful fetch",
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatch(
					mock.GetUser,
					mockUser,
				),
			),
		},
		{
			name: "bad credentials",
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatchHandler(
					mock.GetUser,
					http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
						w.WriteHeader(http.StatusUnauthorized)
						_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
					}),
				),
			),
			expectError:    true,
			expectedErrMsg: "failed to get authenticated user",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := github.NewClient(tc.mockedClient)
			_, handler := GetMe(stubGetClientFn(client), translations.NullTranslationHelper)
			result, err := handler(context.Background(), createMCPRequest(nil))

			if tc.expectError {
				require.NoError(t, err)
				errorContent := getErrorResult(t, result)
				assert.Contains(t, errorContent.Text, tc.expectedErrMsg)
				return
			}

			require.NoError(t, err)
			textContent := getTextResult(t, result)
			var returned MinimalUser
			err = json.Unmarshal([]byte(textContent.Text), &returned)
			require.NoError(t, err)
			assert.Equal(t, "octocat", returned.Login)
			require.NotNil(t, returned.Details)
			assert.Equal(t, "The Octocat", returned.Details.Name)
			assert.Equal(t, 8, returned.Details.PublicRepos)
		})
	}
}
