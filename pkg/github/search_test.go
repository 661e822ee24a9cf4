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

func Test_SearchCode(t *testing.T) {
	mockClient := github.NewClient(nil)
	tool, _ := SearchCode(stubGetClientFn(mockClient), translations.NullTranslationHelper)

	assert.Equal(t, "search_code", tool.Name)
	assert.ElementsMatch(t, tool.InputSchema.Required, []string{"query"})

	mockResult := &github.CodeSearchResult{
		Total:             github.Ptr(1),
		IncompleteResults: github.Ptr(false),
		CodeResults: []*github.CodeResult{
			{
				Name: github.Ptr("main.go"),
				Path: github.Ptr("cmd/main.go"),
				Repository: &github.Repository{
					FullName: github.Ptr("owner/repo"),
				},
			},
		},
	}

	// The repo filter must be folded into the search expression
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.GetSearchCode,
			expectQueryParams(t, map[string]string{
				"q": "http.ListenAndServe repo:owner/repo",
			}).andThen(
				mockResponse(t, http.StatusOK, mockResult),
			),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := SearchCode(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"query": "http.ListenAndServe",
		"repo":  "owner/repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)
	assert.Contains(t, textContent.Text, "cmd/main.go")
}

func Test_SearchUsers(t *testing.T) {
	mockResult := &github.UsersSearchResult{
		Total:             github.Ptr(2),
		IncompleteResults: github.Ptr(false),
		Users: []*github.User{
			{Login: github.Ptr("alice"), ID: github.Ptr(int64(1)), HTMLURL: github.Ptr("https://github.com/alice")},
			{Login: github.Ptr("bob"), ID: github.Ptr(int64(2))},
		},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetSearchUsers,
			mockResult,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := SearchUsers(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"query": "alice in:login",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned MinimalSearchUsersResult
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, 2, returned.TotalCount)
	require.Len(t, returned.Items, 2)
	assert.Equal(t, "alice", returned.Items[0].Login)
	// search results stay minimal, detailed profile fields belong to get_me
	assert.Nil(t, returned.Items[0].Details)
}
