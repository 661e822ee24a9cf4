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

func Test_GetIssue(t *testing.T) {
	mockClient := github.NewClient(nil)
	tool, _ := GetIssue(stubGetClientFn(mockClient), translations.NullTranslationHelper)

	assert.Equal(t, "get_issue", tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.ElementsMatch(t, tool.InputSchema.Required, []string{"owner", "repo", "issue_number"})

	mockIssue := &github.Issue{
		Number:  github.Ptr(42),
		Title:   github.Ptr("Test issue"),
		State:   github.Ptr("open"),
		Body:    github.Ptr("something is broken"),
		HTMLURL: github.Ptr("https://github.com/owner/repo/issues/42"),
	}

	tests := []struct {
		name           string
		mockedClient   *http.Client
		requestArgs    map[string]any
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "successful issue fetch",
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatch(
					mock.GetReposIssuesByOwnerByRepoByIssueNumber,
					mockIssue,
				),
			),
			requestArgs: map[string]any{
				"owner":        "owner",
				"repo":         "repo",
				"issue_number": float64(42),
			},
			expectError: false,
		},
		{
			name: "issue not found",
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatchHandler(
					mock.GetReposIssuesByOwnerByRepoByIssueNumber,
					http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
						w.WriteHeader(http.StatusNotFound)
						_, _ = w.Write([]byte(`{"message": "Not Found"}`))
					}),
				),
			),
			requestArgs: map[string]any{
				"owner":        "owner",
				"repo":         "repo",
				"issue_number": float64(404),
			},
			expectError:    true,
			expectedErrMsg: "failed to get issue 404",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := github.NewClient(tc.mockedClient)
			_, handler := GetIssue(stubGetClientFn(client), translations.NullTranslationHelper)
			request := createMCPRequest(tc.requestArgs)
			result, err := handler(context.Background(), request)

			if tc.expectError {
				require.NoError(t, err)
				errorContent := getErrorResult(t, result)
				assert.Contains(t, errorContent.Text, tc.expectedErrMsg)
				return
			}

			require.NoError(t, err)
			textContent := getTextResult(t, result)
			var returnedIssue github.Issue
			err = json.Unmarshal([]byte(textContent.Text), &returnedIssue)
			require.NoError(t, err)
			assert.Equal(t, 42, returnedIssue.GetNumber())
		})
	}
}

func Test_CreateIssue(t *testing.T) {
	mockClient := github.NewClient(nil)
	tool, _ := CreateIssue(stubGetClientFn(mockClient), translations.NullTranslationHelper)

	assert.Equal(t, "create_issue", tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.Contains(t, tool.InputSchema.Properties, "title")
	assert.Contains(t, tool.InputSchema.Properties, "body")
	assert.Contains(t, tool.InputSchema.Properties, "labels")
	assert.Contains(t, tool.InputSchema.Properties, "assignees")
	assert.ElementsMatch(t, tool.InputSchema.Required, []string{"owner", "repo", "title"})

	mockIssue := &github.Issue{
		Number:  github.Ptr(123),
		Title:   github.Ptr("Bug"),
		Body:    github.Ptr("desc"),
		State:   github.Ptr("open"),
		HTMLURL: github.Ptr("https://github.com/owner/repo/issues/123"),
	}

	// The request body must carry exactly the fields the caller supplied
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.PostReposIssuesByOwnerByRepo,
			expectRequestBody(t, map[string]any{
				"title": "Bug",
				"body":  "desc",
			}).andThen(
				mockResponse(t, http.StatusCreated, mockIssue),
			),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := CreateIssue(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
		"title": "Bug",
		"body":  "desc",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned MinimalIssue
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, 123, returned.Number)
	assert.Equal(t, "Bug", returned.Title)
}

func Test_CreateIssue_WithLabelsAndAssignees(t *testing.T) {
	mockIssue := &github.Issue{
		Number: github.Ptr(124),
		Title:  github.Ptr("Bug"),
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.PostReposIssuesByOwnerByRepo,
			expectRequestBody(t, map[string]any{
				"title":     "Bug",
				"labels":    []any{"bug", "help wanted"},
				"assignees": []any{"octocat"},
			}).andThen(
				mockResponse(t, http.StatusCreated, mockIssue),
			),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := CreateIssue(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner":     "owner",
		"repo":      "repo",
		"title":     "Bug",
		"labels":    []any{"bug", "help wanted"},
		"assignees": []any{"octocat"},
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned MinimalIssue
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, 124, returned.Number)
}

func Test_CreateIssue_MissingTitle(t *testing.T) {
	counting := &countingTransport{inner: mock.NewMockedHTTPClient().Transport}
	client := github.NewClient(&http.Client{Transport: counting})
	_, handler := CreateIssue(stubGetClientFn(client), translations.NullTranslationHelper)

	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	errorContent := getErrorResult(t, result)
	assert.Contains(t, errorContent.Text, "missing required parameter: title")
	assert.Equal(t, 0, counting.calls)
}

func Test_ListIssues(t *testing.T) {
	mockIssues := []*github.Issue{
		{Number: github.Ptr(1), Title: github.Ptr("First"), State: github.Ptr("open")},
		{Number: github.Ptr(2), Title: github.Ptr("Second"), State: github.Ptr("open")},
		// Pull requests surface through the issues API and must be filtered
		{Number: github.Ptr(3), Title: github.Ptr("A PR"), State: github.Ptr("open"), PullRequestLinks: &github.PullRequestLinks{URL: github.Ptr("https://api.github.com/repos/owner/repo/pulls/3")}},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposIssuesByOwnerByRepo,
			mockIssues,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := ListIssues(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned []MinimalIssue
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	require.Len(t, returned, 2)
	assert.Equal(t, 1, returned[0].Number)
	assert.Equal(t, 2, returned[1].Number)
}

func Test_ListIssues_Pagination(t *testing.T) {
	pages := [][]*github.Issue{
		{
			{Number: github.Ptr(1), Title: github.Ptr("one")},
			{Number: github.Ptr(2), Title: github.Ptr("two")},
		},
		{
			{Number: github.Ptr(3), Title: github.Ptr("three")},
			{Number: github.Ptr(4), Title: github.Ptr("four")},
		},
		{
			{Number: github.Ptr(5), Title: github.Ptr("five")},
			{Number: github.Ptr(6), Title: github.Ptr("six")},
		},
	}

	t.Run("no limit walks every page in order", func(t *testing.T) {
		mockedClient := mock.NewMockedHTTPClient(
			mock.WithRequestMatchPages(
				mock.GetReposIssuesByOwnerByRepo,
				pages[0], pages[1], pages[2],
			),
		)
		client := github.NewClient(mockedClient)
		_, handler := ListIssues(stubGetClientFn(client), translations.NullTranslationHelper)
		request := createMCPRequest(map[string]any{
			"owner": "owner",
			"repo":  "repo",
		})

		result, err := handler(context.Background(), request)
		require.NoError(t, err)
		textContent := getTextResult(t, result)

		var returned []MinimalIssue
		err = json.Unmarshal([]byte(textContent.Text), &returned)
		require.NoError(t, err)
		require.Len(t, returned, 6)
		for i, issue := range returned {
			assert.Equal(t, i+1, issue.Number)
		}
	})

	t.Run("limit stops requesting once satisfied", func(t *testing.T) {
		mockedClient := mock.NewMockedHTTPClient(
			mock.WithRequestMatchPages(
				mock.GetReposIssuesByOwnerByRepo,
				pages[0], pages[1], pages[2],
			),
		)
		counting := &countingTransport{inner: mockedClient.Transport}
		client := github.NewClient(&http.Client{Transport: counting})
		_, handler := ListIssues(stubGetClientFn(client), translations.NullTranslationHelper)
		request := createMCPRequest(map[string]any{
			"owner": "owner",
			"repo":  "repo",
			"limit": float64(3),
		})

		result, err := handler(context.Background(), request)
		require.NoError(t, err)
		textContent := getTextResult(t, result)

		var returned []MinimalIssue
		err = json.Unmarshal([]byte(textContent.Text), &returned)
		require.NoError(t, err)
		require.Len(t, returned, 3)
		assert.Equal(t, 1, returned[0].Number)
		assert.Equal(t, 3, returned[2].Number)
		// The third page must never be fetched
		assert.Equal(t, 2, counting.calls)
	})
}

func Test_UpdateIssue(t *testing.T) {
	mockIssue := &github.Issue{
		Number: github.Ptr(42),
		Title:  github.Ptr("Updated title"),
		State:  github.Ptr("closed"),
	}

	// Only the fields present in the request may appear in the PATCH body
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.PatchReposIssuesByOwnerByRepoByIssueNumber,
			expectRequestBody(t, map[string]any{
				"state": "closed",
			}).andThen(
				mockResponse(t, http.StatusOK, mockIssue),
			),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := UpdateIssue(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner":        "owner",
		"repo":         "repo",
		"issue_number": float64(42),
		"state":        "closed",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned MinimalIssue
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, "closed", returned.State)
}

func Test_AddIssueComment(t *testing.T) {
	mockComment := &github.IssueComment{
		ID:   github.Ptr(int64(100)),
		Body: github.Ptr("Thanks for the report"),
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.PostReposIssuesCommentsByOwnerByRepoByIssueNumber,
			expectRequestBody(t, map[string]any{
				"body": "Thanks for the report",
			}).andThen(
				mockResponse(t, http.StatusCreated, mockComment),
			),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := AddIssueComment(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner":        "owner",
		"repo":         "repo",
		"issue_number": float64(42),
		"body":         "Thanks for the report",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned github.IssueComment
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, int64(100), returned.GetID())
}

func Test_SearchIssues(t *testing.T) {
	mockResult := &github.IssuesSearchResult{
		Total:             github.Ptr(1),
		IncompleteResults: github.Ptr(false),
		Issues: []*github.Issue{
			{Number: github.Ptr(5), Title: github.Ptr("Found issue")},
		},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.GetSearchIssues,
			expectQueryParams(t, map[string]string{
				"q": "memory leak repo:owner/repo",
			}).andThen(
				mockResponse(t, http.StatusOK, mockResult),
			),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := SearchIssues(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"query": "memory leak repo:owner/repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)
	assert.Contains(t, textContent.Text, "Found issue")
}
