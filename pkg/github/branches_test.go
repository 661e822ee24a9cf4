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

func Test_ListBranches(t *testing.T) {
	mockClient := github.NewClient(nil)
	tool, _ := ListBranches(stubGetClientFn(mockClient), translations.NullTranslationHelper)

	assert.Equal(t, "list_branches", tool.Name)
	assert.ElementsMatch(t, tool.InputSchema.Required, []string{"owner", "repo"})

	mockBranches := []*github.Branch{
		{Name: github.Ptr("main"), Commit: &github.RepositoryCommit{SHA: github.Ptr("abc123")}, Protected: github.Ptr(true)},
		{Name: github.Ptr("develop"), Commit: &github.RepositoryCommit{SHA: github.Ptr("def456")}},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposBranchesByOwnerByRepo,
			mockBranches,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := ListBranches(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned []MinimalBranch
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	require.Len(t, returned, 2)
	assert.Equal(t, "main", returned[0].Name)
	assert.Equal(t, "abc123", returned[0].SHA)
	assert.True(t, returned[0].Protected)
}

func Test_CreateBranch(t *testing.T) {
	mockRef := &github.Reference{
		Ref:    github.Ptr("refs/heads/main"),
		Object: &github.GitObject{SHA: github.Ptr("abc123")},
	}
	createdRef := &github.Reference{
		Ref:    github.Ptr("refs/heads/feature"),
		Object: &github.GitObject{SHA: github.Ptr("abc123")},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposGitRefByOwnerByRepoByRef,
			mockRef,
		),
		mock.WithRequestMatchHandler(
			mock.PostReposGitRefsByOwnerByRepo,
			expectRequestBody(t, map[string]any{
				"ref": "refs/heads/feature",
				"sha": "abc123",
			}).andThen(
				mockResponse(t, http.StatusCreated, createdRef),
			),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := CreateBranch(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner":       "owner",
		"repo":        "repo",
		"branch":      "feature",
		"from_branch": "main",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned github.Reference
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/feature", returned.GetRef())
}

func Test_DeleteBranch(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.DeleteReposGitRefsByOwnerByRepoByRef,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := DeleteBranch(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner":  "owner",
		"repo":   "repo",
		"branch": "stale",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)
	assert.Contains(t, textContent.Text, "stale")
}
