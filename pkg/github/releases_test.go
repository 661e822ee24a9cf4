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

func Test_CreateRelease(t *testing.T) {
	mockClient := github.NewClient(nil)
	tool, _ := CreateRelease(stubGetClientFn(mockClient), translations.NullTranslationHelper)

	assert.Equal(t, "create_release", tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.Contains(t, tool.InputSchema.Properties, "owner")
	assert.Contains(t, tool.InputSchema.Properties, "repo")
	assert.Contains(t, tool.InputSchema.Properties, "tag_name")
	assert.Contains(t, tool.InputSchema.Properties, "generate_release_notes")
	assert.ElementsMatch(t, tool.InputSchema.Required, []string{"owner", "repo", "tag_name"})

	mockRelease := &github.RepositoryRelease{
		ID:      github.Ptr(int64(1)),
		TagName: github.Ptr("v1.0.0"),
		Name:    github.Ptr("Release v1.0.0"),
		HTMLURL: github.Ptr("https://github.com/owner/repo/releases/tag/v1.0.0"),
	}

	tests := []struct {
		name           string
		mockedClient   *http.Client
		requestArgs    map[string]any
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "successful release creation",
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatchHandler(
					mock.PostReposReleasesByOwnerByRepo,
					expectRequestBody(t, map[string]any{
						"tag_name":               "v1.0.0",
						"name":                   "Release v1.0.0",
						"draft":                  false,
						"prerelease":             false,
						"generate_release_notes": true,
					}).andThen(
						mockResponse(t, http.StatusCreated, mockRelease),
					),
				),
			),
			requestArgs: map[string]any{
				"owner":                  "owner",
				"repo":                   "repo",
				"tag_name":               "v1.0.0",
				"name":                   "Release v1.0.0",
				"generate_release_notes": true,
			},
		},
		{
			name: "optional fields sent only when provided",
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatchHandler(
					mock.PostReposReleasesByOwnerByRepo,
					expectRequestBody(t, map[string]any{
						"tag_name":               "v1.0.0",
						"target_commitish":       "release-branch",
						"body":                   "Changelog",
						"draft":                  true,
						"prerelease":             false,
						"generate_release_notes": false,
					}).andThen(
						mockResponse(t, http.StatusCreated, mockRelease),
					),
				),
			),
			requestArgs: map[string]any{
				"owner":            "owner",
				"repo":             "repo",
				"tag_name":         "v1.0.0",
				"target_commitish": "release-branch",
				"body":             "Changelog",
				"draft":            true,
			},
		},
		{
			name:         "missing required tag_name",
			mockedClient: mock.NewMockedHTTPClient(),
			requestArgs: map[string]any{
				"owner": "owner",
				"repo":  "repo",
			},
			expectError:    true,
			expectedErrMsg: "missing required parameter: tag_name",
		},
		{
			name: "release creation fails",
			mockedClient: mock.NewMockedHTTPClient(
				mock.WithRequestMatchHandler(
					mock.PostReposReleasesByOwnerByRepo,
					mockResponse(t, http.StatusUnprocessableEntity, map[string]string{"message": "Validation Failed"}),
				),
			),
			requestArgs: map[string]any{
				"owner":    "owner",
				"repo":     "repo",
				"tag_name": "v1.0.0",
			},
			expectError:    true,
			expectedErrMsg: "failed to create release with tag: v1.0.0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := github.NewClient(tc.mockedClient)
			_, handler := CreateRelease(stubGetClientFn(client), translations.NullTranslationHelper)

			request := createMCPRequest(tc.requestArgs)
			result, err := handler(context.Background(), request)
			require.NoError(t, err)

			if tc.expectError {
				errorContent := getErrorResult(t, result)
				assert.Contains(t, errorContent.Text, tc.expectedErrMsg)
				return
			}

			textContent := getTextResult(t, result)
			var returned github.RepositoryRelease
			err = json.Unmarshal([]byte(textContent.Text), &returned)
			require.NoError(t, err)
			assert.Equal(t, "v1.0.0", returned.GetTagName())
		})
	}
}

func Test_ListReleases(t *testing.T) {
	mockReleases := []*github.RepositoryRelease{
		{
			ID:      github.Ptr(int64(1)),
			TagName: github.Ptr("v1.1.0"),
			Name:    github.Ptr("Release v1.1.0"),
			Author:  &github.User{Login: github.Ptr("octocat")},
		},
		{
			ID:      github.Ptr(int64(2)),
			TagName: github.Ptr("v1.0.0"),
			Name:    github.Ptr("Release v1.0.0"),
			Draft:   github.Ptr(true),
		},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposReleasesByOwnerByRepo,
			mockReleases,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := ListReleases(stubGetClientFn(client), translations.NullTranslationHelper)

	request := createMCPRequest(map[string]any{"owner": "owner", "repo": "repo"})
	result, err := handler(context.Background(), request)
	require.NoError(t, err)

	textContent := getTextResult(t, result)
	var returned []MinimalRelease
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	require.Len(t, returned, 2)
	assert.Equal(t, "v1.1.0", returned[0].TagName)
	assert.Equal(t, "octocat", returned[0].Author.Login)
	assert.True(t, returned[1].Draft)
}

func Test_GetLatestRelease(t *testing.T) {
	mockRelease := &github.RepositoryRelease{
		ID:      github.Ptr(int64(5)),
		TagName: github.Ptr("v2.0.0"),
		Name:    github.Ptr("Release v2.0.0"),
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposReleasesLatestByOwnerByRepo,
			mockRelease,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := GetLatestRelease(stubGetClientFn(client), translations.NullTranslationHelper)

	request := createMCPRequest(map[string]any{"owner": "owner", "repo": "repo"})
	result, err := handler(context.Background(), request)
	require.NoError(t, err)

	textContent := getTextResult(t, result)
	var returned MinimalRelease
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", returned.TagName)
}

func Test_ListTags(t *testing.T) {
	mockTags := []*github.RepositoryTag{
		{
			Name:   github.Ptr("v1.1.0"),
			Commit: &github.Commit{SHA: github.Ptr("abc123")},
		},
		{
			Name:   github.Ptr("v1.0.0"),
			Commit: &github.Commit{SHA: github.Ptr("def456")},
		},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposTagsByOwnerByRepo,
			mockTags,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := ListTags(stubGetClientFn(client), translations.NullTranslationHelper)

	request := createMCPRequest(map[string]any{"owner": "owner", "repo": "repo"})
	result, err := handler(context.Background(), request)
	require.NoError(t, err)

	textContent := getTextResult(t, result)
	var returned []*github.RepositoryTag
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	require.Len(t, returned, 2)
	assert.Equal(t, "v1.1.0", returned[0].GetName())
	assert.Equal(t, "abc123", returned[0].GetCommit().GetSHA())
}

func Test_GetTag(t *testing.T) {
	t.Run("lightweight tag returns the ref", func(t *testing.T) {
		mockedClient := mock.NewMockedHTTPClient(
			mock.WithRequestMatch(
				mock.GetReposGitRefByOwnerByRepoByRef,
				&github.Reference{
					Ref: github.Ptr("refs/tags/v1.0.0"),
					Object: &github.GitObject{
						Type: github.Ptr("commit"),
						SHA:  github.Ptr("abc123"),
					},
				},
			),
		)

		client := github.NewClient(mockedClient)
		_, handler := GetTag(stubGetClientFn(client), translations.NullTranslationHelper)

		request := createMCPRequest(map[string]any{"owner": "owner", "repo": "repo", "tag": "v1.0.0"})
		result, err := handler(context.Background(), request)
		require.NoError(t, err)

		textContent := getTextResult(t, result)
		var returned github.Reference
		err = json.Unmarshal([]byte(textContent.Text), &returned)
		require.NoError(t, err)
		assert.Equal(t, "commit", returned.Object.GetType())
	})

	t.Run("annotated tag resolves the tag object", func(t *testing.T) {
		mockedClient := mock.NewMockedHTTPClient(
			mock.WithRequestMatch(
				mock.GetReposGitRefByOwnerByRepoByRef,
				&github.Reference{
					Ref: github.Ptr("refs/tags/v1.0.0"),
					Object: &github.GitObject{
						Type: github.Ptr("tag"),
						SHA:  github.Ptr("tagsha"),
					},
				},
			),
			mock.WithRequestMatch(
				mock.GetReposGitTagsByOwnerByRepoByTagSha,
				&github.Tag{
					Tag:     github.Ptr("v1.0.0"),
					Message: github.Ptr("release v1.0.0"),
					SHA:     github.Ptr("tagsha"),
				},
			),
		)

		client := github.NewClient(mockedClient)
		_, handler := GetTag(stubGetClientFn(client), translations.NullTranslationHelper)

		request := createMCPRequest(map[string]any{"owner": "owner", "repo": "repo", "tag": "v1.0.0"})
		result, err := handler(context.Background(), request)
		require.NoError(t, err)

		textContent := getTextResult(t, result)
		var returned github.Tag
		err = json.Unmarshal([]byte(textContent.Text), &returned)
		require.NoError(t, err)
		assert.Equal(t, "release v1.0.0", returned.GetMessage())
	})
}
