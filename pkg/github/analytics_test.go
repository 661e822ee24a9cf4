package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v69/github"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetRepositoryStats(t *testing.T) {
	mockRepo := &github.Repository{
		FullName:         github.Ptr("owner/repo"),
		StargazersCount:  github.Ptr(100),
		ForksCount:       github.Ptr(20),
		SubscribersCount: github.Ptr(15),
		OpenIssuesCount:  github.Ptr(5),
		Size:             github.Ptr(2048),
	}
	mockLanguages := map[string]int{
		"Go":       8000,
		"Makefile": 2000,
	}
	mockContributors := []*github.Contributor{
		{Login: github.Ptr("alice"), Contributions: github.Ptr(300)},
		{Login: github.Ptr("bob"), Contributions: github.Ptr(120)},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposByOwnerByRepo,
			mockRepo,
		),
		mock.WithRequestMatch(
			mock.GetReposLanguagesByOwnerByRepo,
			mockLanguages,
		),
		mock.WithRequestMatch(
			mock.GetReposContributorsByOwnerByRepo,
			mockContributors,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := GetRepositoryStats(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned map[string]any
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, "owner/repo", returned["repository"])
	assert.EqualValues(t, 100, returned["stars"])

	languages, ok := returned["languages"].([]any)
	require.True(t, ok)
	require.Len(t, languages, 2)
	first := languages[0].(map[string]any)
	assert.Equal(t, "Go", first["language"])
	assert.InDelta(t, 80.0, first["percentage"].(float64), 0.01)
}

func Test_GetContributorStats(t *testing.T) {
	week := func(commits, additions, deletions int) *github.WeeklyStats {
		return &github.WeeklyStats{
			Commits:   github.Ptr(commits),
			Additions: github.Ptr(additions),
			Deletions: github.Ptr(deletions),
		}
	}
	mockStats := []*github.ContributorStats{
		{
			Author: &github.Contributor{Login: github.Ptr("alice")},
			Total:  github.Ptr(50),
			Weeks:  []*github.WeeklyStats{week(1, 10, 2), week(2, 20, 4), week(3, 30, 6), week(4, 40, 8), week(5, 50, 10)},
		},
		{
			Author: &github.Contributor{Login: github.Ptr("bob")},
			Total:  github.Ptr(90),
			Weeks:  []*github.WeeklyStats{week(9, 90, 9)},
		},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposStatsContributorsByOwnerByRepo,
			mockStats,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := GetContributorStats(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned []struct {
		Login           string `json:"login"`
		TotalCommits    int    `json:"total_commits"`
		RecentCommits   int    `json:"recent_commits"`
		RecentAdditions int    `json:"recent_additions"`
		RecentDeletions int    `json:"recent_deletions"`
	}
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	require.Len(t, returned, 2)
	// sorted by total contributions, bob first
	assert.Equal(t, "bob", returned[0].Login)
	assert.Equal(t, 90, returned[0].TotalCommits)
	// alice's recent window covers the last four weeks only
	assert.Equal(t, "alice", returned[1].Login)
	assert.Equal(t, 2+3+4+5, returned[1].RecentCommits)
	assert.Equal(t, 20+30+40+50, returned[1].RecentAdditions)
}

func Test_GetContributorStats_Computing(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.GetReposStatsContributorsByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			}),
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := GetContributorStats(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)
	assert.Contains(t, textContent.Text, "being computed")
}

func Test_GetCommitActivity(t *testing.T) {
	mockActivity := []*github.WeeklyCommitActivity{
		{Total: github.Ptr(3), Days: []int{0, 1, 0, 1, 1, 0, 0}},
		{Total: github.Ptr(7), Days: []int{1, 2, 0, 2, 1, 1, 0}},
	}

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatch(
			mock.GetReposStatsCommitActivityByOwnerByRepo,
			mockActivity,
		),
	)

	client := github.NewClient(mockedClient)
	_, handler := GetCommitActivity(stubGetClientFn(client), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned map[string]any
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.EqualValues(t, 10, returned["total_commits_last_year"])

	mostActive, ok := returned["most_active_week"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, mostActive["commits"])
}

func Test_GetRepositoryOverview(t *testing.T) {
	gqlServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"repository": {
					"description": "a demo repository",
					"stargazerCount": 11,
					"forkCount": 3,
					"isArchived": false,
					"defaultBranchRef": {
						"name": "main",
						"target": {"history": {"totalCount": 250}}
					},
					"issues": {"totalCount": 4},
					"pullRequests": {"totalCount": 2},
					"primaryLanguage": {"name": "Go"},
					"licenseInfo": {"name": "MIT License"},
					"releases": {"nodes": [{"tagName": "v1.2.3"}]}
				}
			}
		}`))
	}))
	defer gqlServer.Close()

	gqlClient := githubv4.NewEnterpriseClient(gqlServer.URL, nil)
	_, handler := GetRepositoryOverview(stubGetGQLClientFn(gqlClient), translations.NullTranslationHelper)
	request := createMCPRequest(map[string]any{
		"owner": "owner",
		"repo":  "repo",
	})

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	textContent := getTextResult(t, result)

	var returned map[string]any
	err = json.Unmarshal([]byte(textContent.Text), &returned)
	require.NoError(t, err)
	assert.Equal(t, "owner/repo", returned["repository"])
	assert.EqualValues(t, 11, returned["stars"])
	assert.Equal(t, "main", returned["default_branch"])
	assert.EqualValues(t, 250, returned["commits_on_default"])
	assert.Equal(t, "v1.2.3", returned["latest_release"])
}
