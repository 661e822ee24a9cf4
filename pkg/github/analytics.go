package github

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-github/v69/github"
	ghErrors "github.com/hubgate/github-mcp-server/pkg/errors"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shurcooL/githubv4"
)

// GetGQLClientFn is a function type that returns a GitHub GraphQL client.
type GetGQLClientFn func(context.Context) (*githubv4.Client, error)

// GetRepositoryStats creates a tool to get aggregate statistics for a
// repository: general counters, language breakdown, and top contributors.
func GetRepositoryStats(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_repository_stats",
			mcp.WithDescription(t("TOOL_GET_REPOSITORY_STATS_DESCRIPTION", "Get repository statistics: stars, forks, languages, and top contributors")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_REPOSITORY_STATS_USER_TITLE", "Get repository statistics"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			owner, err := RequiredParam[string](request, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			repo, err := RequiredParam[string](request, "repo")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}

			repository, resp, err := client.Repositories.Get(ctx, owner, repo)
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get repository %s/%s", owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			languages, resp, err := client.Repositories.ListLanguages(ctx, owner, repo)
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get languages for %s/%s", owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			contributors, resp, err := client.Repositories.ListContributors(ctx, owner, repo, &github.ListContributorsOptions{
				ListOptions: github.ListOptions{PerPage: 5},
			})
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get contributors for %s/%s", owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			var totalBytes int
			for _, b := range languages {
				totalBytes += b
			}
			type languageShare struct {
				Language   string  `json:"language"`
				Bytes      int     `json:"bytes"`
				Percentage float64 `json:"percentage"`
			}
			shares := make([]languageShare, 0, len(languages))
			for lang, b := range languages {
				share := languageShare{Language: lang, Bytes: b}
				if totalBytes > 0 {
					share.Percentage = float64(b) / float64(totalBytes) * 100
				}
				shares = append(shares, share)
			}
			sort.Slice(shares, func(i, j int) bool { return shares[i].Bytes > shares[j].Bytes })
			if len(shares) > 5 {
				shares = shares[:5]
			}

			type topContributor struct {
				Login         string `json:"login"`
				Contributions int    `json:"contributions"`
			}
			top := make([]topContributor, 0, len(contributors))
			for _, c := range contributors {
				top = append(top, topContributor{
					Login:         c.GetLogin(),
					Contributions: c.GetContributions(),
				})
			}

			return MarshalledTextResult(map[string]any{
				"repository":       repository.GetFullName(),
				"stars":            repository.GetStargazersCount(),
				"forks":            repository.GetForksCount(),
				"watchers":         repository.GetSubscribersCount(),
				"open_issues":      repository.GetOpenIssuesCount(),
				"size_kb":          repository.GetSize(),
				"languages":        shares,
				"top_contributors": top,
			}), nil
		}
}

// GetContributorStats creates a tool to get per-contributor commit statistics.
func GetContributorStats(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_contributor_stats",
			mcp.WithDescription(t("TOOL_GET_CONTRIBUTOR_STATS_DESCRIPTION", "Get contributor statistics with recent activity for a repository")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_CONTRIBUTOR_STATS_USER_TITLE", "Get contributor statistics"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			owner, err := RequiredParam[string](request, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			repo, err := RequiredParam[string](request, "repo")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			stats, resp, err := client.Repositories.ListContributorsStats(ctx, owner, repo)
			if err != nil {
				// GitHub computes these statistics lazily and answers 202
				// until the computation finishes
				if isAcceptedError(err) {
					return mcp.NewToolResultText("Contributor statistics are being computed, try again shortly"), nil
				}
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get contributor stats for %s/%s", owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			sort.Slice(stats, func(i, j int) bool { return stats[i].GetTotal() > stats[j].GetTotal() })
			if len(stats) > 10 {
				stats = stats[:10]
			}

			type contributorActivity struct {
				Login           string `json:"login"`
				TotalCommits    int    `json:"total_commits"`
				RecentCommits   int    `json:"recent_commits"`
				RecentAdditions int    `json:"recent_additions"`
				RecentDeletions int    `json:"recent_deletions"`
			}
			activity := make([]contributorActivity, 0, len(stats))
			for _, s := range stats {
				entry := contributorActivity{
					Login:        s.GetAuthor().GetLogin(),
					TotalCommits: s.GetTotal(),
				}
				weeks := s.Weeks
				if len(weeks) > 4 {
					weeks = weeks[len(weeks)-4:]
				}
				for _, w := range weeks {
					entry.RecentCommits += w.GetCommits()
					entry.RecentAdditions += w.GetAdditions()
					entry.RecentDeletions += w.GetDeletions()
				}
				activity = append(activity, entry)
			}

			return MarshalledTextResult(activity), nil
		}
}

// GetCommitActivity creates a tool to get weekly commit activity for the
// last year.
func GetCommitActivity(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_commit_activity",
			mcp.WithDescription(t("TOOL_GET_COMMIT_ACTIVITY_DESCRIPTION", "Get commit activity for the last year of a repository")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_COMMIT_ACTIVITY_USER_TITLE", "Get commit activity"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			owner, err := RequiredParam[string](request, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			repo, err := RequiredParam[string](request, "repo")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			activity, resp, err := client.Repositories.ListCommitActivity(ctx, owner, repo)
			if err != nil {
				if isAcceptedError(err) {
					return mcp.NewToolResultText("Commit activity is being computed, try again shortly"), nil
				}
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get commit activity for %s/%s", owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			var totalCommits, recentCommits int
			var mostActiveWeek *github.WeeklyCommitActivity
			dayTotals := make([]int, 7)
			for i, week := range activity {
				totalCommits += week.GetTotal()
				if mostActiveWeek == nil || week.GetTotal() > mostActiveWeek.GetTotal() {
					mostActiveWeek = activity[i]
				}
				if i >= len(activity)-4 {
					recentCommits += week.GetTotal()
				}
				for d, count := range week.Days {
					dayTotals[d] += count
				}
			}

			result := map[string]any{
				"total_commits_last_year": totalCommits,
				"recent_commits_4_weeks":  recentCommits,
				// Sunday through Saturday
				"commits_by_day": dayTotals,
			}
			if mostActiveWeek != nil {
				result["most_active_week"] = map[string]any{
					"week_start": mostActiveWeek.GetWeek().Format("2006-01-02"),
					"commits":    mostActiveWeek.GetTotal(),
				}
			}
			return MarshalledTextResult(result), nil
		}
}

// GetRepositoryOverview creates a tool to get a consolidated repository
// overview in a single GraphQL round trip.
func GetRepositoryOverview(getGQLClient GetGQLClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_repository_overview",
			mcp.WithDescription(t("TOOL_GET_REPOSITORY_OVERVIEW_DESCRIPTION", "Get a consolidated overview of a repository: counters, default branch, latest release, and primary language")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_REPOSITORY_OVERVIEW_USER_TITLE", "Get repository overview"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			owner, err := RequiredParam[string](request, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			repo, err := RequiredParam[string](request, "repo")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getGQLClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub GraphQL client: %w", err)
			}

			var query struct {
				Repository struct {
					Description      githubv4.String
					StargazerCount   githubv4.Int
					ForkCount        githubv4.Int
					IsArchived       githubv4.Boolean
					DefaultBranchRef struct {
						Name   githubv4.String
						Target struct {
							Commit struct {
								History struct {
									TotalCount githubv4.Int
								}
							} `graphql:"... on Commit"`
						}
					}
					Issues struct {
						TotalCount githubv4.Int
					} `graphql:"issues(states: OPEN)"`
					PullRequests struct {
						TotalCount githubv4.Int
					} `graphql:"pullRequests(states: OPEN)"`
					PrimaryLanguage struct {
						Name githubv4.String
					}
					LicenseInfo struct {
						Name githubv4.String
					}
					Releases struct {
						Nodes []struct {
							TagName githubv4.String
						}
					} `graphql:"releases(first: 1, orderBy: {field: CREATED_AT, direction: DESC})"`
				} `graphql:"repository(owner: $owner, name: $repo)"`
			}
			vars := map[string]any{
				"owner": githubv4.String(owner),
				"repo":  githubv4.String(repo),
			}

			if err := client.Query(ctx, &query, vars); err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get overview for %s/%s", owner, repo),
					nil,
					err,
				), nil
			}

			overview := map[string]any{
				"repository":         fmt.Sprintf("%s/%s", owner, repo),
				"description":        string(query.Repository.Description),
				"stars":              int(query.Repository.StargazerCount),
				"forks":              int(query.Repository.ForkCount),
				"archived":           bool(query.Repository.IsArchived),
				"open_issues":        int(query.Repository.Issues.TotalCount),
				"open_pull_requests": int(query.Repository.PullRequests.TotalCount),
				"default_branch":     string(query.Repository.DefaultBranchRef.Name),
				"commits_on_default": int(query.Repository.DefaultBranchRef.Target.Commit.History.TotalCount),
				"primary_language":   string(query.Repository.PrimaryLanguage.Name),
				"license":            string(query.Repository.LicenseInfo.Name),
			}
			if len(query.Repository.Releases.Nodes) > 0 {
				overview["latest_release"] = string(query.Repository.Releases.Nodes[0].TagName)
			}
			return MarshalledTextResult(overview), nil
		}
}
