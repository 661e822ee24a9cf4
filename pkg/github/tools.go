package github

import (
	"github.com/hubgate/github-mcp-server/pkg/toolsets"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultTools is the toolset selection used when the caller passes none.
var DefaultTools = []string{"all"}

// InitToolsets builds the full toolset group, enables the passed toolsets,
// and applies read-only filtering.
func InitToolsets(passedToolsets []string, readOnly bool, getClient GetClientFn, getGQLClient GetGQLClientFn, t translations.TranslationHelperFunc) (*toolsets.ToolsetGroup, error) {
	tsg := toolsets.NewToolsetGroup(readOnly)

	repos := toolsets.NewToolset("repos", "GitHub repository, file, branch, and commit tools").
		AddReadTools(
			toolsets.NewServerTool(GetRepository(getClient, t)),
			toolsets.NewServerTool(ListUserRepositories(getClient, t)),
			toolsets.NewServerTool(SearchRepositories(getClient, t)),
			toolsets.NewServerTool(GetFileContents(getClient, t)),
			toolsets.NewServerTool(ListCommits(getClient, t)),
			toolsets.NewServerTool(GetCommit(getClient, t)),
			toolsets.NewServerTool(ListBranches(getClient, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(CreateRepository(getClient, t)),
			toolsets.NewServerTool(ForkRepository(getClient, t)),
			toolsets.NewServerTool(CreateOrUpdateFile(getClient, t)),
			toolsets.NewServerTool(DeleteFile(getClient, t)),
			toolsets.NewServerTool(CreateBranch(getClient, t)),
			toolsets.NewServerTool(DeleteBranch(getClient, t)),
		)

	issues := toolsets.NewToolset("issues", "GitHub issue tools").
		AddReadTools(
			toolsets.NewServerTool(GetIssue(getClient, t)),
			toolsets.NewServerTool(ListIssues(getClient, t)),
			toolsets.NewServerTool(GetIssueComments(getClient, t)),
			toolsets.NewServerTool(SearchIssues(getClient, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(CreateIssue(getClient, t)),
			toolsets.NewServerTool(UpdateIssue(getClient, t)),
			toolsets.NewServerTool(AddIssueComment(getClient, t)),
		)

	pullRequests := toolsets.NewToolset("pull_requests", "GitHub pull request tools").
		AddReadTools(
			toolsets.NewServerTool(GetPullRequest(getClient, t)),
			toolsets.NewServerTool(ListPullRequests(getClient, t)),
			toolsets.NewServerTool(GetPullRequestFiles(getClient, t)),
			toolsets.NewServerTool(GetPullRequestReviews(getClient, t)),
			toolsets.NewServerTool(GetPullRequestComments(getClient, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(CreatePullRequest(getClient, t)),
			toolsets.NewServerTool(MergePullRequest(getClient, t)),
			toolsets.NewServerTool(UpdatePullRequestBranch(getClient, t)),
		)

	releases := toolsets.NewToolset("releases", "GitHub release and tag tools").
		AddReadTools(
			toolsets.NewServerTool(ListReleases(getClient, t)),
			toolsets.NewServerTool(GetLatestRelease(getClient, t)),
			toolsets.NewServerTool(ListTags(getClient, t)),
			toolsets.NewServerTool(GetTag(getClient, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(CreateRelease(getClient, t)),
		)

	actions := toolsets.NewToolset("actions", "GitHub Actions workflow tools").
		AddReadTools(
			toolsets.NewServerTool(ListWorkflows(getClient, t)),
			toolsets.NewServerTool(ListWorkflowRuns(getClient, t)),
			toolsets.NewServerTool(GetWorkflowRun(getClient, t)),
			toolsets.NewServerTool(GetJobLogs(getClient, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(RunWorkflow(getClient, t)),
			toolsets.NewServerTool(CancelWorkflowRun(getClient, t)),
		)

	search := toolsets.NewToolset("search", "GitHub code and user search tools").
		AddReadTools(
			toolsets.NewServerTool(SearchCode(getClient, t)),
			toolsets.NewServerTool(SearchUsers(getClient, t)),
		)

	analytics := toolsets.NewToolset("analytics", "Repository statistics and analytics tools").
		AddReadTools(
			toolsets.NewServerTool(GetRepositoryStats(getClient, t)),
			toolsets.NewServerTool(GetContributorStats(getClient, t)),
			toolsets.NewServerTool(GetCommitActivity(getClient, t)),
			toolsets.NewServerTool(GetRepositoryOverview(getGQLClient, t)),
		)

	collaborators := toolsets.NewToolset("collaborators", "Repository collaborator tools").
		AddReadTools(
			toolsets.NewServerTool(ListCollaborators(getClient, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(AddCollaborator(getClient, t)),
			toolsets.NewServerTool(RemoveCollaborator(getClient, t)),
		)

	contextTools := toolsets.NewToolset("context", "Tools providing context about the authenticated user").
		AddReadTools(
			toolsets.NewServerTool(GetMe(getClient, t)),
		)
	// The context toolset is always enabled
	contextTools.Enabled = true

	tsg.AddToolset(contextTools)
	tsg.AddToolset(repos)
	tsg.AddToolset(issues)
	tsg.AddToolset(pullRequests)
	tsg.AddToolset(releases)
	tsg.AddToolset(actions)
	tsg.AddToolset(search)
	tsg.AddToolset(analytics)
	tsg.AddToolset(collaborators)

	if err := tsg.EnableToolsets(passedToolsets); err != nil {
		return nil, err
	}
	return tsg, nil
}

// InitDynamicToolset creates a toolset for discovering and enabling other
// toolsets at runtime.
func InitDynamicToolset(s *server.MCPServer, tsg *toolsets.ToolsetGroup, t translations.TranslationHelperFunc) *toolsets.Toolset {
	dynamicToolSelection := toolsets.NewToolset("dynamic", "Discover and enable additional toolsets at runtime").
		AddReadTools(
			toolsets.NewServerTool(ListAvailableToolsets(tsg, t)),
			toolsets.NewServerTool(GetToolsetTools(tsg, t)),
			toolsets.NewServerTool(EnableToolset(s, tsg, t)),
		)
	dynamicToolSelection.Enabled = true
	return dynamicToolSelection
}
