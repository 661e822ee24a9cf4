package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v69/github"
	"github.com/hubgate/github-mcp-server/pkg/buffer"
	ghErrors "github.com/hubgate/github-mcp-server/pkg/errors"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultTailLines = 500

// logDownloadClient fetches pre-signed log URLs with the same bounded timeout
// the API clients carry.
var logDownloadClient = &http.Client{Timeout: 30 * time.Second}

// ListWorkflows creates a tool to list workflows in a repository.
func ListWorkflows(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("list_workflows",
			mcp.WithDescription(t("TOOL_LIST_WORKFLOWS_DESCRIPTION", "List workflows in a GitHub repository")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_LIST_WORKFLOWS_USER_TITLE", "List workflows"),
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
			WithPagination(),
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
			pagination, err := OptionalPaginationParams(request)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			opts := &github.ListOptions{
				Page:    pagination.Page,
				PerPage: pagination.PerPage,
			}
			workflows, resp, err := client.Actions.ListWorkflows(ctx, owner, repo, opts)
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to list workflows in %s/%s", owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			return MarshalledTextResult(workflows), nil
		}
}

// RunWorkflow creates a tool to trigger a workflow_dispatch event.
func RunWorkflow(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("run_workflow",
			mcp.WithDescription(t("TOOL_RUN_WORKFLOW_DESCRIPTION", "Run a workflow in a GitHub repository via workflow_dispatch")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_RUN_WORKFLOW_USER_TITLE", "Run workflow"),
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
			mcp.WithString("workflow_id",
				mcp.Required(),
				mcp.Description("The workflow ID or workflow file name (e.g. ci.yml)"),
			),
			mcp.WithString("ref",
				mcp.Required(),
				mcp.Description("Git reference (branch or tag) to run the workflow on"),
			),
			mcp.WithObject("inputs",
				mcp.Description("Inputs the workflow accepts"),
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
			workflowID, err := RequiredParam[string](request, "workflow_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			ref, err := RequiredParam[string](request, "ref")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			var inputs map[string]any
			if raw, ok := request.Params.Arguments["inputs"]; ok && raw != nil {
				inputs, ok = raw.(map[string]any)
				if !ok {
					return mcp.NewToolResultError("parameter inputs is not of type object"), nil
				}
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			event := github.CreateWorkflowDispatchEventRequest{
				Ref:    ref,
				Inputs: inputs,
			}
			resp, err := client.Actions.CreateWorkflowDispatchEventByFileName(ctx, owner, repo, workflowID, event)
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to run workflow %s in %s/%s", workflowID, owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			return mcp.NewToolResultText(fmt.Sprintf("Workflow %s triggered on %s", workflowID, ref)), nil
		}
}

// ListWorkflowRuns creates a tool to list runs of a workflow or all workflows.
func ListWorkflowRuns(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("list_workflow_runs",
			mcp.WithDescription(t("TOOL_LIST_WORKFLOW_RUNS_DESCRIPTION", "List workflow runs in a GitHub repository")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_LIST_WORKFLOW_RUNS_USER_TITLE", "List workflow runs"),
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
			mcp.WithString("workflow_id",
				mcp.Description("Workflow ID or file name; all workflows when absent"),
			),
			mcp.WithString("branch",
				mcp.Description("Filter by branch"),
			),
			mcp.WithString("status",
				mcp.Description("Filter by run status"),
				mcp.Enum("queued", "in_progress", "completed", "success", "failure", "cancelled"),
			),
			WithPagination(),
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
			workflowID, err := OptionalParam[string](request, "workflow_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			branch, err := OptionalParam[string](request, "branch")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			status, err := OptionalParam[string](request, "status")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			pagination, err := OptionalPaginationParams(request)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			opts := &github.ListWorkflowRunsOptions{
				Branch: branch,
				Status: status,
				ListOptions: github.ListOptions{
					Page:    pagination.Page,
					PerPage: pagination.PerPage,
				},
			}

			var runs *github.WorkflowRuns
			var resp *github.Response
			if workflowID != "" {
				runs, resp, err = client.Actions.ListWorkflowRunsByFileName(ctx, owner, repo, workflowID, opts)
			} else {
				runs, resp, err = client.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
			}
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to list workflow runs in %s/%s", owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			minimal := make([]MinimalWorkflowRun, 0, len(runs.WorkflowRuns))
			for _, run := range runs.WorkflowRuns {
				minimal = append(minimal, minimalWorkflowRun(run))
			}
			return MarshalledTextResult(map[string]any{
				"total_count":   runs.GetTotalCount(),
				"workflow_runs": minimal,
			}), nil
		}
}

// GetWorkflowRun creates a tool to get details of a specific workflow run.
func GetWorkflowRun(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_workflow_run",
			mcp.WithDescription(t("TOOL_GET_WORKFLOW_RUN_DESCRIPTION", "Get details of a specific workflow run")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_WORKFLOW_RUN_USER_TITLE", "Get workflow run"),
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
			mcp.WithNumber("run_id",
				mcp.Required(),
				mcp.Description("Workflow run ID"),
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
			runID, err := RequiredInt(request, "run_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			run, resp, err := client.Actions.GetWorkflowRunByID(ctx, owner, repo, int64(runID))
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get workflow run %d in %s/%s", runID, owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			return MarshalledTextResult(minimalWorkflowRun(run)), nil
		}
}

// CancelWorkflowRun creates a tool to cancel an in-progress workflow run.
func CancelWorkflowRun(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("cancel_workflow_run",
			mcp.WithDescription(t("TOOL_CANCEL_WORKFLOW_RUN_DESCRIPTION", "Cancel an in-progress workflow run")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_CANCEL_WORKFLOW_RUN_USER_TITLE", "Cancel workflow run"),
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
			mcp.WithNumber("run_id",
				mcp.Required(),
				mcp.Description("Workflow run ID"),
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
			runID, err := RequiredInt(request, "run_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			resp, err := client.Actions.CancelWorkflowRunByID(ctx, owner, repo, int64(runID))
			if err != nil {
				// Cancellation is queued server-side, a 202 means success
				if isAcceptedError(err) {
					return mcp.NewToolResultText(fmt.Sprintf("Cancellation of workflow run %d requested", runID)), nil
				}
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to cancel workflow run %d in %s/%s", runID, owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			return mcp.NewToolResultText(fmt.Sprintf("Cancellation of workflow run %d requested", runID)), nil
		}
}

// GetJobLogs creates a tool to fetch the tail of a workflow job's log.
// Logs can run to many megabytes so only the last tail_lines lines are
// returned.
func GetJobLogs(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_job_logs",
			mcp.WithDescription(t("TOOL_GET_JOB_LOGS_DESCRIPTION", "Get the log tail for a workflow job")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_JOB_LOGS_USER_TITLE", "Get job logs"),
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
			mcp.WithNumber("job_id",
				mcp.Required(),
				mcp.Description("Workflow job ID"),
			),
			mcp.WithNumber("tail_lines",
				mcp.Description("Number of lines from the end of the log to return"),
				mcp.Min(1),
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
			jobID, err := RequiredInt(request, "job_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			tailLines, err := OptionalIntParamWithDefault(request, "tail_lines", defaultTailLines)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if tailLines < 1 {
				return mcp.NewToolResultError("tail_lines must be at least 1"), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}

			logURL, resp, err := client.Actions.GetWorkflowJobLogs(ctx, owner, repo, int64(jobID), 1)
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to get logs for job %d in %s/%s", jobID, owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, logURL.String(), nil)
			if err != nil {
				return nil, fmt.Errorf("failed to create log download request: %w", err)
			}
			// Log storage URLs are pre-signed, no auth header wanted
			httpResp, err := logDownloadClient.Do(httpReq)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to download job logs: %v", err)), nil
			}
			defer func() { _ = httpResp.Body.Close() }()
			if httpResp.StatusCode != http.StatusOK {
				return mcp.NewToolResultError(fmt.Sprintf("failed to download job logs: HTTP %d", httpResp.StatusCode)), nil
			}

			tail, totalLines, err := buffer.Tail(httpResp.Body, tailLines)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to read job logs: %v", err)), nil
			}

			return MarshalledTextResult(map[string]any{
				"job_id":         jobID,
				"total_lines":    totalLines,
				"returned_lines": min(totalLines, tailLines),
				"logs":           tail,
			}), nil
		}
}

func minimalWorkflowRun(run *github.WorkflowRun) MinimalWorkflowRun {
	minimal := MinimalWorkflowRun{
		ID:         run.GetID(),
		Name:       run.GetName(),
		Status:     run.GetStatus(),
		Conclusion: run.GetConclusion(),
		HeadBranch: run.GetHeadBranch(),
		Event:      run.GetEvent(),
		RunNumber:  run.GetRunNumber(),
		HTMLURL:    run.GetHTMLURL(),
	}
	if run.CreatedAt != nil {
		minimal.CreatedAt = run.GetCreatedAt().Format("2006-01-02T15:04:05Z")
	}
	if run.UpdatedAt != nil {
		minimal.UpdatedAt = run.GetUpdatedAt().Format("2006-01-02T15:04:05Z")
	}
	return minimal
}
