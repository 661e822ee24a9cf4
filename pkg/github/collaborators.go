package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v69/github"
	ghErrors "github.com/hubgate/github-mcp-server/pkg/errors"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ListCollaborators creates a tool to list collaborators on a repository.
func ListCollaborators(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("list_collaborators",
			mcp.WithDescription(t("TOOL_LIST_COLLABORATORS_DESCRIPTION", "List collaborators on a GitHub repository")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_LIST_COLLABORATORS_USER_TITLE", "List collaborators"),
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
			WithLimit(),
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
			limit, err := OptionalIntParam(request, "limit")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}

			var lastResp *github.Response
			collaborators, err := fetchAllPages(limit, func(page github.ListOptions) ([]*github.User, *github.Response, error) {
				opts := &github.ListCollaboratorsOptions{
					ListOptions: page,
				}
				items, resp, err := client.Repositories.ListCollaborators(ctx, owner, repo, opts)
				lastResp = resp
				return items, resp, err
			})
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to list collaborators in %s/%s", owner, repo),
					lastResp,
					err,
				), nil
			}

			minimal := make([]MinimalUser, 0, len(collaborators))
			for _, u := range collaborators {
				minimal = append(minimal, MinimalUser{
					Login:      u.GetLogin(),
					ID:         u.GetID(),
					ProfileURL: u.GetHTMLURL(),
					AvatarURL:  u.GetAvatarURL(),
				})
			}
			return MarshalledTextResult(minimal), nil
		}
}

// AddCollaborator creates a tool to add a collaborator to a repository.
func AddCollaborator(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("add_collaborator",
			mcp.WithDescription(t("TOOL_ADD_COLLABORATOR_DESCRIPTION", "Invite a user as a collaborator on a GitHub repository")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_ADD_COLLABORATOR_USER_TITLE", "Add collaborator"),
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
			mcp.WithString("username",
				mcp.Required(),
				mcp.Description("GitHub username to invite"),
			),
			mcp.WithString("permission",
				mcp.Description("Permission to grant"),
				mcp.Enum("pull", "push", "admin", "maintain", "triage"),
				mcp.DefaultString("push"),
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
			username, err := RequiredParam[string](request, "username")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			permission, err := OptionalParam[string](request, "permission")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if permission == "" {
				permission = "push"
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			opts := &github.RepositoryAddCollaboratorOptions{
				Permission: permission,
			}
			invitation, resp, err := client.Repositories.AddCollaborator(ctx, owner, repo, username, opts)
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to add collaborator %s to %s/%s", username, owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			// A 204 means the user was already a collaborator
			if resp.StatusCode == http.StatusNoContent {
				return mcp.NewToolResultText(fmt.Sprintf("%s is already a collaborator on %s/%s", username, owner, repo)), nil
			}
			return MarshalledTextResult(invitation), nil
		}
}

// RemoveCollaborator creates a tool to remove a collaborator from a repository.
func RemoveCollaborator(getClient GetClientFn, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("remove_collaborator",
			mcp.WithDescription(t("TOOL_REMOVE_COLLABORATOR_DESCRIPTION", "Remove a collaborator from a GitHub repository")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_REMOVE_COLLABORATOR_USER_TITLE", "Remove collaborator"),
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
			mcp.WithString("username",
				mcp.Required(),
				mcp.Description("GitHub username to remove"),
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
			username, err := RequiredParam[string](request, "username")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get GitHub client: %w", err)
			}
			resp, err := client.Repositories.RemoveCollaborator(ctx, owner, repo, username)
			if err != nil {
				return ghErrors.NewGitHubAPIErrorResponse(ctx,
					fmt.Sprintf("failed to remove collaborator %s from %s/%s", username, owner, repo),
					resp,
					err,
				), nil
			}
			defer func() { _ = resp.Body.Close() }()

			return mcp.NewToolResultText(fmt.Sprintf("Removed %s from %s/%s", username, owner, repo)), nil
		}
}
