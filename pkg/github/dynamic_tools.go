package github

import (
	"context"
	"fmt"

	"github.com/hubgate/github-mcp-server/pkg/toolsets"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolsetEnum provides the toolset name parameter restricted to the names
// registered in the group.
func ToolsetEnum(toolsetGroup *toolsets.ToolsetGroup) mcp.PropertyOption {
	toolsetNames := make([]string, 0, len(toolsetGroup.Toolsets))
	for name := range toolsetGroup.Toolsets {
		toolsetNames = append(toolsetNames, name)
	}
	return mcp.Enum(toolsetNames...)
}

// ListAvailableToolsets creates a tool to list all toolsets and whether they
// are currently enabled.
func ListAvailableToolsets(toolsetGroup *toolsets.ToolsetGroup, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("list_available_toolsets",
			mcp.WithDescription(t("TOOL_LIST_AVAILABLE_TOOLSETS_DESCRIPTION", "List all available toolsets this GitHub MCP server can offer, providing the enabled status of each")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_LIST_AVAILABLE_TOOLSETS_USER_TITLE", "List available toolsets"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			payload := []map[string]string{}
			for name, ts := range toolsetGroup.Toolsets {
				payload = append(payload, map[string]string{
					"name":              name,
					"description":       ts.Description,
					"currently_enabled": fmt.Sprintf("%t", ts.Enabled),
				})
			}
			return MarshalledTextResult(payload), nil
		}
}

// GetToolsetTools creates a tool to list the tools a given toolset provides.
func GetToolsetTools(toolsetGroup *toolsets.ToolsetGroup, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("get_toolset_tools",
			mcp.WithDescription(t("TOOL_GET_TOOLSET_TOOLS_DESCRIPTION", "List all the tools in a toolset")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_GET_TOOLSET_TOOLS_USER_TITLE", "Get toolset tools"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("toolset",
				mcp.Required(),
				mcp.Description("The name of the toolset to list tools for"),
				ToolsetEnum(toolsetGroup),
			),
		),
		func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			toolsetName, err := RequiredParam[string](request, "toolset")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			toolset := toolsetGroup.Toolsets[toolsetName]
			if toolset == nil {
				return mcp.NewToolResultError(fmt.Sprintf("toolset %s does not exist", toolsetName)), nil
			}

			payload := []map[string]string{}
			for _, st := range toolset.GetAvailableTools() {
				payload = append(payload, map[string]string{
					"name":        st.Tool.Name,
					"description": st.Tool.Description,
					"toolset":     toolsetName,
				})
			}
			return MarshalledTextResult(payload), nil
		}
}

// EnableToolset creates a tool to enable a toolset at runtime, registering
// its tools with the running server.
func EnableToolset(s *server.MCPServer, toolsetGroup *toolsets.ToolsetGroup, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("enable_toolset",
			mcp.WithDescription(t("TOOL_ENABLE_TOOLSET_DESCRIPTION", "Enable one of the sets of tools the GitHub MCP server provides")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_ENABLE_TOOLSET_USER_TITLE", "Enable a toolset"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("toolset",
				mcp.Required(),
				mcp.Description("The name of the toolset to enable"),
				ToolsetEnum(toolsetGroup),
			),
		),
		func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			toolsetName, err := RequiredParam[string](request, "toolset")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			toolset := toolsetGroup.Toolsets[toolsetName]
			if toolset == nil {
				return mcp.NewToolResultError(fmt.Sprintf("toolset %s does not exist", toolsetName)), nil
			}
			if toolset.Enabled {
				return mcp.NewToolResultText(fmt.Sprintf("Toolset %s is already enabled", toolsetName)), nil
			}

			toolset.Enabled = true
			toolset.RegisterTools(s)
			return mcp.NewToolResultText(fmt.Sprintf("Toolset %s enabled", toolsetName)), nil
		}
}
