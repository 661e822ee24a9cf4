package main

import (
	"context"
	"fmt"
	"sort"

	gogithub "github.com/google/go-github/v69/github"
	"github.com/hubgate/github-mcp-server/pkg/github"
	"github.com/hubgate/github-mcp-server/pkg/translations"
	"github.com/shurcooL/githubv4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listToolsCmd = &cobra.Command{
	Use:   "list-tools",
	Short: "List available MCP tools grouped by toolset",
	Long:  `Display all registered MCP tools, grouped by toolset. Respects the --toolsets and --read-only flags.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return listTools()
	},
}

func init() {
	rootCmd.AddCommand(listToolsCmd)
}

// Listing never calls the API, so the toolsets are built against unauthenticated
// placeholder clients.
func stubGetClient(_ context.Context) (*gogithub.Client, error) {
	return gogithub.NewClient(nil), nil
}

func stubGetGQLClient(_ context.Context) (*githubv4.Client, error) {
	return githubv4.NewClient(nil), nil
}

func listTools() error {
	var enabledToolsets []string
	if err := viper.UnmarshalKey("toolsets", &enabledToolsets); err != nil {
		return fmt.Errorf("failed to unmarshal toolsets: %w", err)
	}

	readOnly := viper.GetBool("read-only")

	t, _ := translations.TranslationHelper()

	tsg, err := github.InitToolsets(enabledToolsets, readOnly, stubGetClient, stubGetGQLClient, t)
	if err != nil {
		return fmt.Errorf("failed to initialize toolsets: %w", err)
	}

	var toolsetNames []string
	for name := range tsg.Toolsets {
		toolsetNames = append(toolsetNames, name)
	}
	sort.Strings(toolsetNames)

	for _, toolsetName := range toolsetNames {
		toolset := tsg.Toolsets[toolsetName]
		if !toolset.Enabled {
			continue
		}

		fmt.Printf("\nToolset: %s\n", toolsetName)
		fmt.Printf("Description: %s\n", toolset.Description)
		fmt.Println()

		tools := toolset.GetActiveTools()
		if len(tools) == 0 {
			fmt.Println("  No tools available")
			continue
		}

		sort.Slice(tools, func(i, j int) bool {
			return tools[i].Tool.Name < tools[j].Tool.Name
		})

		for _, serverTool := range tools {
			tool := serverTool.Tool
			fmt.Printf("- %s: %s\n", tool.Name, tool.Description)
		}
		fmt.Println()
	}

	return nil
}
