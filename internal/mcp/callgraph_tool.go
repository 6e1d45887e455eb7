package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"stacklens/internal/analyze"
	"stacklens/internal/config"
)

// AddBuildCallGraphTool registers the build_call_graph tool with an MCP server.
func AddBuildCallGraphTool(s *server.MCPServer, analyzer ErrorAnalyzer, cfg *config.Config) {
	tool := mcp.NewTool(
		"build_call_graph",
		mcp.WithDescription("Build the method call graph for a single Java class. Returns each declared method with the calls its body makes, plus graph-wide node and edge counts."),
		mcp.WithString("class_name",
			mcp.Required(),
			mcp.Description("Class to inspect; fully qualified or a simple-name suffix (e.g. 'com.shop.OrderService' or 'OrderService')")),
		mcp.WithString("repo_url",
			mcp.Description("Git repository URL to clone and analyze (alternative to 'path')")),
		mcp.WithString("path",
			mcp.Description("Local directory containing the Java sources (alternative to 'repo_url')")),
		mcp.WithString("token",
			mcp.Description("Access token for private repositories (falls back to the configured token env var)")),
		mcp.WithNumber("max_files",
			mcp.Description("Maximum number of Java files to index (default from config)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createBuildCallGraphHandler(analyzer, cfg))
}

// createBuildCallGraphHandler creates the handler function for build_call_graph.
func createBuildCallGraphHandler(analyzer ErrorAnalyzer, cfg *config.Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		className, ok := argsMap["class_name"].(string)
		if !ok || className == "" {
			return mcp.NewToolResultError("class_name parameter is required"), nil
		}

		repoURL, _ := argsMap["repo_url"].(string)
		path, _ := argsMap["path"].(string)
		if repoURL == "" && path == "" {
			return mcp.NewToolResultError("one of repo_url or path is required"), nil
		}
		if repoURL != "" && path != "" {
			return mcp.NewToolResultError("repo_url and path are mutually exclusive"), nil
		}

		req := &analyze.CallGraphRequest{
			RepoURL:        repoURL,
			Path:           path,
			ClassName:      className,
			Token:          resolveToken(argsMap, cfg),
			CloneDepth:     cfg.Git.CloneDepth,
			MaxFiles:       cfg.Analysis.MaxFiles,
			IgnorePatterns: cfg.Source.Ignore,
		}

		if maxFiles, ok := argsMap["max_files"].(float64); ok && int(maxFiles) > 0 {
			req.MaxFiles = int(maxFiles)
		}

		result := analyzer.BuildCallGraph(ctx, req)

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
