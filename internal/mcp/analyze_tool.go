package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"stacklens/internal/analyze"
	"stacklens/internal/config"
)

// ErrorAnalyzer is the interface for stack-trace correlation operations.
type ErrorAnalyzer interface {
	AnalyzeError(ctx context.Context, req *analyze.Request) *analyze.Result
	BuildCallGraph(ctx context.Context, req *analyze.CallGraphRequest) *analyze.CallGraphResult
}

// AddAnalyzeJavaErrorTool registers the analyze_java_error tool with an MCP server.
func AddAnalyzeJavaErrorTool(s *server.MCPServer, analyzer ErrorAnalyzer, cfg *config.Config) {
	tool := mcp.NewTool(
		"analyze_java_error",
		mcp.WithDescription("Correlate a Java stack trace with the source code that produced it. Parses the trace, indexes the repository, walks the call graph around the throw site, and returns the root cause plus ranked related methods and exception handlers."),
		mcp.WithString("stacktrace",
			mcp.Required(),
			mcp.Description("The Java stack trace text, including the exception header and 'at ...' frames")),
		mcp.WithString("repo_url",
			mcp.Description("Git repository URL to clone and analyze (alternative to 'path')")),
		mcp.WithString("path",
			mcp.Description("Local directory containing the Java sources (alternative to 'repo_url')")),
		mcp.WithString("token",
			mcp.Description("Access token for private repositories (falls back to the configured token env var)")),
		mcp.WithNumber("depth",
			mcp.Description("Call-graph exploration depth from the throw site (min: 1, max: 10); omitted or below 1 uses the configured default")),
		mcp.WithNumber("max_files",
			mcp.Description("Maximum number of Java files to index (default from config)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createAnalyzeJavaErrorHandler(analyzer, cfg))
}

// createAnalyzeJavaErrorHandler creates the handler function for analyze_java_error.
func createAnalyzeJavaErrorHandler(analyzer ErrorAnalyzer, cfg *config.Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		stacktrace, ok := argsMap["stacktrace"].(string)
		if !ok || stacktrace == "" {
			return mcp.NewToolResultError("stacktrace parameter is required"), nil
		}

		repoURL, _ := argsMap["repo_url"].(string)
		path, _ := argsMap["path"].(string)
		if repoURL == "" && path == "" {
			return mcp.NewToolResultError("one of repo_url or path is required"), nil
		}
		if repoURL != "" && path != "" {
			return mcp.NewToolResultError("repo_url and path are mutually exclusive"), nil
		}

		req := &analyze.Request{
			RepoURL:        repoURL,
			Path:           path,
			Stacktrace:     stacktrace,
			Token:          resolveToken(argsMap, cfg),
			CloneDepth:     cfg.Git.CloneDepth,
			Depth:          cfg.Analysis.Depth,
			MaxFiles:       cfg.Analysis.MaxFiles,
			IgnorePatterns: cfg.Source.Ignore,
		}

		// Depth below 1 keeps the configured default: the analyzer
		// reserves non-positive values for "use the default", so a
		// root-only exploration is not reachable through this tool.
		if depth, ok := argsMap["depth"].(float64); ok && int(depth) >= 1 {
			d := int(depth)
			if d > 10 {
				d = 10
			}
			req.Depth = d
		}

		if maxFiles, ok := argsMap["max_files"].(float64); ok && int(maxFiles) > 0 {
			req.MaxFiles = int(maxFiles)
		}

		result := analyzer.AnalyzeError(ctx, req)

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// resolveToken prefers an explicit token argument over the configured
// environment variable.
func resolveToken(argsMap map[string]interface{}, cfg *config.Config) string {
	if token, ok := argsMap["token"].(string); ok && token != "" {
		return token
	}
	if cfg.Git.TokenEnv != "" {
		return os.Getenv(cfg.Git.TokenEnv)
	}
	return ""
}
