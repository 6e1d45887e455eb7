package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stacklens/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for stack-trace analysis",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered
coding assistants analyze Java stack traces against a repository.

The MCP server:
- Exposes the analyze_java_error and build_call_graph tools
- Clones remote repositories or reads local checkouts per request
- Communicates via stdio (standard MCP transport)

Example:
  stacklens mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Stacklens MCP Server\n\n")

	server, err := mcp.NewMCPServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(context.Background()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
