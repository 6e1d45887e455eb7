package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"stacklens/internal/analyze"
	"stacklens/internal/config"
	"stacklens/internal/repo"
)

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config   *config.Config
	analyzer *analyze.Analyzer
	mcp      *server.MCPServer
}

// NewMCPServer creates a new MCP server exposing the analysis tools.
func NewMCPServer(cfg *config.Config) (*MCPServer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	analyzer := analyze.New(repo.NewProvider())

	mcpServer := server.NewMCPServer(
		"stacklens-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddAnalyzeJavaErrorTool(mcpServer, analyzer, cfg)
	AddBuildCallGraphTool(mcpServer, analyzer, cfg)

	return &MCPServer{
		config:   cfg,
		analyzer: analyzer,
		mcp:      mcpServer,
	}, nil
}

// Serve starts the MCP server and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
