package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stacklens/internal/analyze"
	"stacklens/internal/config"
)

// fakeAnalyzer records the last request and returns canned results.
type fakeAnalyzer struct {
	lastAnalyze   *analyze.Request
	lastCallGraph *analyze.CallGraphRequest
}

func (f *fakeAnalyzer) AnalyzeError(_ context.Context, req *analyze.Request) *analyze.Result {
	f.lastAnalyze = req
	return &analyze.Result{Status: analyze.StatusSuccess, AnalysisID: "test-id"}
}

func (f *fakeAnalyzer) BuildCallGraph(_ context.Context, req *analyze.CallGraphRequest) *analyze.CallGraphResult {
	f.lastCallGraph = req
	return &analyze.CallGraphResult{Status: analyze.StatusSuccess, ClassName: req.ClassName}
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestAnalyzeHandler_RequiresStacktrace(t *testing.T) {
	handler := createAnalyzeJavaErrorHandler(&fakeAnalyzer{}, config.Default())

	result, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"path": "/tmp/project",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "stacktrace")
}

func TestAnalyzeHandler_RequiresSource(t *testing.T) {
	handler := createAnalyzeJavaErrorHandler(&fakeAnalyzer{}, config.Default())

	result, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "repo_url or path")
}

func TestAnalyzeHandler_RejectsBothSources(t *testing.T) {
	handler := createAnalyzeJavaErrorHandler(&fakeAnalyzer{}, config.Default())

	result, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
		"repo_url":   "https://example.com/repo.git",
		"path":       "/tmp/project",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "mutually exclusive")
}

func TestAnalyzeHandler_AppliesConfigDefaults(t *testing.T) {
	fake := &fakeAnalyzer{}
	cfg := config.Default()
	cfg.Analysis.Depth = 4
	cfg.Analysis.MaxFiles = 1234
	cfg.Git.CloneDepth = 7
	handler := createAnalyzeJavaErrorHandler(fake, cfg)

	result, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
		"path":       "/tmp/project",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.NotNil(t, fake.lastAnalyze)
	assert.Equal(t, 4, fake.lastAnalyze.Depth)
	assert.Equal(t, 1234, fake.lastAnalyze.MaxFiles)
	assert.Equal(t, 7, fake.lastAnalyze.CloneDepth)
	assert.Equal(t, cfg.Source.Ignore, fake.lastAnalyze.IgnorePatterns)
}

func TestAnalyzeHandler_ClampsDepth(t *testing.T) {
	fake := &fakeAnalyzer{}
	handler := createAnalyzeJavaErrorHandler(fake, config.Default())

	_, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
		"path":       "/tmp/project",
		"depth":      float64(99),
	}))
	require.NoError(t, err)

	require.NotNil(t, fake.lastAnalyze)
	assert.Equal(t, 10, fake.lastAnalyze.Depth)
}

func TestAnalyzeHandler_ZeroDepthKeepsConfigDefault(t *testing.T) {
	fake := &fakeAnalyzer{}
	cfg := config.Default()
	cfg.Analysis.Depth = 4
	handler := createAnalyzeJavaErrorHandler(fake, cfg)

	_, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
		"path":       "/tmp/project",
		"depth":      float64(0),
	}))
	require.NoError(t, err)

	require.NotNil(t, fake.lastAnalyze)
	assert.Equal(t, 4, fake.lastAnalyze.Depth)
}

func TestAnalyzeHandler_TokenFallsBackToEnv(t *testing.T) {
	fake := &fakeAnalyzer{}
	cfg := config.Default()
	cfg.Git.TokenEnv = "STACKLENS_TEST_TOKEN"
	t.Setenv("STACKLENS_TEST_TOKEN", "env-secret")
	handler := createAnalyzeJavaErrorHandler(fake, cfg)

	_, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
		"repo_url":   "https://example.com/repo.git",
	}))
	require.NoError(t, err)

	require.NotNil(t, fake.lastAnalyze)
	assert.Equal(t, "env-secret", fake.lastAnalyze.Token)
}

func TestAnalyzeHandler_ExplicitTokenWins(t *testing.T) {
	fake := &fakeAnalyzer{}
	cfg := config.Default()
	cfg.Git.TokenEnv = "STACKLENS_TEST_TOKEN"
	t.Setenv("STACKLENS_TEST_TOKEN", "env-secret")
	handler := createAnalyzeJavaErrorHandler(fake, cfg)

	_, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
		"repo_url":   "https://example.com/repo.git",
		"token":      "arg-secret",
	}))
	require.NoError(t, err)

	require.NotNil(t, fake.lastAnalyze)
	assert.Equal(t, "arg-secret", fake.lastAnalyze.Token)
}

func TestAnalyzeHandler_ReturnsResultJSON(t *testing.T) {
	handler := createAnalyzeJavaErrorHandler(&fakeAnalyzer{}, config.Default())

	result, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"stacktrace": "java.lang.NullPointerException",
		"path":       "/tmp/project",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, "test-id", decoded["analysis_id"])
}

func TestCallGraphHandler_RequiresClassName(t *testing.T) {
	handler := createBuildCallGraphHandler(&fakeAnalyzer{}, config.Default())

	result, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"path": "/tmp/project",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "class_name")
}

func TestCallGraphHandler_Delegates(t *testing.T) {
	fake := &fakeAnalyzer{}
	handler := createBuildCallGraphHandler(fake, config.Default())

	result, err := handler(context.Background(), toolRequest(map[string]interface{}{
		"class_name": "OrderService",
		"path":       "/tmp/project",
		"max_files":  float64(10),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.NotNil(t, fake.lastCallGraph)
	assert.Equal(t, "OrderService", fake.lastCallGraph.ClassName)
	assert.Equal(t, 10, fake.lastCallGraph.MaxFiles)
}

func TestNewMCPServer_DefaultsWhenNil(t *testing.T) {
	s, err := NewMCPServer(nil)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestNewMCPServer_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Depth = -1

	_, err := NewMCPServer(cfg)
	require.Error(t, err)
}
