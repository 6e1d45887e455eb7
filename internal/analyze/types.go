package analyze

import (
	"stacklens/internal/repo"
	"stacklens/internal/stacktrace"
)

// Request statuses. Every failure path resolves to one of these; no
// failure propagates past the request boundary unhandled.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Request describes one correlation request.
type Request struct {
	RepoURL    string // remote repository to clone
	Path       string // or an existing local checkout
	Token      string // optional auth token for https remotes
	CloneDepth int    // shallow clone depth, 0 means the default

	Stacktrace string // raw exception text

	Depth          int // exploration depth, 0 means the default
	MaxFiles       int // indexing cap, 0 means the default
	IgnorePatterns []string

	OnFile func(path string) // optional per-file progress callback
}

// RootCause identifies the throw-site method from frame zero.
type RootCause struct {
	Class  string `json:"class"`
	Method string `json:"method"`
	Line   int    `json:"line"`
}

// RelatedMethod is one ranked correlation candidate.
type RelatedMethod struct {
	Class                string           `json:"class"`
	Method               string           `json:"method"`
	Weight               int              `json:"weight"`
	FilePath             string           `json:"file_path"`
	HasExceptionHandling bool             `json:"has_exception_handling"`
	HasNullCheck         bool             `json:"has_null_check"`
	LastCommit           *repo.CommitInfo `json:"last_commit,omitempty"`
}

// Handler is a method that appears to catch the thrown exception type.
type Handler struct {
	Class    string `json:"class"`
	Method   string `json:"method"`
	FilePath string `json:"file_path"`
}

// Result is the structured correlation output.
type Result struct {
	Status            string                    `json:"status"`
	Message           string                    `json:"message,omitempty"`
	ExceptionInfo     *stacktrace.ExceptionInfo `json:"exception_info,omitempty"`
	RootCause         *RootCause                `json:"root_cause,omitempty"`
	RelatedMethods    []RelatedMethod           `json:"related_methods"`
	ExceptionHandlers []Handler                 `json:"exception_handlers"`

	AnalysisID string `json:"analysis_id"`
	TookMs     int64  `json:"took_ms"`
}

// CallGraphRequest asks for the per-class call graph of one class.
type CallGraphRequest struct {
	RepoURL    string
	Path       string
	Token      string
	CloneDepth int

	ClassName string // qualified, or a simple name suffix-matched

	MaxFiles       int
	IgnorePatterns []string
}

// CallGraphResult maps a class's methods to their recorded call targets.
type CallGraphResult struct {
	Status    string                         `json:"status"`
	Message   string                         `json:"message,omitempty"`
	ClassName string                         `json:"class_name"`
	CallGraph map[string]map[string][]string `json:"call_graph,omitempty"`

	GraphNodes int `json:"graph_nodes"`
	GraphEdges int `json:"graph_edges"`
}
