// Package analyze composes the correlation pipeline for one request:
// parse the trace, index the sources, explore outward from the throw
// site, locate handlers, and rank the related methods.
package analyze

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"stacklens/internal/explore"
	"stacklens/internal/index"
	"stacklens/internal/repo"
	"stacklens/internal/stacktrace"
)

// Analyzer runs correlation requests. It holds no per-request state;
// every request builds a fresh index, so an Analyzer is safe for
// concurrent use.
type Analyzer struct {
	provider repo.Provider
	now      func() time.Time
}

// New creates an analyzer backed by the given source provider.
func New(provider repo.Provider) *Analyzer {
	return &Analyzer{
		provider: provider,
		now:      time.Now,
	}
}

// AnalyzeError correlates a stack trace with the request's source tree.
// Failures are reported through the result status, never as a panic or
// an unhandled error: per-file problems are logged and skipped, and only
// total absence of usable input ends the request early.
func (a *Analyzer) AnalyzeError(ctx context.Context, req *Request) *Result {
	start := a.now()
	result := &Result{
		Status:            StatusSuccess,
		RelatedMethods:    []RelatedMethod{},
		ExceptionHandlers: []Handler{},
		AnalysisID:        uuid.NewString(),
	}
	defer func() {
		result.TookMs = a.now().Sub(start).Milliseconds()
	}()

	info := stacktrace.Parse(req.Stacktrace)
	result.ExceptionInfo = info

	if !info.HasFrames() {
		result.Status = StatusError
		result.Message = "no stack frames could be parsed from the trace"
		return result
	}

	ws, err := a.provider.Acquire(ctx, repo.Source{
		RepoURL:    req.RepoURL,
		Path:       req.Path,
		Token:      req.Token,
		CloneDepth: req.CloneDepth,
	})
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("failed to acquire sources: %v", err)
		return result
	}
	defer ws.Close()

	files, err := ws.JavaFiles(req.IgnorePatterns)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("failed to scan sources: %v", err)
		return result
	}
	if len(files) == 0 {
		result.Status = StatusWarning
		result.Message = "no Java files found in the source tree"
		return result
	}

	idx, err := index.Build(ctx, files, index.Options{
		MaxFiles: req.MaxFiles,
		OnFile:   req.OnFile,
	})
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("indexing failed: %v", err)
		return result
	}

	depth := req.Depth
	if depth <= 0 {
		depth = explore.DefaultDepth
	}

	root := info.Frames[0]
	result.RootCause = &RootCause{
		Class:  root.ClassName,
		Method: root.MethodName,
		Line:   root.LineNumber,
	}

	rootKey := root.ClassName + "." + root.MethodName
	related := explore.Related(idx, rootKey, depth)

	commits, flags := a.inspectMethods(ws, related)

	ranked := explore.Rank(idx, related, commits, flags, a.now())
	for _, rm := range ranked {
		result.RelatedMethods = append(result.RelatedMethods, RelatedMethod{
			Class:                rm.Method.ClassName,
			Method:               rm.Method.MethodName,
			Weight:               rm.Weight,
			FilePath:             rm.Method.FilePath,
			HasExceptionHandling: rm.Flags.HasExceptionHandling,
			HasNullCheck:         rm.Flags.HasNullCheck,
			LastCommit:           rm.LastCommit,
		})
	}

	if info.ExceptionType != "" {
		for _, h := range explore.FindHandlers(idx, root.ClassName, simpleName(info.ExceptionType)) {
			result.ExceptionHandlers = append(result.ExceptionHandlers, Handler{
				Class:    h.ClassName,
				Method:   h.MethodName,
				FilePath: h.FilePath,
			})
		}
	}

	return result
}

// inspectMethods gathers per-file commit metadata and per-method body
// flags for the explored set. Files are read once each; a method whose
// body cannot be located simply carries zero flags.
func (a *Analyzer) inspectMethods(ws *repo.Workspace, related *explore.MethodSet) (map[string]*repo.CommitInfo, map[string]explore.BodyFlags) {
	commits := make(map[string]*repo.CommitInfo)
	contents := make(map[string]string)
	flags := make(map[string]explore.BodyFlags)

	for _, key := range related.Keys() {
		m, ok := related.Method(key)
		if !ok {
			continue
		}

		content, seen := contents[m.FilePath]
		if !seen {
			var err error
			content, err = repo.ReadFile(m.FilePath)
			if err != nil {
				log.Printf("failed to read %s while inspecting methods: %v", m.FilePath, err)
				content = ""
			}
			contents[m.FilePath] = content
			commits[m.FilePath] = ws.LastCommit(m.FilePath)
		}

		if content == "" {
			continue
		}
		if body, ok := explore.ExtractMethodBody(content, m.MethodName); ok {
			flags[key] = explore.ClassifyBody(body)
		}
	}

	return commits, flags
}

// BuildCallGraph extracts the call graph of a single class: each of its
// declared methods mapped to the qualified invocation targets recorded
// in its body.
func (a *Analyzer) BuildCallGraph(ctx context.Context, req *CallGraphRequest) *CallGraphResult {
	result := &CallGraphResult{
		Status:    StatusSuccess,
		ClassName: req.ClassName,
	}

	if req.ClassName == "" {
		result.Status = StatusError
		result.Message = "class_name is required"
		return result
	}

	ws, err := a.provider.Acquire(ctx, repo.Source{
		RepoURL:    req.RepoURL,
		Path:       req.Path,
		Token:      req.Token,
		CloneDepth: req.CloneDepth,
	})
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("failed to acquire sources: %v", err)
		return result
	}
	defer ws.Close()

	files, err := ws.JavaFiles(req.IgnorePatterns)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("failed to scan sources: %v", err)
		return result
	}
	if len(files) == 0 {
		result.Status = StatusWarning
		result.Message = "no Java files found in the source tree"
		return result
	}

	idx, err := index.Build(ctx, files, index.Options{MaxFiles: req.MaxFiles})
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("indexing failed: %v", err)
		return result
	}
	result.GraphNodes, result.GraphEdges = idx.Stats()

	qualified, _, ok := idx.FindClass(req.ClassName)
	if !ok {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("class %s not found in the source tree", req.ClassName)
		return result
	}

	graph := make(map[string]map[string][]string)
	methods := make(map[string][]string)
	for _, key := range idx.MethodKeys() {
		m, _ := idx.Method(key)
		if m.ClassName != qualified {
			continue
		}
		callees := idx.Callees(key)
		if callees == nil {
			callees = []string{}
		}
		methods[m.MethodName] = callees
	}
	graph[qualified] = methods
	result.CallGraph = graph

	return result
}

// simpleName returns the final component of a qualified name.
func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
