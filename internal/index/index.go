// Package index builds the request-scoped class map, method map, and
// call graph from a set of Java source files. Nothing in here is shared
// across requests: every analysis constructs a fresh Index and discards
// it, so concurrent requests on different repositories cannot
// cross-contaminate.
package index

import (
	"sort"

	"github.com/dominikbraun/graph"

	"stacklens/internal/javasrc"
)

// Method describes one indexed method. Overloaded methods collapse onto
// a single descriptor keyed by "class.method"; parameters are not part
// of the key.
type Method struct {
	ClassName  string `json:"class_name"`
	MethodName string `json:"method_name"`
	FilePath   string `json:"file_path"`
}

// Key returns the method-map key.
func (m Method) Key() string {
	return m.ClassName + "." + m.MethodName
}

// Index holds the maps built from one request's source files.
type Index struct {
	classMap   map[string]string // qualified class name -> file path
	methodMap  map[string]Method // "class.method" -> descriptor
	methodKeys []string          // insertion order of methodMap keys

	callees   map[string][]string        // method key -> ordered callee keys
	calleeSet map[string]map[string]bool // dedupe for callees
	callers   map[string][]string        // reverse index, sorted

	g graph.Graph[string, string]
}

// newIndex creates an empty index.
func newIndex() *Index {
	return &Index{
		classMap:  make(map[string]string),
		methodMap: make(map[string]Method),
		callees:   make(map[string][]string),
		calleeSet: make(map[string]map[string]bool),
		callers:   make(map[string][]string),
		g:         graph.New(graph.StringHash, graph.Directed()),
	}
}

// addFile merges one parsed file into the index. Files must be merged
// in input order: when a qualified class name recurs across files, the
// most recently processed file wins.
func (idx *Index) addFile(file *javasrc.File, path string) {
	for _, cls := range file.Classes {
		qualified := file.QualifiedName(cls.Name)
		idx.classMap[qualified] = path

		for _, m := range cls.Methods {
			method := Method{
				ClassName:  qualified,
				MethodName: m.Name,
				FilePath:   path,
			}
			key := method.Key()
			if _, exists := idx.methodMap[key]; !exists {
				idx.methodKeys = append(idx.methodKeys, key)
			}
			idx.methodMap[key] = method

			if idx.calleeSet[key] == nil {
				idx.calleeSet[key] = make(map[string]bool)
				idx.callees[key] = []string{}
			}
			for _, call := range m.Calls {
				target := call.Key()
				if idx.calleeSet[key][target] {
					continue
				}
				idx.calleeSet[key][target] = true
				idx.callees[key] = append(idx.callees[key], target)
			}
		}
	}
}

// finalize mirrors the maps into the directed graph and derives the
// caller reverse index. Caller lists are sorted so that repeated runs
// over the same input produce identical traversal order.
func (idx *Index) finalize() error {
	for _, key := range idx.methodKeys {
		_ = idx.g.AddVertex(key)
	}
	for key, targets := range idx.callees {
		for _, target := range targets {
			_ = idx.g.AddVertex(target)
			_ = idx.g.AddEdge(key, target)
		}
	}

	predecessors, err := idx.g.PredecessorMap()
	if err != nil {
		return err
	}
	for target, sources := range predecessors {
		if len(sources) == 0 {
			continue
		}
		callers := make([]string, 0, len(sources))
		for source := range sources {
			callers = append(callers, source)
		}
		sort.Strings(callers)
		idx.callers[target] = callers
	}

	return nil
}

// ClassFile returns the file that declares the qualified class.
func (idx *Index) ClassFile(qualifiedName string) (string, bool) {
	path, ok := idx.classMap[qualifiedName]
	return path, ok
}

// FindClass resolves a class name that may be qualified or simple.
// Simple names match any registered class with that final component.
func (idx *Index) FindClass(name string) (qualified, path string, ok bool) {
	if p, found := idx.classMap[name]; found {
		return name, p, true
	}

	// Deterministic pick among suffix matches.
	keys := make([]string, 0, len(idx.classMap))
	for k := range idx.classMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	suffix := "." + name
	for _, k := range keys {
		if len(k) > len(suffix) && k[len(k)-len(suffix):] == suffix {
			return k, idx.classMap[k], true
		}
	}
	return "", "", false
}

// Method returns the descriptor for a method key.
func (idx *Index) Method(key string) (Method, bool) {
	m, ok := idx.methodMap[key]
	return m, ok
}

// MethodKeys returns all method keys in insertion order.
func (idx *Index) MethodKeys() []string {
	return idx.methodKeys
}

// Callees returns the outgoing call-graph edges for a method key.
func (idx *Index) Callees(key string) []string {
	return idx.callees[key]
}

// Callers returns the methods whose recorded callees include key.
func (idx *Index) Callers(key string) []string {
	return idx.callers[key]
}

// CallerCount returns the method's fan-in: distinct recorded callers.
func (idx *Index) CallerCount(key string) int {
	return len(idx.callers[key])
}

// Stats returns the call graph's node and edge counts.
func (idx *Index) Stats() (nodes, edges int) {
	nodes, _ = idx.g.Order()
	edges, _ = idx.g.Size()
	return nodes, edges
}
