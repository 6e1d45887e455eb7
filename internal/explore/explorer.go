// Package explore walks the request's call graph outward from a root
// method, classifies method bodies with textual heuristics, and ranks
// the findings by relevance to the failure.
package explore

import (
	"stacklens/internal/index"
)

// DefaultDepth is how far the bidirectional search expands from the
// root method when the caller does not say otherwise.
const DefaultDepth = 2

// MethodSet is the ordered result of a relevance exploration. Iteration
// order is traversal order, which downstream ranking relies on for
// stable tie-breaking.
type MethodSet struct {
	keys    []string
	methods map[string]index.Method
}

// Keys returns the method keys in traversal order.
func (s *MethodSet) Keys() []string {
	return s.keys
}

// Method returns the descriptor for a key in the set.
func (s *MethodSet) Method(key string) (index.Method, bool) {
	m, ok := s.methods[key]
	return m, ok
}

// Len returns the number of methods in the set.
func (s *MethodSet) Len() int {
	return len(s.keys)
}

// Related performs a depth-bounded bidirectional search from rootKey:
// forward along recorded callees, backward along the caller reverse
// index. The visited check precedes every expansion; call graphs contain
// cycles and the search must terminate on them. Depth counts identically
// in both directions.
func Related(idx *index.Index, rootKey string, maxDepth int) *MethodSet {
	set := &MethodSet{methods: make(map[string]index.Method)}
	visited := make(map[string]bool)

	var visit func(key string, depth int)
	visit = func(key string, depth int) {
		if depth > maxDepth || visited[key] {
			return
		}
		visited[key] = true

		// Keys without a MethodMap entry (unresolved call targets) are
		// traversed but not collected.
		if m, ok := idx.Method(key); ok {
			set.keys = append(set.keys, key)
			set.methods[key] = m
		}

		for _, callee := range idx.Callees(key) {
			visit(callee, depth+1)
		}
		for _, caller := range idx.Callers(key) {
			visit(caller, depth+1)
		}
	}

	visit(rootKey, 0)
	return set
}
