// Package javasrc extracts the structural subset of Java source that
// stack-trace correlation needs: top-level classes, their directly
// declared methods, and the qualified method invocations inside each
// method body.
package javasrc

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// File is the structure extracted from one Java compilation unit.
type File struct {
	Package string
	Classes []Class
}

// Class is a class declared directly at the top level of a file.
// Nested classes, interfaces, and enums are intentionally not extracted.
type Class struct {
	Name      string
	StartLine int
	EndLine   int
	Methods   []Method
}

// Method is a method declared directly on a class.
type Method struct {
	Name      string
	Body      string // stringified body block; empty for abstract methods
	Calls     []Call
	StartLine int
	EndLine   int
}

// Call is a method invocation written with an explicit qualifier, e.g.
// "repo" in repo.save(x). The qualifier is the literal source text of
// the receiver, not a resolved type.
type Call struct {
	Qualifier string
	Member    string
}

// Key returns the call-graph key for the invocation target.
func (c Call) Key() string {
	return c.Qualifier + "." + c.Member
}

var javaLanguage = sitter.NewLanguage(java.Language())

// Parse parses Java source into its extracted structure.
// Returns an error when tree-sitter cannot produce a tree; syntax errors
// inside an otherwise parseable file do not fail the extraction.
func Parse(source []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(javaLanguage)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter produced no syntax tree")
	}
	defer tree.Close()

	root := tree.RootNode()

	file := &File{
		Package: extractPackageName(root, source),
	}

	// Only direct children of the compilation unit register: nested and
	// inner classes stay out of the class map.
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		if child.Kind() == "class_declaration" {
			if cls, ok := extractClass(child, source); ok {
				file.Classes = append(file.Classes, cls)
			}
		}
	}

	return file, nil
}

// QualifiedName returns the package-qualified name of a class.
func (f *File) QualifiedName(className string) string {
	if f.Package == "" {
		return className
	}
	return f.Package + "." + className
}

// extractPackageName extracts the package name, if declared.
func extractPackageName(root *sitter.Node, source []byte) string {
	var name string
	walkTree(root, func(n *sitter.Node) bool {
		if n.Kind() == "package_declaration" {
			nameNode := findChildByType(n, "scoped_identifier")
			if nameNode == nil {
				nameNode = findChildByType(n, "identifier")
			}
			if nameNode != nil {
				name = extractNodeText(nameNode, source)
			}
			return false
		}
		return true
	})
	return name
}

// extractClass extracts a class declaration and its direct methods.
func extractClass(node *sitter.Node, source []byte) (Class, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Class{}, false
	}

	cls := Class{
		Name:      extractNodeText(nameNode, source),
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}

	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return cls, true
	}

	for i := 0; i < int(bodyNode.ChildCount()); i++ {
		child := bodyNode.Child(uint(i))
		if child.Kind() == "method_declaration" {
			if m, ok := extractMethod(child, source); ok {
				cls.Methods = append(cls.Methods, m)
			}
		}
	}

	return cls, true
}

// extractMethod extracts one method declaration with its body text and
// qualified invocations.
func extractMethod(node *sitter.Node, source []byte) (Method, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Method{}, false
	}

	m := Method{
		Name:      extractNodeText(nameNode, source),
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}

	bodyNode := node.ChildByFieldName("body")
	if bodyNode != nil {
		m.Body = extractNodeText(bodyNode, source)
		m.Calls = collectCalls(bodyNode, source)
	}

	return m, true
}

// collectCalls walks a method body and collects every invocation that
// carries an explicit receiver or class-name qualifier. Unqualified
// same-class calls are not recorded.
func collectCalls(body *sitter.Node, source []byte) []Call {
	var calls []Call

	walkTree(body, func(n *sitter.Node) bool {
		if n.Kind() != "method_invocation" {
			return true
		}

		object := n.ChildByFieldName("object")
		name := n.ChildByFieldName("name")
		if object == nil || name == nil {
			return true
		}

		// Only plain identifiers and dotted names count as qualifiers.
		// Chained calls like repo.find().get() would stringify the whole
		// receiver expression, which is not a usable graph key.
		switch object.Kind() {
		case "identifier", "field_access", "scoped_identifier":
			calls = append(calls, Call{
				Qualifier: extractNodeText(object, source),
				Member:    extractNodeText(name, source),
			})
		}
		return true
	})

	return calls
}

// walkTree recursively walks a tree-sitter tree and calls the visitor
// for each node. Returning false from the visitor stops recursion into
// that node's children. Every node variant exposes the same ordered
// child enumeration, so the walker never inspects node shape.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
