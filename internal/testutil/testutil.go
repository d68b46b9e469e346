// Package testutil provides helper functions for testing jsast components
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/jsast/internal/parser"
)

// CreateTestAST parses JavaScript module source and fails the test on error
func CreateTestAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	return CreateTestASTAs(t, source, parser.SourceModule)
}

// CreateTestASTAs parses source with the given grammar
func CreateTestASTAs(t *testing.T, source string, st parser.SourceType) *parser.Node {
	t.Helper()
	result, err := parser.ParseSource(context.Background(), []byte(source), st)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return result.Program
}

// CreateTestASTNoFail parses source, returning the error instead of failing
func CreateTestASTNoFail(source string) (*parser.Node, error) {
	result, err := parser.ParseSource(context.Background(), []byte(source), parser.SourceModule)
	if err != nil {
		return nil, err
	}
	return result.Program, nil
}

// CollectWalk renders every (node, depth) pair of a walk as "depth:Type"
func CollectWalk(root *parser.Node, opts parser.WalkOptions) []string {
	var out []string
	for n, depth := range parser.Walk(root, opts) {
		out = append(out, fmt.Sprintf("%d:%s", depth, n.Type))
	}
	return out
}

// WriteSourceTree creates files under dir from a path -> content map
func WriteSourceTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// FindFunctionInAST finds a function node by name in the AST
func FindFunctionInAST(ast *parser.Node, name string) *parser.Node {
	return parser.Find(ast, func(n *parser.Node) bool {
		return n.IsFunction() && n.Name == name
	})
}

// CountFunctionsInAST counts the number of functions in an AST
func CountFunctionsInAST(ast *parser.Node) int {
	count := 0
	for n := range parser.Walk(ast, parser.WalkOptions{}) {
		if n.IsFunction() {
			count++
		}
	}
	return count
}

// CountNodesOfType counts nodes of a specific type in an AST
func CountNodesOfType(ast *parser.Node, nodeType parser.NodeType) int {
	return len(parser.FindAll(ast, nodeType))
}
