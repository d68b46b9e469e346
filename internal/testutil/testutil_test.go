package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/jsast/internal/parser"
)

const sample = `function outer() {
  const inner = () => 1;
  return inner();
}

class Shape {
  area() { return 0; }
}
`

func TestCreateTestAST(t *testing.T) {
	ast := CreateTestAST(t, sample)
	AssertEqual(t, parser.NodeProgram, ast.Type)

	// function, arrow, method
	AssertEqual(t, 3, CountFunctionsInAST(ast))
	AssertEqual(t, 1, CountNodesOfType(ast, parser.NodeClassDeclaration))

	if fn := FindFunctionInAST(ast, "outer"); fn == nil {
		t.Error("Expected to find function outer")
	}
	if fn := FindFunctionInAST(ast, "missing"); fn != nil {
		t.Errorf("Expected no function named missing, got %s", fn)
	}
}

func TestCreateTestASTAs(t *testing.T) {
	ast := CreateTestASTAs(t, "type ID = string;\nlet id: ID = 'a';", parser.SourceTS)
	AssertEqual(t, 1, CountNodesOfType(ast, parser.NodeTSTypeAliasDeclaration))
}

func TestCreateTestASTNoFail(t *testing.T) {
	ast, err := CreateTestASTNoFail("let x = 1;")
	AssertNoError(t, err)
	if ast == nil {
		t.Fatal("Expected a program node")
	}
	AssertEqual(t, 1, CountNodesOfType(ast, parser.NodeVariableDeclaration))
}

func TestCollectWalk(t *testing.T) {
	ast := CreateTestAST(t, "a;")
	got := CollectWalk(ast, parser.WalkOptions{})
	want := []string{"0:Program", "1:ExpressionStatement", "2:Identifier"}

	AssertEqual(t, len(want), len(got))
	for i := range want {
		AssertEqual(t, want[i], got[i])
	}
}

func TestWriteSourceTree(t *testing.T) {
	dir := t.TempDir()
	WriteSourceTree(t, dir, map[string]string{
		"src/a.js":     "a;",
		"src/lib/b.ts": "b;",
	})

	content, err := os.ReadFile(filepath.Join(dir, "src", "lib", "b.ts"))
	AssertNoError(t, err)
	AssertEqual(t, "b;", string(content))

	_, err = os.Stat(filepath.Join(dir, "src", "missing.js"))
	AssertError(t, err)
}
