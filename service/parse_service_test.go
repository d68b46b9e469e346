package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/config"
	"github.com/ludo-technologies/jsast/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteSourceTree(t, dir, map[string]string{
		"src/math.js": "// adds two numbers\nexport function add(a, b) {\n  return a + b;\n}\n",
		"src/view.tsx": "type P = { title: string };\n" +
			"export const View = (p: P) => <h1>{p.title}</h1>;\n",
		"src/broken.js": "let = ;\n",
	})
	return dir
}

func TestParseService_Parse(t *testing.T) {
	dir := writeProject(t)
	paths := []string{
		filepath.Join(dir, "src/math.js"),
		filepath.Join(dir, "src/view.tsx"),
		filepath.Join(dir, "src/broken.js"),
	}

	resp, err := NewParseService().Parse(context.Background(), domain.ParseRequest{
		Paths:        paths,
		ShowComments: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Files, 3)

	for i, f := range resp.Files {
		assert.Equal(t, paths[i], f.FilePath, "files keep input order")
	}

	math := resp.Files[0]
	assert.True(t, math.Valid)
	assert.Equal(t, "module", math.SourceType)
	assert.Empty(t, math.Diagnostics)
	require.Len(t, math.Comments, 1)
	assert.Equal(t, " adds two numbers", math.Comments[0].Text)
	assert.Equal(t, 1, math.Comments[0].Line)
	assert.Equal(t, 1, math.Stats.Kinds["FunctionDeclaration"])
	assert.Empty(t, math.Nodes, "nodes are only listed when a tree is requested")

	view := resp.Files[1]
	assert.True(t, view.Valid)
	assert.Equal(t, "tsx", view.SourceType)
	assert.Positive(t, view.Stats.Kinds["JSXElement"])

	broken := resp.Files[2]
	assert.False(t, broken.Valid)
	assert.NotEmpty(t, broken.Diagnostics)

	assert.Equal(t, 3, resp.Summary.TotalFiles)
	assert.Equal(t, 2, resp.Summary.ValidFiles)
	assert.Equal(t, 1, resp.Summary.InvalidFiles)
	assert.Equal(t, math.Stats.TotalNodes+view.Stats.TotalNodes+broken.Stats.TotalNodes, resp.Summary.TotalNodes)
	assert.True(t, resp.HasInvalidFiles())
	assert.Empty(t, resp.Errors)
	assert.NotEmpty(t, resp.GeneratedAt)
}

func TestParseService_ShowTree(t *testing.T) {
	dir := writeProject(t)
	path := filepath.Join(dir, "src/math.js")

	resp, err := NewParseService().Parse(context.Background(), domain.ParseRequest{
		Paths:    []string{path},
		ShowTree: true,
		MaxDepth: 2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)

	nodes := resp.Files[0].Nodes
	require.NotEmpty(t, nodes)
	assert.Equal(t, "Program", nodes[0].Type)
	for _, n := range nodes {
		assert.LessOrEqual(t, n.Depth, 2)
	}
	assert.Empty(t, resp.Files[0].Comments, "comments are opt-in")
}

func TestParseService_LevelOrder(t *testing.T) {
	dir := writeProject(t)
	path := filepath.Join(dir, "src/math.js")

	resp, err := NewParseService().Parse(context.Background(), domain.ParseRequest{
		Paths:     []string{path},
		ShowTree:  true,
		WalkOrder: "level",
	})
	require.NoError(t, err)

	nodes := resp.Files[0].Nodes
	for i := 1; i < len(nodes); i++ {
		assert.GreaterOrEqual(t, nodes[i].Depth, nodes[i-1].Depth)
	}
}

func TestParseService_SourceTypeOverride(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSourceTree(t, dir, map[string]string{
		"typed.js": "let count: number = 1;\n",
	})
	path := filepath.Join(dir, "typed.js")
	svc := NewParseService()

	asJS, err := svc.ParseFile(context.Background(), path, domain.ParseRequest{})
	require.NoError(t, err)
	assert.False(t, asJS.Valid, "type annotations are not JavaScript")

	asTS, err := svc.ParseFile(context.Background(), path, domain.ParseRequest{SourceType: "ts"})
	require.NoError(t, err)
	assert.True(t, asTS.Valid)
	assert.Equal(t, "ts", asTS.SourceType)
}

func TestParseService_SkipsLargeFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSourceTree(t, dir, map[string]string{
		"big.js":   "const data = \"" + strings.Repeat("x", 2048) + "\";\n",
		"small.js": "x;\n",
	})

	resp, err := NewParseService().Parse(context.Background(), domain.ParseRequest{
		Paths:       []string{filepath.Join(dir, "big.js"), filepath.Join(dir, "small.js")},
		MaxFileSize: 1024,
	})
	require.NoError(t, err)
	require.Len(t, resp.Files, 2)

	big := resp.Files[0]
	assert.True(t, big.Skipped)
	assert.Contains(t, big.SkipReason, "exceeds limit")
	assert.Zero(t, big.Stats.TotalNodes)

	assert.False(t, resp.Files[1].Skipped)
	assert.Equal(t, 1, resp.Summary.SkippedFiles)
	assert.Equal(t, 1, resp.Summary.ValidFiles)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "big.js")
}

func TestParseService_MissingFileReported(t *testing.T) {
	dir := writeProject(t)
	good := filepath.Join(dir, "src/math.js")
	missing := filepath.Join(dir, "src/missing.js")

	resp, err := NewParseService().Parse(context.Background(), domain.ParseRequest{
		Paths: []string{good, missing},
	})
	require.NoError(t, err, "per-file failures do not fail the run")
	require.Len(t, resp.Files, 1)
	assert.Equal(t, good, resp.Files[0].FilePath)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "missing.js")
}

func TestParseService_ParseFileNotFound(t *testing.T) {
	_, err := NewParseService().ParseFile(context.Background(), "/nonexistent/app.ts", domain.ParseRequest{})
	require.Error(t, err)

	var domainErr domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeFileNotFound, domainErr.Code)
}

func TestParseService_InvalidRequest(t *testing.T) {
	svc := NewParseService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.ParseRequest
	}{
		{"no paths", domain.ParseRequest{}},
		{"bad order", domain.ParseRequest{Paths: []string{"a.js"}, WalkOrder: "inorder"}},
		{"bad source type", domain.ParseRequest{Paths: []string{"a.js"}, SourceType: "coffee"}},
		{"negative depth", domain.ParseRequest{Paths: []string{"a.js"}, MaxDepth: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Parse(ctx, tt.req)
			require.Error(t, err)

			var domainErr domain.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, domain.ErrCodeInvalidInput, domainErr.Code)
		})
	}
}

func TestParseService_Cancelled(t *testing.T) {
	dir := writeProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParseService().Parse(ctx, domain.ParseRequest{
		Paths: []string{filepath.Join(dir, "src/math.js")},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseService_Progress(t *testing.T) {
	dir := writeProject(t)
	pm := &recordingProgressManager{}
	perf := config.DefaultConfig().Performance
	svc := NewParseServiceWithConfig(&perf, pm, nil)

	paths := []string{filepath.Join(dir, "src/math.js"), filepath.Join(dir, "src/view.tsx")}

	_, err := svc.Parse(context.Background(), domain.ParseRequest{Paths: paths})
	require.NoError(t, err)
	assert.Nil(t, pm.task, "progress is only drawn when requested")

	_, err = svc.Parse(context.Background(), domain.ParseRequest{Paths: paths, ShowProgress: true})
	require.NoError(t, err)
	require.NotNil(t, pm.task)
	assert.Equal(t, 2, pm.total)
	assert.True(t, pm.task.completed.Load())
}
