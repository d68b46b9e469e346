package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/testutil"
	"github.com/ludo-technologies/jsast/internal/version"
)

// isolate keeps user-level configuration out of command tests
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("JSAST_CONFIG", "")
	t.Setenv("CI", "true")
}

// runRoot executes the root command with args and returns stdout
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func sampleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteSourceTree(t, dir, map[string]string{
		"src/index.ts":  "import { add } from './math';\nexport const total: number = add(1, 2);\n",
		"src/math.js":   "// math helpers\nexport function add(a, b) {\n  return a + b;\n}\n",
		"src/App.jsx":   "export const App = () => <main className=\"app\">hi</main>;\n",
		"README.md":     "# sample\n",
		"dist/index.js": "minified();\n",
	})
	return dir
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"parse", "walk", "stats", "init", "version"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", name)
		}
	}

	for _, flagName := range []string{"config", "log-level", "no-color"} {
		if root.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("Missing persistent flag: --%s", flagName)
		}
	}
}

func TestParseCmd_FlagsExist(t *testing.T) {
	cmd := parseCmd()

	expectedFlags := []string{
		"format", "source-type", "recursive", "include", "exclude", "max-file-size",
		"progress", "gitignore", "order", "max-depth", "tree", "comments", "strict",
	}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestParseCmd_ShortFlags(t *testing.T) {
	cmd := parseCmd()

	shortFlags := map[string]string{
		"f": "format",
		"t": "source-type",
		"r": "recursive",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil || flag.Name != long {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestParseCmd_DefaultValues(t *testing.T) {
	cmd := parseCmd()

	if def := cmd.Flags().Lookup("format").DefValue; def != "" {
		t.Errorf("Expected format to default to the config value, got '%s'", def)
	}
	if def := cmd.Flags().Lookup("recursive").DefValue; def != "true" {
		t.Errorf("Expected recursive to default to true, got '%s'", def)
	}
	if def := cmd.Flags().Lookup("max-depth").DefValue; def != "0" {
		t.Errorf("Expected max-depth to default to 0, got '%s'", def)
	}
}

func TestParseCmd_Text(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)

	out, err := runRoot(t, "parse", "--no-color", "--comments", dir)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, want := range []string{"=== jsast Parse Report ===", "index.ts", "math.js", "App.jsx", "math helpers"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, filepath.Join("dist", "index.js")) {
		t.Errorf("dist should be excluded by default\n%s", out)
	}
	if !strings.Contains(out, "Files: 3 (valid 3, invalid 0, skipped 0)") {
		t.Errorf("Unexpected summary\n%s", out)
	}
}

func TestParseCmd_JSON(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)

	out, err := runRoot(t, "parse", "--format", "json", "--tree", "--max-depth", "1", filepath.Join(dir, "src", "math.js"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var resp domain.ParseResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(resp.Files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(resp.Files))
	}
	nodes := resp.Files[0].Nodes
	if len(nodes) != 2 {
		t.Fatalf("Expected Program and one statement, got %+v", nodes)
	}
	if nodes[0].Type != "Program" || nodes[1].Depth != 1 {
		t.Errorf("Unexpected nodes %+v", nodes)
	}
}

func TestParseCmd_StrictExitCode(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	testutil.WriteSourceTree(t, dir, map[string]string{
		"ok.js":     "ok();\n",
		"broken.js": "function (\n",
	})

	if _, err := runRoot(t, "parse", "--format", "json", dir); err != nil {
		t.Fatalf("Syntax errors alone should not fail without --strict: %v", err)
	}

	_, err := runRoot(t, "parse", "--strict", "--format", "json", dir)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected ExitError, got %v", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Expected exit code 1, got %d", exitErr.Code)
	}
	if !strings.Contains(exitErr.Message, "1 of 2 files") {
		t.Errorf("Unexpected message %q", exitErr.Message)
	}
}

func TestParseCmd_InvalidOptions(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)

	tests := [][]string{
		{"parse", "--format", "xml", dir},
		{"parse", "--order", "postorder", dir},
		{"parse", "--source-type", "coffee", dir},
		{"parse", "--max-file-size", "huge", dir},
		{"parse", filepath.Join(dir, "missing")},
	}
	for _, args := range tests {
		if _, err := runRoot(t, args...); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}

func TestParseCmd_ConfigFileApplied(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)
	cfg := "output:\n  format: json\nanalysis:\n  include_patterns:\n    - \"**/*.ts\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".jsast.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, "parse", dir)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var resp domain.ParseResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Expected JSON from config, got: %v\n%s", err, out)
	}
	if len(resp.Files) != 1 || !strings.HasSuffix(resp.Files[0].FilePath, "index.ts") {
		t.Errorf("Expected only index.ts, got %+v", resp.Files)
	}
}

func TestParseCmd_ExplicitConfigFlag(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("output:\n  format: yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, "--config", cfgPath, "parse", dir)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(out, "summary:") {
		t.Errorf("Expected YAML output, got\n%s", out)
	}
}

func TestWalkCmd_RequiresOneFile(t *testing.T) {
	isolate(t)
	if _, err := runRoot(t, "walk"); err == nil {
		t.Error("Expected error without a file")
	}
}

func TestWalkCmd_JSON(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)

	out, err := runRoot(t, "walk", "--format", "json", "--order", "level", filepath.Join(dir, "src", "math.js"))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	var nodes []domain.NodeEntry
	if err := json.Unmarshal([]byte(out), &nodes); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(nodes) == 0 || nodes[0].Type != "Program" {
		t.Fatalf("Expected Program first, got %+v", nodes)
	}
	for i := 1; i < len(nodes); i++ {
		if nodes[i].Depth < nodes[i-1].Depth {
			t.Fatalf("Depth decreased in level order at %d: %+v", i, nodes)
		}
	}
}

func TestWalkCmd_Text(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)

	out, err := runRoot(t, "walk", "--no-color", "--max-depth", "2", filepath.Join(dir, "src", "math.js"))
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("Expected several lines, got %q", out)
	}
	if lines[0] != "Program L1-5" {
		t.Errorf("Expected %q, got %q", "Program L1-5", lines[0])
	}
	if !strings.Contains(out, "    FunctionDeclaration add L2-4") {
		t.Errorf("Expected the exported function at depth 2\n%s", out)
	}
}

func TestStatsCmd_JSON(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)

	out, err := runRoot(t, "stats", "--format", "json", dir)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	var report statsReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if report.Summary.TotalFiles != 3 {
		t.Errorf("Expected 3 files, got %d", report.Summary.TotalFiles)
	}
	if len(report.Kinds) == 0 {
		t.Fatal("Expected node kinds")
	}
	for i := 1; i < len(report.Kinds); i++ {
		if report.Kinds[i].Count > report.Kinds[i-1].Count {
			t.Errorf("Kinds not sorted by count: %+v", report.Kinds)
			break
		}
	}
}

func TestStatsCmd_Table(t *testing.T) {
	isolate(t)
	dir := sampleProject(t)

	out, err := runRoot(t, "stats", "--no-color", dir)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Identifier", "JSXElement", "3 files (0 invalid, 0 skipped)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "jsast version "+version.GetVersion()+"\n" {
		t.Errorf("Unexpected version output %q", out)
	}

	out, err = runRoot(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if info.Version != version.GetVersion() {
		t.Errorf("Expected version %s, got %s", version.GetVersion(), info.Version)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger("debug", &buf)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	logger.Debug("visible", slog.String("k", "v"))
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Expected debug message, got %q", buf.String())
	}

	buf.Reset()
	logger, err = newLogger("", &buf)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Info should be filtered at the default warn level, got %q", buf.String())
	}

	if _, err := newLogger("loud", &buf); err == nil {
		t.Error("Expected error for unknown level")
	}
}
