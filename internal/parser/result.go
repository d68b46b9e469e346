package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel errors returned by the parser
var (
	ErrUnsupportedSourceType = errors.New("unsupported source type")
	ErrConversionFailed      = errors.New("ast conversion failed")
)

// SourceType selects the grammar used to parse a buffer
type SourceType string

const (
	SourceModule     SourceType = "module"
	SourceScript     SourceType = "script"
	SourceJSX        SourceType = "jsx"
	SourceTSX        SourceType = "tsx"
	SourceTS         SourceType = "ts"
	SourceTypeScript SourceType = "typescript"
)

// ParseSourceType validates a source type name. The empty string selects
// SourceModule.
func ParseSourceType(s string) (SourceType, error) {
	switch st := SourceType(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return SourceModule, nil
	case SourceModule, SourceScript, SourceJSX, SourceTSX, SourceTS, SourceTypeScript:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q (want module, script, jsx, tsx, ts or typescript)", ErrUnsupportedSourceType, s)
}

// SourceTypeFromPath picks a source type from a file extension
func SourceTypeFromPath(path string) SourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsx":
		return SourceJSX
	case ".ts", ".mts", ".cts":
		return SourceTS
	case ".tsx":
		return SourceTSX
	}
	return SourceModule
}

// IsTypeScript reports whether the source type enables TypeScript syntax
func (s SourceType) IsTypeScript() bool {
	return s == SourceTS || s == SourceTypeScript || s == SourceTSX
}

// Severity of a diagnostic
type Severity string

// SeverityError is the only severity tree-sitter recovery produces
const SeverityError Severity = "error"

// Diagnostic is a syntax problem reported by the parser
type Diagnostic struct {
	Message  string   `json:"message" yaml:"message"`
	Span     Span     `json:"span" yaml:"span"`
	Line     int      `json:"line" yaml:"line"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// String returns a string representation of the diagnostic
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s: %s", d.Line, d.Severity, d.Message)
}

// Comment is a source comment. Text has its delimiters stripped while Span
// covers the delimiters too.
type Comment struct {
	Text    string `json:"text" yaml:"text"`
	Span    Span   `json:"span" yaml:"span"`
	Line    int    `json:"line" yaml:"line"`
	IsBlock bool   `json:"is_block" yaml:"is_block"`
}

// ParseResult holds the converted tree and everything collected alongside it
type ParseResult struct {
	Program    *Node
	Errors     []Diagnostic
	Comments   []Comment
	SourceType SourceType
	Lines      int

	// Panicked is set when a subtree had to be dropped after an internal
	// conversion failure
	Panicked bool
}

// IsValid reports whether the source parsed without diagnostics and the
// tree was converted in full
func (r *ParseResult) IsValid() bool {
	return r != nil && len(r.Errors) == 0 && !r.Panicked
}
