package domain

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatTable OutputFormat = "table"
)

// SupportedOutputFormats lists every format accepted by the formatter
var SupportedOutputFormats = []OutputFormat{
	OutputFormatText,
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatTable,
}

// ParseOutputFormat validates a user supplied format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return OutputFormatText, nil
	}
	for _, known := range SupportedOutputFormats {
		if f == known {
			return f, nil
		}
	}
	return "", NewUnsupportedFormatError(s)
}

// ParseRequest describes a multi-file parse run
type ParseRequest struct {
	// Input files or directories
	Paths []string

	// SourceType forces a grammar for every file; empty selects by extension
	SourceType string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowTree     bool
	ShowComments bool
	NoColor      bool

	// Walk configuration used for node listings and statistics
	WalkOrder string
	MaxDepth  int

	// Configuration
	ConfigPath string

	// File discovery
	Recursive        bool
	IncludePatterns  []string
	ExcludePatterns  []string
	RespectGitignore bool

	// MaxFileSize in bytes; 0 means no limit
	MaxFileSize uint64

	ShowProgress bool
}

// NodeEntry is one row of a walked tree listing
type NodeEntry struct {
	Depth     int    `json:"depth" yaml:"depth"`
	Type      string `json:"type" yaml:"type"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	Start     int    `json:"start" yaml:"start"`
	End       int    `json:"end" yaml:"end"`
	Generic   bool   `json:"generic,omitempty" yaml:"generic,omitempty"`
}

// Diagnostic is a syntax problem reported for a file
type Diagnostic struct {
	Message  string `json:"message" yaml:"message"`
	Line     int    `json:"line" yaml:"line"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
	Severity string `json:"severity" yaml:"severity"`
}

// CommentInfo is a comment collected from a file
type CommentInfo struct {
	Text  string `json:"text" yaml:"text"`
	Line  int    `json:"line" yaml:"line"`
	Block bool   `json:"block" yaml:"block"`
}

// NodeStats summarizes the shape of one converted tree. GenericNodes counts
// nodes that carry nothing beyond their kind and span.
type NodeStats struct {
	TotalNodes   int            `json:"total_nodes" yaml:"total_nodes"`
	MaxDepth     int            `json:"max_depth" yaml:"max_depth"`
	GenericNodes int            `json:"generic_nodes" yaml:"generic_nodes"`
	Kinds        map[string]int `json:"kinds,omitempty" yaml:"kinds,omitempty"`
}

// FileParseResult holds everything produced for a single file
type FileParseResult struct {
	FilePath    string        `json:"file_path" yaml:"file_path"`
	SourceType  string        `json:"source_type" yaml:"source_type"`
	Valid       bool          `json:"valid" yaml:"valid"`
	Lines       int           `json:"lines" yaml:"lines"`
	Bytes       int           `json:"bytes" yaml:"bytes"`
	Stats       NodeStats     `json:"stats" yaml:"stats"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Comments    []CommentInfo `json:"comments,omitempty" yaml:"comments,omitempty"`
	Nodes       []NodeEntry   `json:"nodes,omitempty" yaml:"nodes,omitempty"`

	Skipped    bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
}

// ParseSummary aggregates statistics over every parsed file
type ParseSummary struct {
	TotalFiles       int            `json:"total_files" yaml:"total_files"`
	ValidFiles       int            `json:"valid_files" yaml:"valid_files"`
	InvalidFiles     int            `json:"invalid_files" yaml:"invalid_files"`
	SkippedFiles     int            `json:"skipped_files" yaml:"skipped_files"`
	TotalLines       int            `json:"total_lines" yaml:"total_lines"`
	TotalBytes       int            `json:"total_bytes" yaml:"total_bytes"`
	TotalNodes       int            `json:"total_nodes" yaml:"total_nodes"`
	GenericNodes     int            `json:"generic_nodes" yaml:"generic_nodes"`
	TotalDiagnostics int            `json:"total_diagnostics" yaml:"total_diagnostics"`
	TotalComments    int            `json:"total_comments" yaml:"total_comments"`
	MaxDepth         int            `json:"max_depth" yaml:"max_depth"`
	Kinds            map[string]int `json:"kinds,omitempty" yaml:"kinds,omitempty"`
}

// Add folds a file result into the summary
func (s *ParseSummary) Add(f FileParseResult) {
	s.TotalFiles++
	if f.Skipped {
		s.SkippedFiles++
		return
	}
	if f.Valid {
		s.ValidFiles++
	} else {
		s.InvalidFiles++
	}
	s.TotalLines += f.Lines
	s.TotalBytes += f.Bytes
	s.TotalNodes += f.Stats.TotalNodes
	s.GenericNodes += f.Stats.GenericNodes
	s.TotalDiagnostics += len(f.Diagnostics)
	s.TotalComments += len(f.Comments)
	if f.Stats.MaxDepth > s.MaxDepth {
		s.MaxDepth = f.Stats.MaxDepth
	}
	if len(f.Stats.Kinds) > 0 && s.Kinds == nil {
		s.Kinds = make(map[string]int)
	}
	for kind, count := range f.Stats.Kinds {
		s.Kinds[kind] += count
	}
}

// KindCount is one histogram bucket
type KindCount struct {
	Kind  string `json:"kind" yaml:"kind"`
	Count int    `json:"count" yaml:"count"`
}

// SortedKinds returns the kind histogram ordered by descending count, then name
func SortedKinds(kinds map[string]int) []KindCount {
	out := make([]KindCount, 0, len(kinds))
	for kind, count := range kinds {
		out = append(out, KindCount{Kind: kind, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// ParseResponse is the complete result of a parse run
type ParseResponse struct {
	Files   []FileParseResult `json:"files" yaml:"files"`
	Summary ParseSummary      `json:"summary" yaml:"summary"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// HasInvalidFiles reports whether any parsed file had diagnostics
func (r *ParseResponse) HasInvalidFiles() bool {
	return r != nil && r.Summary.InvalidFiles > 0
}

// ParseService parses source files into normalized trees
type ParseService interface {
	// Parse parses every path in the request
	Parse(ctx context.Context, req ParseRequest) (*ParseResponse, error)

	// ParseFile parses a single file
	ParseFile(ctx context.Context, filePath string, req ParseRequest) (*FileParseResult, error)
}

// FileReader collects and reads JavaScript/TypeScript source files
type FileReader interface {
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	IsValidSourceFile(path string) bool
	FileExists(path string) (bool, error)
}

// OutputFormatter renders a parse response
type OutputFormatter interface {
	Write(response *ParseResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader loads request defaults from configuration files
type ConfigurationLoader interface {
	LoadConfig(path string) (*ParseRequest, error)
	LoadDefaultConfig() *ParseRequest
	MergeConfig(base *ParseRequest, override *ParseRequest) *ParseRequest
}

// Validate checks the request for values no run can satisfy
func (r ParseRequest) Validate() error {
	if len(r.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if r.MaxDepth < 0 {
		return fmt.Errorf("max depth cannot be negative, got %d", r.MaxDepth)
	}
	if r.OutputFormat != "" {
		if _, err := ParseOutputFormat(string(r.OutputFormat)); err != nil {
			return err
		}
	}
	return nil
}
