package config

import (
	"strings"

	"github.com/ludo-technologies/jsast/internal/constants"
)

// ProjectType represents the type of JavaScript/TypeScript project
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeReact       ProjectType = "react"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node"
)

// ProjectPreset holds file discovery presets for a project type
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	common := []string{"node_modules", "dist", "build", "coverage", "*.min.js", "*.bundle.js"}
	with := func(extra ...string) []string {
		return append(append([]string{}, common...), extra...)
	}

	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"},
			ExcludePatterns: with(),
		},
		ProjectTypeReact: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"},
			ExcludePatterns: with(".next", "*.d.ts"),
		},
		ProjectTypeVue: {
			IncludePatterns: []string{"**/*.js", "**/*.ts"},
			ExcludePatterns: with(".nuxt", "*.d.ts"),
		},
		ProjectTypeNodeBackend: {
			IncludePatterns: []string{"**/*.js", "**/*.ts", "**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts"},
			ExcludePatterns: with("__tests__"),
		},
	}
}

// TemplateOptions are the choices made by `jsast init`
type TemplateOptions struct {
	ProjectType ProjectType
	WalkOrder   string
	Format      string
}

// DefaultTemplateOptions returns the non-interactive init choices
func DefaultTemplateOptions() TemplateOptions {
	return TemplateOptions{
		ProjectType: ProjectTypeGeneric,
		WalkOrder:   constants.WalkOrderPre,
		Format:      constants.OutputFormatText,
	}
}

// GetFullConfigTemplate returns the documented YAML config template
func GetFullConfigTemplate(opts TemplateOptions) string {
	preset, ok := GetProjectPresets()[opts.ProjectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}
	if opts.WalkOrder == "" {
		opts.WalkOrder = constants.WalkOrderPre
	}
	if opts.Format == "" {
		opts.Format = constants.OutputFormatText
	}

	var sb strings.Builder
	sb.WriteString(`# jsast configuration
# Documentation: https://github.com/ludo-technologies/jsast

parse:
  # Force a grammar for every file: module, script, jsx, ts, typescript, tsx.
  # Leave empty to pick the grammar from each file's extension.
  source_type: ""

  # Include comments in results
  collect_comments: true

walk:
  # Traversal order for tree listings: pre (depth-first) or level (breadth-first)
  order: ` + opts.WalkOrder + `

  # Deepest level listed; 0 walks the whole tree
  max_depth: 0

output:
  # Output format: text, json, yaml, table
  format: ` + opts.Format + `

  # Print the walked node tree for every file
  show_tree: false

  # Colorize text output (disable for CI logs)
  color: true

  # Show a progress bar on interactive terminals
  progress: true

analysis:
  # File patterns to include
  include_patterns:
`)
	writeYAMLList(&sb, preset.IncludePatterns)
	sb.WriteString(`
  # File or directory patterns to exclude
  exclude_patterns:
`)
	writeYAMLList(&sb, preset.ExcludePatterns)
	sb.WriteString(`
  recursive: true

  # Skip files ignored by the root .gitignore
  respect_gitignore: true

performance:
  # Concurrent file parses; 0 falls back to 4 workers
  max_goroutines: 0

  # Upper bound for a whole run
  timeout_seconds: 300

  # Larger files are skipped; "0" disables the limit
  max_file_size: ` + constants.DefaultMaxFileSize + `
`)
	return sb.String()
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# jsast configuration (minimal)
# See full options: https://github.com/ludo-technologies/jsast

output:
  format: text

analysis:
  include_patterns: ["**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx"]
  exclude_patterns: ["node_modules", "dist"]
`
}

func writeYAMLList(sb *strings.Builder, items []string) {
	for _, item := range items {
		sb.WriteString(`    - "` + item + `"` + "\n")
	}
}
