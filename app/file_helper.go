package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// sourceExtensions lists the file extensions treated as JavaScript or TypeScript
var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

// FileHelper implements domain.FileReader on the local filesystem
type FileHelper struct {
	respectGitignore bool
}

// NewFileHelper creates a FileHelper that honours the root .gitignore of
// each walked directory
func NewFileHelper() *FileHelper {
	return &FileHelper{respectGitignore: true}
}

// WithGitignore toggles .gitignore handling
func (h *FileHelper) WithGitignore(enabled bool) *FileHelper {
	h.respectGitignore = enabled
	return h
}

// CollectSourceFiles expands paths into source files. Files named directly
// are kept when they are source files and not excluded; directories are
// walked (recursively if asked) and filtered by the include and exclude
// patterns. Exclude patterns use .gitignore syntax.
func (h *FileHelper) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	exclude := gitignore.CompileIgnoreLines(excludePatterns...)
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.IsValidSourceFile(path) && !exclude.MatchesPath(filepath.ToSlash(path)) {
				add(path)
			}
			continue
		}

		ignore := h.loadGitignore(path)
		err = filepath.WalkDir(path, func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(path, filePath)
			if relErr != nil || rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if !recursive || exclude.MatchesPath(rel) || (ignore != nil && ignore.MatchesPath(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}

			if !h.IsValidSourceFile(filePath) || exclude.MatchesPath(rel) {
				return nil
			}
			if ignore != nil && ignore.MatchesPath(rel) {
				return nil
			}
			if matchesInclude(rel, includePatterns) {
				add(filePath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// loadGitignore compiles dir/.gitignore, or returns nil when handling is
// disabled or the file is absent
func (h *FileHelper) loadGitignore(dir string) *gitignore.GitIgnore {
	if !h.respectGitignore {
		return nil
	}
	gitignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignorePath); err != nil {
		return nil
	}
	ignore, err := gitignore.CompileIgnoreFile(gitignorePath)
	if err != nil {
		return nil
	}
	return ignore
}

// matchesInclude reports whether rel matches one of the include patterns.
// A leading "**/" matches any directory prefix. No patterns include
// everything.
func matchesInclude(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		if tail, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, _ := filepath.Match(tail, base); matched {
				return true
			}
			if matched, _ := filepath.Match(tail, rel); matched {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// IsValidSourceFile checks the extension of path
func (h *FileHelper) IsValidSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ResolveFilePaths returns paths unchanged when every entry is an existing
// file, and otherwise expands them with CollectSourceFiles
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectSourceFiles(paths, recursive, includePatterns, excludePatterns)
}
