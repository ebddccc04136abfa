// Package selector enumerates the source files under a root path and
// applies the exclusion rules that decide what ends up in the output
// document.
package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"
)

// ErrInputNotFound is returned when the root path does not exist.
var ErrInputNotFound = errors.New("input path not found")

// ErrNoFilesMatched is returned when a directory scan yields no files
// after filtering.
var ErrNoFilesMatched = errors.New("no source files found")

// ErrBinaryFile marks a candidate whose content is not text.
var ErrBinaryFile = errors.New("binary file")

// sourceExtensions is the allowlist of extensions considered source code
// during a directory scan. Extensionless names like Makefile are handled
// separately in fileExt.
var sourceExtensions = map[string]struct{}{
	"py": {}, "js": {}, "ts": {}, "jsx": {}, "tsx": {},
	"c": {}, "cc": {}, "cpp": {}, "h": {}, "hpp": {},
	"java": {}, "go": {}, "rs": {}, "rb": {}, "php": {},
	"swift": {}, "kt": {}, "scala": {},
	"sh": {}, "bash": {}, "zsh": {}, "fish": {}, "ps1": {},
	"html": {}, "css": {}, "scss": {}, "sass": {}, "less": {},
	"json": {}, "yaml": {}, "yml": {}, "toml": {}, "xml": {},
	"sql": {}, "md": {}, "rst": {}, "txt": {},
	"lua": {}, "r": {}, "pl": {}, "pm": {}, "hs": {}, "ml": {},
	"ex": {}, "exs": {},
	"vue": {}, "svelte": {}, "astro": {},
	"dockerfile": {}, "makefile": {}, "cmake": {},
	"rakefile": {}, "gemfile": {},
}

// ignoredDirs are directory names skipped entirely during a scan:
// dependency trees, build output, and VCS metadata.
var ignoredDirs = map[string]struct{}{
	"venv": {}, ".venv": {}, "env": {}, ".env": {},
	"node_modules": {},
	"__pycache__": {}, ".pytest_cache": {}, ".mypy_cache": {},
	".git": {}, ".svn": {}, ".hg": {},
	"dist": {}, "build": {}, ".build": {},
	"target": {},
	"vendor": {},
}

// Rules is the normalized exclusion rule set applied during enumeration.
// NotMatch entries reject any filename containing them as a substring;
// ExcludeExts holds lowercased extensions without a leading dot.
type Rules struct {
	NotMatch    []string
	ExcludeExts map[string]struct{}
}

// NewRules normalizes raw --not-match-f and --exclude-ext inputs into a
// rule set. Each input element may itself be a comma-separated list;
// extensions are lowercased and stripped of leading dots.
func NewRules(notMatch, excludeExts []string) Rules {
	rules := Rules{
		NotMatch:    expandCommaSeparated(notMatch),
		ExcludeExts: map[string]struct{}{},
	}

	for _, ext := range expandCommaSeparated(excludeExts) {
		normalized := strings.ToLower(strings.TrimPrefix(ext, "."))
		if normalized != "" {
			rules.ExcludeExts[normalized] = struct{}{}
		}
	}

	return rules
}

// Excludes reports whether a filename is rejected by the rule set.
func (r Rules) Excludes(name string) bool {
	if _, excluded := r.ExcludeExts[fileExt(name)]; excluded {
		return true
	}

	for _, pattern := range r.NotMatch {
		if pattern != "" && strings.Contains(name, pattern) {
			return true
		}
	}

	return false
}

func expandCommaSeparated(items []string) []string {
	var result []string

	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}

	return result
}

// File is one selected source file.
type File struct {
	Path        string // path on disk, as reachable from the CWD
	DisplayName string // path relative to the scan root, or the base name
	Size        int64
}

// Content is a loaded source file ready for highlighting.
type Content struct {
	File
	Text     string
	Language string // enry language name, empty when undetected
}

// Collect returns the ordered sequence of files to process under root.
//
// A root that is a regular file is returned unconditionally: naming a
// file explicitly overrides the exclusion rules. A directory root is
// walked recursively; hidden path segments, well-known build and
// dependency directories, non-source extensions, and anything the rules
// exclude are dropped. Results are sorted case-insensitively by display
// name, so repeated runs over the same tree are identical.
func Collect(root string, rules Rules) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, root)
		}

		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if info.Mode().IsRegular() {
		return []File{{
			Path:        root,
			DisplayName: filepath.Base(root),
			Size:        info.Size(),
		}}, nil
	}

	files, err := collectDir(root, rules)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, ErrNoFilesMatched
	}

	return files, nil
}

func collectDir(root string, rules Rules) ([]File, error) {
	var files []File

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()

		if entry.IsDir() {
			if path == root {
				return nil
			}

			if _, ignored := ignoredDirs[name]; ignored || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			return nil
		}

		if _, known := sourceExtensions[fileExt(name)]; !known {
			return nil
		}

		if rules.Excludes(name) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relativize %s: %w", path, relErr)
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return fmt.Errorf("stat %s: %w", path, infoErr)
		}

		files = append(files, File{
			Path:        path,
			DisplayName: filepath.ToSlash(rel),
			Size:        info.Size(),
		})

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].DisplayName) < strings.ToLower(files[j].DisplayName)
	})

	return files, nil
}

// Load reads a selected file and detects its language. Binary content is
// rejected with ErrBinaryFile so callers can skip it with a warning.
func Load(f File) (Content, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Content{}, fmt.Errorf("read %s: %w", f.Path, err)
	}

	if enry.IsBinary(data) {
		return Content{}, fmt.Errorf("%s: %w", f.DisplayName, ErrBinaryFile)
	}

	return Content{
		File:     f,
		Text:     string(data),
		Language: enry.GetLanguage(filepath.Base(f.Path), data),
	}, nil
}

// fileExt returns the lowercased extension without the leading dot.
// A handful of well-known extensionless names map to themselves so that
// Makefile and Dockerfile count as source files.
func fileExt(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext != "" {
		return ext
	}

	switch lower := strings.ToLower(name); lower {
	case "makefile", "dockerfile", "rakefile", "gemfile":
		return lower
	default:
		return ""
	}
}
