// Package fileset classifies and resolves path specifiers. A specifier is
// a single file, a directory, or a glob pattern, and resolution always
// returns a deterministic, sorted list of files.
package fileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrInvalidSpecifier is returned when a specifier matches no known kind
	ErrInvalidSpecifier = errors.New("path specifier is not a file, directory, or glob pattern")
	// ErrNoMatches is returned when a valid specifier resolves to zero files
	ErrNoMatches = errors.New("path specifier matched no files")
)

// Kind identifies what a path specifier refers to.
type Kind int

const (
	KindInvalid Kind = iota
	KindFile
	KindDir
	KindGlob
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindGlob:
		return "glob"
	default:
		return "invalid"
	}
}

// Classify determines the kind of a path specifier. Glob metacharacters
// take precedence over the filesystem, so a literal file named "a*.csv"
// is still treated as a pattern.
func Classify(spec string) Kind {
	if strings.ContainsAny(spec, "*?[{") {
		return KindGlob
	}

	info, err := os.Stat(spec)
	if err != nil {
		return KindInvalid
	}

	if info.IsDir() {
		return KindDir
	}

	return KindFile
}

// Resolve expands a specifier into a sorted list of file paths. Directories
// list their immediate regular files only, globs expand via pattern
// matching, and a plain file resolves to itself.
func Resolve(spec string) ([]string, error) {
	switch Classify(spec) {
	case KindFile:
		return []string{spec}, nil
	case KindDir:
		return listDir(spec)
	case KindGlob:
		return expandGlob(spec)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSpecifier, spec)
	}
}

// IsMulti reports whether a specifier can refer to more than one file.
func IsMulti(spec string) bool {
	kind := Classify(spec)
	return kind == KindDir || kind == KindGlob
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, dir)
	}

	sort.Strings(paths)

	return paths, nil
}

func expandGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to expand glob pattern: %w", err)
	}

	var paths []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		paths = append(paths, match)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}

	sort.Strings(paths)

	return paths, nil
}

// FilterExt keeps only the paths carrying the given extension. The
// comparison is case-insensitive and ext includes the leading dot.
func FilterExt(paths []string, ext string) []string {
	var filtered []string
	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), ext) {
			filtered = append(filtered, path)
		}
	}

	return filtered
}
