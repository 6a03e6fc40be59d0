// Package discovery finds candidate source files below a decompile root and
// caches the file list of each root.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/maypok86/otter"
	"golang.org/x/sync/singleflight"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Finder lists source files below a root and filters them by search terms.
// File lists are cached per root until invalidated. Safe for concurrent use.
type Finder struct {
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern

	cache otter.Cache[string, []string]
	walks singleflight.Group
}

// NewFinder creates a finder. include and ignore are globs relative to the
// root, using '/' as separator. maxRoots bounds the number of cached roots.
func NewFinder(include, ignore []string, maxRoots int) (*Finder, error) {
	f := &Finder{}

	var err error
	if f.includePatterns, err = compileAll(include); err != nil {
		return nil, err
	}
	if f.ignorePatterns, err = compileAll(ignore); err != nil {
		return nil, err
	}

	if maxRoots <= 0 {
		maxRoots = 1
	}
	f.cache, err = otter.MustBuilder[string, []string](maxRoots).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build file cache: %w", err)
	}

	return f, nil
}

func compileAll(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// Find returns the files below root whose base name contains every term,
// ignoring case. The result is sorted.
func (f *Finder) Find(root string, terms []string) ([]string, error) {
	files, err := f.Files(root)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, path := range files {
		if MatchesTerms(path, terms) {
			matches = append(matches, path)
		}
	}
	return matches, nil
}

// Files returns every source file below root, walking the tree on the first
// call and serving later calls from the cache.
func (f *Finder) Files(root string) ([]string, error) {
	root = filepath.Clean(root)

	if files, ok := f.cache.Get(root); ok {
		return files, nil
	}

	v, err, _ := f.walks.Do(root, func() (any, error) {
		files, err := f.walk(root)
		if err != nil {
			return nil, err
		}
		f.cache.Set(root, files)
		return files, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Invalidate drops the cached file list of root.
func (f *Finder) Invalidate(root string) {
	f.cache.Delete(filepath.Clean(root))
}

// Purge drops every cached file list.
func (f *Finder) Purge() {
	f.cache.Clear()
}

// Close releases the cache.
func (f *Finder) Close() {
	f.cache.Close()
}

func (f *Finder) walk(root string) ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if f.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.shouldIgnore(relPath) {
			return nil
		}

		if matchesAnyPattern(relPath, f.includePatterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (f *Finder) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, f.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "test" should match pattern "test/**"
	return matchesAnyPattern(relPath+"/**", f.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching against
	// patterns with **/ prefix removed. This makes "**/*.java" match both
	// "Foo.java" and "net/Foo.java" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}

// MatchesTerms reports whether the lower-cased base name of path contains
// every lower-cased term.
func MatchesTerms(path string, terms []string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, term := range terms {
		if !strings.Contains(name, strings.ToLower(term)) {
			return false
		}
	}
	return true
}
