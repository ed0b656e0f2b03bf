package posts

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// DefaultPattern matches markdown and MDX files at any depth.
const DefaultPattern = "**.{md,mdx}"

// Matcher tests paths under root against a slash-separated glob pattern.
type Matcher struct {
	root    string
	pattern string
	glob    glob.Glob
}

// NewMatcher compiles pattern ("" means DefaultPattern).
func NewMatcher(root, pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Matcher{root: root, pattern: pattern, glob: g}, nil
}

// Match reports whether path, relative to the matcher root, matches.
func (m *Matcher) Match(path string) bool {
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		return false
	}
	return m.glob.Match(filepath.ToSlash(rel))
}

// Discover returns the files under root matching pattern, sorted.
func Discover(root, pattern string) ([]string, error) {
	m, err := NewMatcher(root, pattern)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if m.Match(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
