// ABOUTME: Expands include globs into Agda library directories and -i load flags
// ABOUTME: Uses doublestar so patterns like libs/**/src work; exclude globs filter the result

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// IncludeDirs resolves the Include globs relative to root and returns the
// matching directories, sorted and without duplicates.
func (s *Settings) IncludeDirs(root string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range s.Include {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		pattern = filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding include %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || s.excluded(root, m) {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			seen[m] = true
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func (s *Settings) excluded(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.Exclude {
		if match, err := doublestar.Match(pattern, rel); err == nil && match {
			return true
		}
	}
	return false
}

// LoadFlags turns the include directories into Cmd_load flags.
func (s *Settings) LoadFlags(root string) ([]string, error) {
	dirs, err := s.IncludeDirs(root)
	if err != nil {
		return nil, err
	}
	flags := make([]string, 0, 2*len(dirs))
	for _, d := range dirs {
		flags = append(flags, "-i", d)
	}
	return flags, nil
}
