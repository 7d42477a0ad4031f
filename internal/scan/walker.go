package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Walker enumerates the files under a root directory that match a
// file-name suffix, skipping hidden directories, well-known build
// output directories and anything excluded by the root's .gitignore.
type Walker struct {
	root    string
	ext     string
	matcher *ignore.GitIgnore // nil when gitignore filtering is off
}

// NewWalker validates the root and prepares a walker for the given
// extension. A missing or non-directory root is an error; the whole
// run aborts rather than producing partial results.
func NewWalker(root, ext string, useGitignore bool) (*Walker, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	w := &Walker{root: root, ext: ext}
	if useGitignore {
		// A missing .gitignore just means no extra filtering.
		if m, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			w.matcher = m
		}
	}
	return w, nil
}

// Files returns the paths of every qualifying file under the root, in
// lexical walk order (filepath.WalkDir guarantees deterministic
// ordering, so repeat runs over an unchanged tree produce identical
// output).
func (w *Walker) Files() ([]string, error) {
	var files []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.root {
				return err
			}
			return nil // skip unreadable entries below the root
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if SkippableDir(d.Name()) {
				return filepath.SkipDir
			}
			if w.matcher != nil && w.matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), w.ext) {
			return nil
		}
		if w.matcher != nil && w.matcher.MatchesPath(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", w.root, err)
	}

	return files, nil
}

// Root returns the walker's root directory.
func (w *Walker) Root() string {
	return w.root
}

// SkippableDir returns true for directories that should never be
// scanned or watched: hidden directories and well-known build output.
func SkippableDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	ignored := map[string]bool{
		"node_modules": true,
		"vendor":       true,
		"dist":         true,
		"build":        true,
		"target":       true,
		"__pycache__":  true,
	}
	return ignored[name]
}
