// Package discover finds Python source files under a directory.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/QTest-hq/reporeport/internal/syntax"
)

// Options controls which files are reported
type Options struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the root, e.g. "**/tests/**".
	Exclude []string

	// RespectGitignore skips paths matched by the root's .gitignore.
	RespectGitignore bool
}

// Finder discovers source files. The zero Finder reports every Python file
// with nothing excluded.
type Finder struct {
	opts Options
}

// NewFinder creates a finder after validating the exclude patterns
func NewFinder(opts Options) (*Finder, error) {
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &Finder{opts: opts}, nil
}

// Files returns the Python files under root, recursively, in lexical walk
// order. Paths are root joined with the file's relative path.
// A root that does not exist yields no files and no error.
func (f *Finder) Files(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var gi *ignore.GitIgnore
	if f.opts.RespectGitignore {
		gi = loadGitignore(root)
	}

	var results []string

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		slashRel := filepath.ToSlash(rel)

		if f.excluded(slashRel) || (gi != nil && gi.MatchesPath(slashRel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !syntax.IsSource(d.Name()) {
			return nil
		}

		results = append(results, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (f *Finder) excluded(rel string) bool {
	for _, p := range f.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
