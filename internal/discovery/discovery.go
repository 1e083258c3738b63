// Package discovery finds the Markdown documents and YAML configuration files
// a run checks, and reads them into validator inputs.
package discovery

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

// Kind selects which files a walk collects.
type Kind int

const (
	// Markdown collects .md and .markdown files.
	Markdown Kind = iota
	// YAML collects .yml and .yaml files.
	YAML
)

// visibleHiddenDirs are dot-directories that hold files worth checking.
var visibleHiddenDirs = []string{".github"}

// Walker enumerates files below a set of roots.
type Walker struct {
	exclude []glob.Glob
}

// NewWalker compiles the exclude patterns. Patterns are matched against the
// slash-separated path relative to the walked root and against the path as
// walked.
func NewWalker(exclude []string) (*Walker, error) {
	w := &Walker{}
	for _, p := range exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("invalid exclude pattern %q", p)).Build()
		}
		w.exclude = append(w.exclude, g)
	}
	return w, nil
}

// Find returns the files of the given kind below roots, in lexical order per
// root and without duplicates. A root may also name a single file, which is
// returned when it has the right extension. Missing roots are an error.
func (w *Walker) Find(kind Kind, roots []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, errors.NotFoundError(fmt.Sprintf("path does not exist: %s", root)).
					WithContext("path", root).
					Build()
			}
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot access path").
				WithContext("path", root).
				Build()
		}
		if !info.IsDir() {
			if Matches(kind, root) {
				add(filepath.Clean(root))
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if path != root && isHidden(d.Name()) && !slices.Contains(visibleHiddenDirs, d.Name()) {
					return fs.SkipDir
				}
				if path != root && w.excluded(rel, path) {
					return fs.SkipDir
				}
				return nil
			}
			if isHidden(d.Name()) || !Matches(kind, path) || w.excluded(rel, path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk directory").
				WithContext("path", root).
				Build()
		}
	}
	return files, nil
}

func (w *Walker) excluded(rel, path string) bool {
	rel = filepath.ToSlash(rel)
	path = filepath.ToSlash(filepath.Clean(path))
	for _, g := range w.exclude {
		if g.Match(rel) || g.Match(path) || g.Match(rel+"/") {
			return true
		}
	}
	return false
}

// Matches reports whether path has an extension collected for kind.
func Matches(kind Kind, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch kind {
	case Markdown:
		return ext == ".md" || ext == ".markdown"
	case YAML:
		return ext == ".yml" || ext == ".yaml"
	default:
		return false
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// DetectDocsDir returns the documentation directory using the usual layout:
// docs/, then documentation/, then the current directory. found is false for
// the fallback.
func DetectDocsDir() (dir string, found bool) {
	for _, candidate := range []string{"docs", "documentation"} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return ".", false
}

// File is a discovered file and its content.
type File struct {
	Path string
	Text string
}

// ReadFiles reads every path. Paths are reported with forward slashes so that
// findings look the same on every platform.
func ReadFiles(paths []string) ([]File, error) {
	out := make([]File, 0, len(paths))
	for _, p := range paths {
		// #nosec G304 -- paths come from a walk of user-selected roots
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
				WithContext("path", p).
				Build()
		}
		out = append(out, File{Path: filepath.ToSlash(p), Text: string(data)})
	}
	return out, nil
}

// RelativeTo rewrites paths relative to base, dropping those outside it.
// It is used to express discovered documents the way site navigation refers
// to them.
func RelativeTo(base string, paths []string) []string {
	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(base, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
