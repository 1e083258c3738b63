package git

import (
	"log/slog"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docsflow/internal/logfields"
)

// ChangedFiles returns the absolute paths of the files in the work tree
// containing dir that differ from HEAD: modified, added, renamed, copied or
// untracked. Deleted files are left out since there is nothing to check.
// The result is sorted.
func ChangedFiles(dir string) ([]string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ClassifyGitError(err, "worktree", dir)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, ClassifyGitError(err, "status", dir)
	}

	root := wt.Filesystem.Root()
	var changed []string
	for name, fs := range status {
		if !isChanged(fs) {
			continue
		}
		changed = append(changed, filepath.Join(root, filepath.FromSlash(name)))
	}
	sort.Strings(changed)

	slog.Debug("Collected changed files", logfields.Path(root), logfields.Count(len(changed)))
	return changed, nil
}

func isChanged(fs *gogit.FileStatus) bool {
	if fs.Worktree == gogit.Deleted || (fs.Staging == gogit.Deleted && fs.Worktree != gogit.Untracked) {
		return false
	}
	return fs.Worktree != gogit.Unmodified || fs.Staging != gogit.Unmodified
}

// FilterChanged keeps the paths whose absolute form is in changed, preserving
// order.
func FilterChanged(paths []string, changed []string) []string {
	set := make(map[string]bool, len(changed))
	for _, c := range changed {
		set[filepath.Clean(c)] = true
		set[resolveSymlinks(c)] = true
	}
	var out []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if set[abs] || set[resolveSymlinks(abs)] {
			out = append(out, p)
		}
	}
	return out
}

// resolveSymlinks returns p with symlinks evaluated, or p when that fails.
// Temporary directories on some systems live behind a symlink, while go-git
// reports the resolved root.
func resolveSymlinks(p string) string {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return p
	}
	return resolved
}
