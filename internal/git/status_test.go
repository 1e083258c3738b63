package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
	"git.home.luguber.info/inful/docsflow/internal/testutil"
)

func initRepo(t *testing.T) string {
	t.Helper()
	_, w, dir := testutil.SetupTestGitRepo(t)
	testutil.WriteTree(t, dir, map[string]string{
		"docs/stable.md":  "# Stable\n",
		"docs/edited.md":  "# Edited\n",
		"docs/removed.md": "# Removed\n",
	})
	testutil.CommitAll(t, w, "Initial commit")
	return dir
}

func TestChangedFiles(t *testing.T) {
	dir := initRepo(t)
	testutil.WriteTree(t, dir, map[string]string{
		"docs/edited.md": "# Edited\n\nMore.\n",
		"docs/new.md":    "# New\n",
	})
	require.NoError(t, os.Remove(filepath.Join(dir, "docs", "removed.md")))

	changed, err := ChangedFiles(filepath.Join(dir, "docs"))
	require.NoError(t, err)

	var names []string
	for _, c := range changed {
		names = append(names, filepath.Base(c))
	}
	assert.Equal(t, []string{"edited.md", "new.md"}, names)
}

func TestChangedFiles_CleanTree(t *testing.T) {
	dir := initRepo(t)
	changed, err := ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestChangedFiles_NotARepository(t *testing.T) {
	_, err := ChangedFiles(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
}

func TestFilterChanged(t *testing.T) {
	dir := initRepo(t)
	testutil.WriteTree(t, dir, map[string]string{"docs/edited.md": "# Edited again\n"})
	changed, err := ChangedFiles(dir)
	require.NoError(t, err)

	paths := []string{
		filepath.Join(dir, "docs", "stable.md"),
		filepath.Join(dir, "docs", "edited.md"),
	}
	assert.Equal(t, paths[1:], FilterChanged(paths, changed))
	assert.Empty(t, FilterChanged(paths, nil))
}
