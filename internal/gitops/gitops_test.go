package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = Identity{Name: "Test Author", Email: "test@example.com"}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir))
}

func TestCommitAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal.csv"), []byte("entry_id\n"), 0o644))

	changed, err := HasChanges(ctx, dir)
	require.NoError(t, err)
	assert.True(t, changed)

	hash, err := CommitAll(ctx, dir, "close: 2025-01", testID)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, dir, "%s"), "close: 2025-01")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Test Author <test@example.com>")
	assert.Contains(t, gitLog(t, dir, "%cn"), "Test Author")
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	_, err := CommitAll(ctx, dir, "first", testID)
	require.NoError(t, err)

	hash, err := CommitAll(ctx, dir, "second", testID)
	require.NoError(t, err)
	assert.Empty(t, hash)
	assert.Contains(t, gitLog(t, dir, "%s"), "first")
}

func TestHasChanges_NotARepo(t *testing.T) {
	_, err := HasChanges(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git status")
}

func TestHead(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	hash, err := Head(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, hash, "no commits yet")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	committed, err := CommitAll(ctx, dir, "first", testID)
	require.NoError(t, err)

	hash, err = Head(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, committed, hash)
}
