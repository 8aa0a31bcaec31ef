package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a throwaway git repository with identity configured, or
// skips the test when git is not installed.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	root := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
	} {
		cmd := exec.Command("git", append([]string{"-C", root}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return root
}

func TestIsRepository(t *testing.T) {
	root := initRepo(t)
	assert.True(t, IsRepository(root))
	assert.False(t, IsRepository(t.TempDir()))
}

func TestStageAndCommit(t *testing.T) {
	root := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0644))

	staged, err := HasStagedChanges(root)
	require.NoError(t, err)
	assert.False(t, staged)

	require.NoError(t, StageAll(root))

	staged, err = HasStagedChanges(root)
	require.NoError(t, err)
	assert.True(t, staged)

	revision, err := Commit(root, "feat: Implemented features from plan.md", 30)
	require.NoError(t, err)
	assert.Len(t, revision, 40, "revision is a full SHA-1")

	staged, err = HasStagedChanges(root)
	require.NoError(t, err)
	assert.False(t, staged, "the commit consumed the staged changes")
}

func TestCommitWithNothingStagedFails(t *testing.T) {
	root := initRepo(t)
	_, err := Commit(root, "empty", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no staged changes")
}
