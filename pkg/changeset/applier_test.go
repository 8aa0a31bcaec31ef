package changeset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/naoko/pkg/utils"
)

func testApplier(dryRun bool) *Applier {
	return NewApplier(dryRun, utils.GetLogger(true))
}

func TestApplyWritesWholeFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("old content"), 0644))

	cs := &Changeset{Files: []FileChange{
		{Path: "main.go", Content: "package main"},
		{Path: "pkg/server/http.go", Content: "package server"},
	}}

	require.NoError(t, testApplier(false).Apply(root, cs, nil))

	data, err := os.ReadFile(filepath.Join(root, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main", string(data), "existing files are fully overwritten")

	data, err = os.ReadFile(filepath.Join(root, "pkg", "server", "http.go"))
	require.NoError(t, err)
	assert.Equal(t, "package server", string(data), "parent directories are created")
}

func TestApplyIsIdempotent(t *testing.T) {
	root := t.TempDir()
	cs := &Changeset{Files: []FileChange{{Path: "a.go", Content: "package a"}}}

	applier := testApplier(false)
	require.NoError(t, applier.Apply(root, cs, nil))
	require.NoError(t, applier.Apply(root, cs, nil))

	data, err := os.ReadFile(filepath.Join(root, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "package a", string(data))
}

func TestApplyRejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	bad := []string{
		"../outside.go",
		"../../etc/passwd",
		"a/../../outside.go",
		"/etc/passwd",
		"",
	}
	for _, path := range bad {
		cs := &Changeset{Files: []FileChange{{Path: path, Content: "x"}}}
		err := testApplier(false).Apply(root, cs, nil)
		var rejected *RejectedError
		assert.ErrorAs(t, err, &rejected, "path %q must be rejected", path)
	}
}

func TestApplyRejectsBeforeAnyWrite(t *testing.T) {
	root := t.TempDir()
	cs := &Changeset{Files: []FileChange{
		{Path: "good.go", Content: "package good"},
		{Path: "../escape.go", Content: "x"},
	}}

	err := testApplier(false).Apply(root, cs, nil)
	require.Error(t, err)

	// Validation failed on the second file, so not even the first was written.
	_, statErr := os.Stat(filepath.Join(root, "good.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestApplyEnforcesScope(t *testing.T) {
	root := t.TempDir()
	scope := NormalizeScope([]string{"main.go", "pkg/server.go"})

	ok := &Changeset{Files: []FileChange{{Path: "main.go", Content: "package main"}}}
	require.NoError(t, testApplier(false).Apply(root, ok, scope))

	outOfScope := &Changeset{Files: []FileChange{{Path: "other.go", Content: "package other"}}}
	err := testApplier(false).Apply(root, outOfScope, scope)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "other.go", rejected.Path)
	assert.Contains(t, rejected.Reason, "scope")
}

func TestApplyNilScopeIsUnrestricted(t *testing.T) {
	root := t.TempDir()
	cs := &Changeset{Files: []FileChange{{Path: "anything/at/all.txt", Content: "ok"}}}
	assert.NoError(t, testApplier(false).Apply(root, cs, nil))
}

func TestApplyDryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	cs := &Changeset{Files: []FileChange{{Path: "main.go", Content: "package main"}}}

	require.NoError(t, testApplier(true).Apply(root, cs, nil))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplyRejectsEmptyChangeset(t *testing.T) {
	err := testApplier(false).Apply(t.TempDir(), &Changeset{}, nil)
	var rejected *RejectedError
	assert.ErrorAs(t, err, &rejected)
}

func TestApplyLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	cs := &Changeset{Files: []FileChange{{Path: "a.go", Content: "package a"}}}
	require.NoError(t, testApplier(false).Apply(root, cs, nil))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".naoko-apply-"), "temp file left behind: %s", e.Name())
	}
}

func TestNormalizeScope(t *testing.T) {
	got := NormalizeScope([]string{" main.go ", "b/../main.go", "pkg/x.go", "", ".", "pkg/x.go"})
	assert.Equal(t, []string{"main.go", "pkg/x.go"}, got)
}
