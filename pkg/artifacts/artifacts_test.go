package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRead(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, false)
	require.NoError(t, err)

	require.NoError(t, store.Write(SlotRequirements, "# Requirements\n"))

	content, err := store.Read(SlotRequirements)
	require.NoError(t, err)
	assert.Equal(t, "# Requirements\n", content)

	assert.Equal(t, filepath.Join(root, ".naoko", "artifacts", "requirements_request.md"),
		store.Path(SlotRequirements))
}

func TestWriteReplacesPreviousRound(t *testing.T) {
	store, err := NewStore(t.TempDir(), false)
	require.NoError(t, err)

	require.NoError(t, store.Write(SlotReview, "round 1 review"))
	require.NoError(t, store.Write(SlotReview, "round 2 review"))

	content, err := store.Read(SlotReview)
	require.NoError(t, err)
	assert.Equal(t, "round 2 review", content)
}

func TestDryRunStoreWritesNothing(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, true)
	require.NoError(t, err)

	require.NoError(t, store.Write(SlotPatch, "+added line"))

	_, err = os.Stat(filepath.Join(root, ".naoko"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadMissingSlot(t *testing.T) {
	store, err := NewStore(t.TempDir(), false)
	require.NoError(t, err)
	_, err = store.Read(SlotSummary)
	assert.Error(t, err)
}
