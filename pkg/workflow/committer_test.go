package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/naoko/pkg/utils"
)

func TestDryCommitterSimulatesRevision(t *testing.T) {
	c := &DryCommitter{Logger: utils.GetLogger(true)}
	require.NoError(t, c.StageAll(t.TempDir()))

	revision, err := c.Commit(t.TempDir(), "message")
	require.NoError(t, err)
	assert.Equal(t, "dry-run", revision)
}

func TestNoGitCommitterIsSilentNoOp(t *testing.T) {
	c := &NoGitCommitter{Logger: utils.GetLogger(true)}
	require.NoError(t, c.StageAll(t.TempDir()))

	revision, err := c.Commit(t.TempDir(), "message")
	require.NoError(t, err)
	assert.Empty(t, revision, "no revision is reported when git tracking is off")
}
