package workflow

import (
	"github.com/alantheprice/naoko/pkg/gitops"
	"github.com/alantheprice/naoko/pkg/utils"
)

// GitCommitter performs real staging and commits through git.
type GitCommitter struct {
	TimeoutSecs int
}

func (g *GitCommitter) StageAll(root string) error {
	return gitops.StageAll(root)
}

func (g *GitCommitter) Commit(root, message string) (string, error) {
	return gitops.Commit(root, message, g.TimeoutSecs)
}

// NoGitCommitter disables the version-control side effects for runs where git
// tracking is off or the root is not a git work tree. Completion still
// succeeds; nothing is staged or committed.
type NoGitCommitter struct {
	Logger *utils.Logger
}

func (n *NoGitCommitter) StageAll(root string) error {
	if n.Logger != nil {
		n.Logger.Logf("Git tracking disabled: not staging changes under %s", root)
	}
	return nil
}

func (n *NoGitCommitter) Commit(root, message string) (string, error) {
	if n.Logger != nil {
		n.Logger.Logf("Git tracking disabled: not committing %q", message)
	}
	return "", nil
}

// DryCommitter replaces the commit side effects in dry-run mode with no-ops
// that still produce a representative outcome, so the full state machine can
// be exercised without mutating repository history.
type DryCommitter struct {
	Logger *utils.Logger
}

func (d *DryCommitter) StageAll(root string) error {
	if d.Logger != nil {
		d.Logger.Logf("Dry-run: would stage all changes under %s", root)
	}
	return nil
}

func (d *DryCommitter) Commit(root, message string) (string, error) {
	if d.Logger != nil {
		d.Logger.Logf("Dry-run: would commit with message %q", message)
	}
	return "dry-run", nil
}
