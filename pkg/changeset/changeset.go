// Package changeset holds the whole-file change representation produced by
// the implementer and the policy for applying it to a working tree.
//
// The authoritative mechanism is full-content overwrite: the implementer
// returns complete file contents for every touched path. A unified diff is
// derived afterwards purely as an audit artifact and is never the input to
// mutation.
package changeset

import (
	"fmt"
	"sort"
)

// FileChange is the complete replacement content for one file.
type FileChange struct {
	Path    string
	Content string
}

// Changeset is an ordered set of proposed full file contents. Immutable once
// produced; the applier never modifies it.
type Changeset struct {
	Files []FileChange
}

// Paths returns the touched paths in changeset order.
func (cs *Changeset) Paths() []string {
	paths := make([]string, 0, len(cs.Files))
	for _, f := range cs.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// IsEmpty reports whether the changeset proposes no file changes.
func (cs *Changeset) IsEmpty() bool {
	return cs == nil || len(cs.Files) == 0
}

// RejectedError signals that the applier refused a changeset. The working
// tree is untouched when this is returned.
type RejectedError struct {
	Path   string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("changeset rejected: %s: %s", e.Path, e.Reason)
}

// inScope reports whether path is one of the declared touched files. A nil
// scope means no restriction (new-project mode).
func inScope(path string, scope []string) bool {
	if scope == nil {
		return true
	}
	i := sort.SearchStrings(scope, path)
	return i < len(scope) && scope[i] == path
}
