package workflow

import (
	"context"

	"github.com/alantheprice/naoko/pkg/artifacts"
	"github.com/alantheprice/naoko/pkg/changeset"
	"github.com/alantheprice/naoko/pkg/docparse"
	"github.com/alantheprice/naoko/pkg/history"
)

// Agent is the narrow generate capability the controller depends on. Both
// the planner/reviewer and the implementer satisfy it.
type Agent interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor turns a planning document into text. Unsupported formats yield
// empty text, not an error.
type Extractor func(path string) (docparse.PlanningInput, error)

// Collector produces the style/context summary for an entry point in
// existing-project mode. A nil Collector skips the step.
type Collector func(entryPoint string) (string, error)

// Applier applies a changeset to the working tree. A nil scope means no
// touched-file restriction.
type Applier interface {
	Apply(root string, cs *changeset.Changeset, scope []string) error
}

// Committer performs the version-control side effects of completion.
type Committer interface {
	StageAll(root string) error
	Commit(root, message string) (revisionID string, err error)
}

// ArtifactSink receives each phase's textual output, addressed by slot name.
type ArtifactSink interface {
	Write(slot artifacts.Slot, content string) error
}

// Recorder persists the session and its round records. A nil Recorder
// disables persistence (used by tests and dry runs without a writable root).
type Recorder interface {
	BeginSession(ctx context.Context, row history.SessionRow) error
	RecordRound(ctx context.Context, row history.RoundRow) error
	FinishSession(ctx context.Context, sessionID, finalPhase, reason string) error
}
