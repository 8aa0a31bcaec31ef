package workflow

import (
	"github.com/google/uuid"
)

// Mode distinguishes runs that target a fresh tree from runs that modify an
// existing project.
type Mode int

const (
	// ModeNewProject: the controller owns the whole tree's history for this
	// run, so committing on success is permitted.
	ModeNewProject Mode = iota
	// ModeExistingProject: a human owns the history; the applied changeset is
	// left staged for review and the touched-file scope is enforced.
	ModeExistingProject
)

func (m Mode) String() string {
	if m == ModeExistingProject {
		return "existing-project"
	}
	return "new-project"
}

// Session is one run of the pipeline. It is owned exclusively by the
// controller for the run's lifetime and discarded after completion; the
// artifacts and history rows persist, the session object does not.
type Session struct {
	ID         string
	Root       string
	DocPath    string
	EntryPoint string // non-empty signals existing-project mode
	DryRun     bool
	MaxRounds  int

	Phase   Phase
	Round   int // current review round, 1-based once the loop starts
	Records []RoundRecord
}

// NewSession creates a session at the start of an invocation.
func NewSession(root, docPath, entryPoint string, maxRounds int, dryRun bool) *Session {
	if maxRounds <= 0 {
		maxRounds = 5
	}
	return &Session{
		ID:         uuid.NewString(),
		Root:       root,
		DocPath:    docPath,
		EntryPoint: entryPoint,
		DryRun:     dryRun,
		MaxRounds:  maxRounds,
		Phase:      PhasePlanning,
	}
}

// Mode derives the session mode from the entry point.
func (s *Session) Mode() Mode {
	if s.EntryPoint != "" {
		return ModeExistingProject
	}
	return ModeNewProject
}

// RoundRecord is one append-only entry of the review-loop audit trail.
type RoundRecord struct {
	Round          int
	Review         string
	Judgement      Judgement
	ChangesetPaths []string // paths applied in the implementation this round reviewed
	Outcome        string   // what the controller did with the judgement
}

// Outcome is what the controller hands back to its caller from a terminal
// phase.
type Outcome struct {
	SessionID string
	Phase     Phase
	Reason    string
	Rounds    int
	Records   []RoundRecord
	CommitID  string // set only when a commit side effect happened

	// Pending review and judgement, attached when the run holds for a human.
	PendingReview    string
	PendingJudgement Judgement
}
