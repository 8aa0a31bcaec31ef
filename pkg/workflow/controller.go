// Package workflow contains the workflow controller: the phase state
// machine, the bounded review loop, the patch-application policy, and the
// judgement branching that decides whether to keep iterating, pause for a
// human, or stop.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alantheprice/naoko/pkg/agents"
	"github.com/alantheprice/naoko/pkg/artifacts"
	"github.com/alantheprice/naoko/pkg/changeset"
	"github.com/alantheprice/naoko/pkg/history"
	"github.com/alantheprice/naoko/pkg/prompts"
	"github.com/alantheprice/naoko/pkg/utils"
)

// Abort reasons that callers and tests match on.
const (
	ReasonEmptyDocument      = "unsupported or empty document"
	ReasonRoundLimitExceeded = "round limit exceeded"
	ReasonCancelled          = "cancelled at phase boundary"
	ReasonNoDeclaredScope    = "requirements request declares no touched files"
)

// Dependencies are the external collaborators the controller drives. All
// calls are synchronous; the controller never retries a failed collaborator
// itself.
type Dependencies struct {
	Planner     Agent
	Implementer Agent
	Extract     Extractor
	Collect     Collector // nil skips the style/context step
	Applier     Applier
	Committer   Committer
	Artifacts   ArtifactSink
	Recorder    Recorder // nil disables history persistence
}

// Controller sequences Planning -> Implementation -> Review Loop ->
// Completion for a single session. It owns the round counter and is the only
// component with control-flow decisions.
type Controller struct {
	deps    Dependencies
	logger  *utils.Logger
	session *Session

	// Phase outputs, immutable once written within a run.
	requirements string
	scope        []string // declared touched files, existing-project mode only
	lastDiff     string
	lastPaths    []string
	lastReview   string

	outcome Outcome
}

// NewController wires a controller for one session.
func NewController(deps Dependencies, session *Session, logger *utils.Logger) *Controller {
	return &Controller{deps: deps, session: session, logger: logger}
}

// Run drives the state machine to a terminal phase and returns the outcome.
// The caller may cancel between phases via ctx; the working tree is always
// left in the last fully applied state.
func (c *Controller) Run(ctx context.Context) *Outcome {
	c.recordSessionStart(ctx)

	for !c.session.Phase.Terminal() {
		if ctx.Err() != nil {
			c.abort(ReasonCancelled)
			break
		}
		switch c.session.Phase {
		case PhasePlanning:
			c.runPlanning(ctx)
		case PhaseImplementing:
			c.runImplementing(ctx)
		case PhaseReviewing:
			c.runReviewing(ctx)
		case PhaseJudging:
			c.runJudging(ctx)
		case PhaseValidating:
			c.runValidating(ctx)
		}
	}

	return c.finish(ctx)
}

// runPlanning extracts the document, optionally collects style context, and
// asks the planner for the requirements request.
func (c *Controller) runPlanning(ctx context.Context) {
	c.logger.LogPhase("Phase 1: Planning")

	input, err := c.deps.Extract(c.session.DocPath)
	if err != nil {
		c.abort(err.Error())
		return
	}
	if input.IsEmpty() {
		// The pipeline must not attempt implementation against no
		// requirements.
		c.abort(ReasonEmptyDocument)
		return
	}
	c.logger.Logf("Extracted %d chars from %s (%s)", len(input.Text), input.Source, input.Format)

	styleProfile := ""
	if c.session.Mode() == ModeExistingProject && c.deps.Collect != nil {
		styleProfile, err = c.deps.Collect(c.session.EntryPoint)
		if err != nil {
			c.abort(fmt.Sprintf("context collection failed: %v", err))
			return
		}
	}

	requirements, err := c.generate(ctx, c.deps.Planner, prompts.Planning(input.Text, styleProfile))
	if err != nil {
		return
	}
	if strings.TrimSpace(requirements) == "" {
		c.abort("planning produced an empty requirements request")
		return
	}

	c.requirements = requirements
	if c.session.Mode() == ModeExistingProject {
		c.scope = changeset.NormalizeScope(prompts.ParseTouchedFiles(requirements))
		if len(c.scope) == 0 {
			// Scope enforcement fails closed: without a declared file list
			// there is nothing a changeset may legally touch.
			c.abort(ReasonNoDeclaredScope)
			return
		}
	}
	if err := c.deps.Artifacts.Write(artifacts.SlotRequirements, requirements); err != nil {
		c.abort(err.Error())
		return
	}

	c.session.Phase = PhaseImplementing
}

// runImplementing asks the implementer for a changeset and applies it. The
// latest review, when present, is folded into the prompt on re-entry.
func (c *Controller) runImplementing(ctx context.Context) {
	if c.session.Round == 0 {
		c.logger.LogPhase("Phase 2: Implementation")
	} else {
		c.logger.LogProcessStep(fmt.Sprintf("Re-implementing after round %d review", c.session.Round))
	}

	response, err := c.generate(ctx, c.deps.Implementer, prompts.Implementation(c.requirements, c.lastReview))
	if err != nil {
		return
	}

	cs := changeset.Parse(response)
	if cs.IsEmpty() {
		c.abort("implementer returned no file changes")
		return
	}

	// The diff is a derived audit artifact, computed against the pre-apply
	// tree; whole-file overwrite is the mechanism of application.
	diff := changeset.Diff(c.session.Root, cs)

	scope := c.scope
	if c.session.Mode() == ModeNewProject {
		scope = nil
	}
	if err := c.deps.Applier.Apply(c.session.Root, cs, scope); err != nil {
		// Never silently continue past a failed application.
		c.abort(err.Error())
		return
	}

	c.lastDiff = diff
	c.lastPaths = cs.Paths()
	additions, deletions := changeset.Stats(diff)
	c.logger.LogProcessStep(fmt.Sprintf("Applied changeset: %d file(s), +%d -%d", len(cs.Files), additions, deletions))
	if err := c.deps.Artifacts.Write(artifacts.SlotPatch, diff); err != nil {
		c.abort(err.Error())
		return
	}

	c.session.Phase = PhaseReviewing
}

// runReviewing starts a new round and asks the reviewer to critique the
// latest applied changeset against the requirements.
func (c *Controller) runReviewing(ctx context.Context) {
	c.session.Round++
	c.logger.LogPhase(fmt.Sprintf("Phase 3: Review round %d/%d", c.session.Round, c.session.MaxRounds))

	review, err := c.generate(ctx, c.deps.Planner, prompts.Review(c.lastDiff, c.requirements, c.session.Round))
	if err != nil {
		return
	}

	c.lastReview = review
	if err := c.deps.Artifacts.Write(artifacts.SlotReview, review); err != nil {
		c.abort(err.Error())
		return
	}

	c.session.Phase = PhaseJudging
}

// runJudging classifies the review and branches. This is the only place the
// loop continues, pauses, or stops.
func (c *Controller) runJudging(ctx context.Context) {
	response, err := c.generate(ctx, c.deps.Implementer, prompts.Judgement(c.lastReview))
	if err != nil {
		return
	}

	judgement, parseErr := ParseJudgement(response)
	if parseErr != nil {
		c.abort(fmt.Sprintf("implementer returned an unclassifiable judgement: %v", parseErr))
		return
	}
	if err := c.deps.Artifacts.Write(artifacts.SlotJudgement, response); err != nil {
		c.abort(err.Error())
		return
	}
	c.logger.LogProcessStep(fmt.Sprintf("Round %d judgement: %s", c.session.Round, judgement))

	// Exhaustive branch over the verdict; an unknown value was rejected above.
	switch judgement {
	case JudgementSuitable:
		c.appendRecord(ctx, judgement, "accepted")
		c.session.Phase = PhaseValidating
	case JudgementUnnecessary:
		c.appendRecord(ctx, judgement, "review dismissed, validating current state")
		c.session.Phase = PhaseValidating
	case JudgementHold:
		// Terminal regardless of the round counter. Resuming is an explicit
		// external action, not an automatic retry.
		c.appendRecord(ctx, judgement, "suspended for human confirmation")
		c.outcome.PendingReview = c.lastReview
		c.outcome.PendingJudgement = judgement
		c.session.Phase = PhaseHoldForUser
	case JudgementChangesNeeded:
		if c.session.Round >= c.session.MaxRounds {
			// The loop must not exceed the configured bound even if the agent
			// keeps requesting changes.
			c.appendRecord(ctx, judgement, ReasonRoundLimitExceeded)
			c.abort(fmt.Sprintf("%s: %d rounds without convergence", ReasonRoundLimitExceeded, c.session.Round))
			return
		}
		c.appendRecord(ctx, judgement, "re-implementing")
		c.session.Phase = PhaseImplementing
	}
}

// runValidating completes the run. A SUITABLE verdict goes straight to
// success; an UNNECESSARY verdict triggers exactly one reviewer
// re-confirmation of the current state.
func (c *Controller) runValidating(ctx context.Context) {
	last := c.lastJudgement()
	if last == JudgementSuitable {
		c.session.Phase = PhaseDoneSuccess
		return
	}

	c.logger.LogProcessStep("Validating current state after dismissed review")
	response, err := c.generate(ctx, c.deps.Planner, prompts.Validation(c.requirements, c.lastDiff))
	if err != nil {
		return
	}
	if !ParseValidation(response) {
		c.abort("validation did not confirm acceptability")
		return
	}
	c.session.Phase = PhaseDoneSuccess
}

// generate calls an agent and maps failures to an aborted run. Unavailable
// tools and malformed generations are both fatal for the current phase.
func (c *Controller) generate(ctx context.Context, agent Agent, prompt string) (string, error) {
	output, err := agent.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, agents.ErrUnavailable) {
			c.abort(err.Error())
		} else {
			c.abort(fmt.Sprintf("agent %s error: %v", agent.Name(), err))
		}
		return "", err
	}
	return output, nil
}

// appendRecord appends one round record to the session audit trail and to
// the recorder, when configured.
func (c *Controller) appendRecord(ctx context.Context, judgement Judgement, outcome string) {
	record := RoundRecord{
		Round:          c.session.Round,
		Review:         c.lastReview,
		Judgement:      judgement,
		ChangesetPaths: append([]string{}, c.lastPaths...),
		Outcome:        outcome,
	}
	c.session.Records = append(c.session.Records, record)

	if c.deps.Recorder != nil {
		row := history.RoundRow{
			SessionID: c.session.ID,
			Round:     record.Round,
			Review:    record.Review,
			Judgement: record.Judgement.String(),
			PatchHash: utils.GenerateRequestHash(c.lastDiff),
			Outcome:   record.Outcome,
		}
		if err := c.deps.Recorder.RecordRound(ctx, row); err != nil {
			c.logger.Logf("Failed to persist round record: %v", err)
		}
	}
}

// lastJudgement returns the verdict of the most recent round, or unknown
// before the first round completes.
func (c *Controller) lastJudgement() Judgement {
	if len(c.session.Records) == 0 {
		return JudgementUnknown
	}
	return c.session.Records[len(c.session.Records)-1].Judgement
}

// abort moves the session to DONE_ABORTED with the failure surfaced
// verbatim.
func (c *Controller) abort(reason string) {
	c.logger.Logf("Aborting session %s: %s", c.session.ID, reason)
	c.outcome.Reason = reason
	c.session.Phase = PhaseDoneAborted
}

// finish performs completion side effects and builds the outcome handed back
// to the caller.
func (c *Controller) finish(ctx context.Context) *Outcome {
	if c.session.Phase == PhaseDoneSuccess {
		if err := c.complete(); err != nil {
			c.abort(err.Error())
		}
	}

	c.outcome.SessionID = c.session.ID
	c.outcome.Phase = c.session.Phase
	c.outcome.Rounds = c.session.Round
	c.outcome.Records = append([]RoundRecord{}, c.session.Records...)

	if c.deps.Recorder != nil {
		if err := c.deps.Recorder.FinishSession(ctx, c.session.ID, c.session.Phase.String(), c.outcome.Reason); err != nil {
			c.logger.Logf("Failed to persist session outcome: %v", err)
		}
	}
	return &c.outcome
}

// complete runs the commit-or-stage side effect of DONE_SUCCESS. Automatic
// commits are only permitted in new-project mode, where the controller owns
// the entire tree's history for this run.
func (c *Controller) complete() error {
	c.logger.LogPhase("Phase 4: Completion")

	summary := c.buildSummary()
	if err := c.deps.Artifacts.Write(artifacts.SlotSummary, summary); err != nil {
		return err
	}

	if err := c.deps.Committer.StageAll(c.session.Root); err != nil {
		return err
	}
	if c.session.Mode() == ModeExistingProject {
		c.logger.LogProcessStep("Existing-project mode: changeset left staged for human review")
		return nil
	}

	message := prompts.CommitMessage(filepath.Base(c.session.DocPath))
	if !c.logger.AskForConfirmation(fmt.Sprintf("Commit the applied changeset as %q?", message), true, false) {
		c.logger.LogProcessStep("Commit declined: changeset left staged")
		return nil
	}
	revision, err := c.deps.Committer.Commit(c.session.Root, message)
	if err != nil {
		return err
	}
	c.outcome.CommitID = revision
	if revision != "" {
		c.logger.LogProcessStep(fmt.Sprintf("Committed %s", revision))
	}
	return nil
}

// buildSummary renders the run summary artifact from the session audit
// trail.
func (c *Controller) buildSummary() string {
	var b strings.Builder
	b.WriteString("# Workflow Summary\n\n")
	b.WriteString(fmt.Sprintf("- Session: %s\n", c.session.ID))
	b.WriteString(fmt.Sprintf("- Completed: %s\n", utils.GetTimestamp()))
	b.WriteString(fmt.Sprintf("- Document: %s\n", c.session.DocPath))
	b.WriteString(fmt.Sprintf("- Mode: %s\n", c.session.Mode()))
	b.WriteString(fmt.Sprintf("- Review rounds: %d\n", c.session.Round))
	b.WriteString("\n## Rounds\n")
	for _, r := range c.session.Records {
		b.WriteString(fmt.Sprintf("- Round %d: %s (%s)\n", r.Round, r.Judgement, r.Outcome))
	}
	return b.String()
}

// recordSessionStart persists the session row before the first phase runs.
func (c *Controller) recordSessionStart(ctx context.Context) {
	if c.deps.Recorder == nil {
		return
	}
	row := history.SessionRow{
		SessionID: c.session.ID,
		DocPath:   c.session.DocPath,
		Mode:      c.session.Mode().String(),
		MaxRounds: c.session.MaxRounds,
		DryRun:    c.session.DryRun,
	}
	if err := c.deps.Recorder.BeginSession(ctx, row); err != nil {
		c.logger.Logf("Failed to persist session start: %v", err)
	}
}
