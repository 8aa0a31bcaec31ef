package workflow

import (
	"fmt"
	"strings"
)

// Phase is a state of the workflow controller's state machine.
type Phase int

const (
	PhasePlanning Phase = iota
	PhaseImplementing
	PhaseReviewing
	PhaseJudging
	PhaseValidating
	PhaseHoldForUser
	PhaseDoneSuccess
	PhaseDoneAborted
)

func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "PLANNING"
	case PhaseImplementing:
		return "IMPLEMENTING"
	case PhaseReviewing:
		return "REVIEWING"
	case PhaseJudging:
		return "JUDGING"
	case PhaseValidating:
		return "VALIDATING"
	case PhaseHoldForUser:
		return "HOLD_FOR_USER"
	case PhaseDoneSuccess:
		return "DONE_SUCCESS"
	case PhaseDoneAborted:
		return "DONE_ABORTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(p))
	}
}

// Terminal reports whether the controller returns to its caller from this
// phase. No transition leaves a terminal phase automatically.
func (p Phase) Terminal() bool {
	return p == PhaseHoldForUser || p == PhaseDoneSuccess || p == PhaseDoneAborted
}

// Judgement is the implementer's classification of a review. Exactly one per
// round.
type Judgement int

const (
	JudgementUnknown Judgement = iota
	JudgementSuitable
	JudgementChangesNeeded
	JudgementHold
	JudgementUnnecessary
)

func (j Judgement) String() string {
	switch j {
	case JudgementSuitable:
		return "SUITABLE"
	case JudgementChangesNeeded:
		return "CHANGES_NEEDED"
	case JudgementHold:
		return "HOLD"
	case JudgementUnnecessary:
		return "UNNECESSARY"
	default:
		return "UNKNOWN"
	}
}

// ParseJudgement extracts the verdict from an implementer's judgement
// response. It prefers an explicit "JUDGEMENT: <VERDICT>" line and falls back
// to scanning the whole text for a verdict keyword.
func ParseJudgement(text string) (Judgement, error) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		if strings.HasPrefix(upper, "JUDGEMENT:") {
			return matchVerdict(upper)
		}
	}
	if j, err := matchVerdict(strings.ToUpper(text)); err == nil {
		return j, nil
	}
	return JudgementUnknown, fmt.Errorf("no judgement verdict found in response")
}

// matchVerdict maps verdict keywords inside a string to a Judgement. Order
// matters: UNNECESSARY must be checked before the bare substring matching of
// the others could misfire.
func matchVerdict(upper string) (Judgement, error) {
	switch {
	case strings.Contains(upper, "CHANGES_NEEDED"), strings.Contains(upper, "CHANGES NEEDED"):
		return JudgementChangesNeeded, nil
	case strings.Contains(upper, "UNNECESSARY"):
		return JudgementUnnecessary, nil
	case strings.Contains(upper, "SUITABLE"):
		return JudgementSuitable, nil
	case strings.Contains(upper, "HOLD"):
		return JudgementHold, nil
	default:
		return JudgementUnknown, fmt.Errorf("unrecognized verdict")
	}
}

// ParseValidation reports whether a validation response re-confirms
// acceptability. Anything that is not an affirmative confirmation counts as a
// rejection, including negated uses of the keyword.
func ParseValidation(text string) bool {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "VALIDATION: REJECTED") {
		return false
	}
	if strings.Contains(upper, "VALIDATION: CONFIRMED") {
		return true
	}
	for _, negation := range []string{"NOT CONFIRMED", "CANNOT BE CONFIRMED", "CAN'T BE CONFIRMED", "UNCONFIRMED"} {
		if strings.Contains(upper, negation) {
			return false
		}
	}
	return strings.Contains(upper, "CONFIRMED")
}
