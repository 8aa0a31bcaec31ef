// Package prompts builds the text sent to the planner/reviewer and
// implementer agents. The controller only depends on the generate capability;
// everything role-specific lives here.
package prompts

import (
	"fmt"
	"strings"
)

// TouchedFilesHeading marks the requirements section that declares the file
// scope a changeset is allowed to touch in existing-project mode.
const TouchedFilesHeading = "## Touched Files"

// Planning builds the prompt that turns extracted document text into a
// requirements request. styleProfile is empty in new-project mode.
func Planning(docText, styleProfile string) string {
	var b strings.Builder
	b.WriteString("You are the planning agent of an automated development workflow.\n")
	b.WriteString("Analyze the planning document below and produce a requirements request in markdown.\n")
	b.WriteString("The requirements request is the ground truth for every later phase, so be explicit.\n\n")
	b.WriteString("It must contain:\n")
	b.WriteString("1. A short summary of the goal.\n")
	b.WriteString("2. Numbered, testable requirements.\n")
	b.WriteString(fmt.Sprintf("3. A '%s' section listing every file path the implementation may create or modify, one per line prefixed with '- '.\n\n", TouchedFilesHeading))
	if styleProfile != "" {
		b.WriteString("Match the conventions of the existing project:\n")
		b.WriteString(styleProfile)
		b.WriteString("\n\n")
	}
	b.WriteString("--- PLANNING DOCUMENT ---\n")
	b.WriteString(docText)
	return b.String()
}

// Implementation builds the implementer prompt. priorReview is empty on the
// first attempt and carries the latest review on re-entry.
func Implementation(requirements, priorReview string) string {
	var b strings.Builder
	b.WriteString("You are the implementation agent of an automated development workflow.\n")
	b.WriteString("Produce the COMPLETE contents of every file you create or change.\n")
	b.WriteString("Return each file as a fenced code block whose opening fence carries the path, for example:\n")
	b.WriteString("```go # src/server/main.go\n...full file contents...\n```\n")
	b.WriteString("Never return partial files or positional diffs. Whole files only.\n\n")
	if priorReview != "" {
		b.WriteString("A reviewer raised the following issues with your previous attempt. Address them:\n")
		b.WriteString("--- REVIEW ---\n")
		b.WriteString(priorReview)
		b.WriteString("\n\n")
	}
	b.WriteString("--- REQUIREMENTS REQUEST ---\n")
	b.WriteString(requirements)
	return b.String()
}

// Review builds the reviewer prompt for one round of the review loop.
func Review(diff, requirements string, round int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are the reviewing agent of an automated development workflow (round %d).\n", round))
	b.WriteString("Critique the applied change below against the requirements request.\n")
	b.WriteString("List concrete issues if there are any. If the change satisfies the requirements, say so plainly.\n\n")
	b.WriteString("--- REQUIREMENTS REQUEST ---\n")
	b.WriteString(requirements)
	b.WriteString("\n\n--- APPLIED CHANGE (unified diff) ---\n")
	b.WriteString(diff)
	return b.String()
}

// Judgement builds the prompt that classifies a review into one of the four
// verdicts the controller branches on.
func Judgement(review string) string {
	var b strings.Builder
	b.WriteString("You are the implementation agent. Classify the review below into exactly one verdict.\n")
	b.WriteString("Answer with a line of the form 'JUDGEMENT: <VERDICT>' followed by a one-line reason.\n")
	b.WriteString("Verdicts:\n")
	b.WriteString("  SUITABLE       - the change is acceptable as-is, no further work\n")
	b.WriteString("  CHANGES_NEEDED - the review found real problems that require a new implementation\n")
	b.WriteString("  HOLD           - the review is ambiguous or risky; a human must decide\n")
	b.WriteString("  UNNECESSARY    - the review raised a non-issue; no re-implementation is needed\n\n")
	b.WriteString("--- REVIEW ---\n")
	b.WriteString(review)
	return b.String()
}

// Validation builds the final reviewer call used when a review was judged
// unnecessary: a single re-confirmation of the current state.
func Validation(requirements, diff string) string {
	var b strings.Builder
	b.WriteString("You are the reviewing agent performing a final validation.\n")
	b.WriteString("Confirm whether the applied change satisfies the requirements request.\n")
	b.WriteString("Answer with a line of the form 'VALIDATION: CONFIRMED' or 'VALIDATION: REJECTED' followed by a short reason.\n\n")
	b.WriteString("--- REQUIREMENTS REQUEST ---\n")
	b.WriteString(requirements)
	b.WriteString("\n\n--- APPLIED CHANGE (unified diff) ---\n")
	b.WriteString(diff)
	return b.String()
}

// CommitMessage derives the commit message used when the controller owns the
// whole tree's history for the run.
func CommitMessage(docName string) string {
	return fmt.Sprintf("feat: Implemented features from %s", docName)
}
