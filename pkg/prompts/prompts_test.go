package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTouchedFiles(t *testing.T) {
	requirements := `# Requirements

1. Add a health endpoint.

## Touched Files
- main.go
* pkg/server/http.go
- ` + "`pkg/server/http_test.go`" + `

## Acceptance
- responds with 200
`
	got := ParseTouchedFiles(requirements)
	assert.Equal(t, []string{"main.go", "pkg/server/http.go", "pkg/server/http_test.go"}, got)
}

func TestParseTouchedFilesCaseInsensitiveHeading(t *testing.T) {
	got := ParseTouchedFiles("## touched files\n- a.go\n")
	assert.Equal(t, []string{"a.go"}, got)
}

func TestParseTouchedFilesMissingSection(t *testing.T) {
	assert.Empty(t, ParseTouchedFiles("# Requirements\n\n1. Do things.\n"))
	assert.Empty(t, ParseTouchedFiles(""))
}

func TestParseTouchedFilesStopsAtNextHeading(t *testing.T) {
	got := ParseTouchedFiles("## Touched Files\n- a.go\n### Notes\n- this is not a file\n")
	assert.Equal(t, []string{"a.go"}, got)
}

func TestPlanningPromptIncludesStyleProfile(t *testing.T) {
	withProfile := Planning("doc text", "- Indentation: tabs")
	assert.Contains(t, withProfile, "doc text")
	assert.Contains(t, withProfile, "Indentation: tabs")
	assert.Contains(t, withProfile, TouchedFilesHeading)

	withoutProfile := Planning("doc text", "")
	assert.NotContains(t, withoutProfile, "conventions of the existing project")
}

func TestImplementationPromptCarriesPriorReview(t *testing.T) {
	first := Implementation("the requirements", "")
	assert.NotContains(t, first, "previous attempt")

	retry := Implementation("the requirements", "fix the error handling")
	assert.Contains(t, retry, "fix the error handling")
	assert.True(t, strings.Index(retry, "fix the error handling") < strings.Index(retry, "the requirements"),
		"the review precedes the requirements so the fix context comes first")
}

func TestJudgementPromptNamesAllVerdicts(t *testing.T) {
	p := Judgement("some review")
	for _, verdict := range []string{"SUITABLE", "CHANGES_NEEDED", "HOLD", "UNNECESSARY"} {
		assert.Contains(t, p, verdict)
	}
	assert.Contains(t, p, "JUDGEMENT: <VERDICT>")
}

func TestValidationPromptMandatesAnswerFormat(t *testing.T) {
	p := Validation("reqs", "diff")
	assert.Contains(t, p, "VALIDATION: CONFIRMED")
	assert.Contains(t, p, "VALIDATION: REJECTED")
}

func TestCommitMessage(t *testing.T) {
	assert.Equal(t, "feat: Implemented features from plan.md", CommitMessage("plan.md"))
}
