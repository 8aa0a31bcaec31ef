package changeset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a unified-diff style audit artifact for the changeset against
// the current contents under root. It is computed before application and is
// never the mechanism of mutation.
func Diff(root string, cs *Changeset) string {
	var b strings.Builder
	for _, f := range cs.Files {
		oldContent := ""
		if data, err := os.ReadFile(filepath.Join(root, filepath.Clean(f.Path))); err == nil {
			oldContent = string(data)
		}
		b.WriteString(diffForFile(f.Path, oldContent, f.Content))
	}
	return b.String()
}

// diffForFile produces a line diff for one file with ---/+++ headers.
func diffForFile(path, oldContent, newContent string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("--- a/%s\n", path))
	b.WriteString(fmt.Sprintf("+++ b/%s\n", path))

	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitKeepNonEmpty(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// splitKeepNonEmpty splits a diff chunk into lines, dropping the trailing
// empty element produced by a final newline.
func splitKeepNonEmpty(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Stats summarizes added and removed lines across the whole changeset diff.
func Stats(diff string) (additions, deletions int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}
