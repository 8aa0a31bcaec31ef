package changeset

import (
	"regexp"
	"strings"
)

var (
	// startOfBlockRegex matches the beginning of a fenced code block, e.g.
	// ``` or ```go, capturing the language identifier when present.
	startOfBlockRegex    = regexp.MustCompile("^\\s*[>|]*```(\\S*)")
	hardEndOfBlockString = "```END" // Explicit end marker
)

// isHardEndOfCodeBlock checks if a line is the explicit "```END" marker.
func isHardEndOfCodeBlock(line string) bool {
	return strings.TrimSpace(line) == hardEndOfBlockString
}

// isStartOfCodeBlock checks if a line marks the beginning of a code block and
// returns the detected language, if any.
func isStartOfCodeBlock(line string) (bool, string) {
	if isHardEndOfCodeBlock(line) {
		return false, ""
	}
	matches := startOfBlockRegex.FindStringSubmatch(line)
	if len(matches) > 0 {
		return true, strings.ToLower(matches[1])
	}
	return false, ""
}

// isEndOfCodeBlock checks if a line marks the end of a code block. The plain
// "```" fallback does not apply inside markdown blocks, which may contain
// nested fences.
func isEndOfCodeBlock(line string, currentLanguage string) bool {
	if isHardEndOfCodeBlock(line) {
		return true
	}
	if strings.TrimSpace(line) == "```" {
		return currentLanguage != "markdown" && currentLanguage != "md"
	}
	return false
}

// extractFilename pulls a file path from a fence or comment line of the form
// "```go # path/to/file.go" or "# path/to/file.go".
func extractFilename(line string) string {
	parts := strings.Split(line, "#")
	if len(parts) < 2 {
		return ""
	}
	potentialFilename := strings.TrimSpace(parts[len(parts)-1])
	if potentialFilename == "" {
		return ""
	}
	// Take the first component, in case there are comments after the filename
	return strings.Fields(potentialFilename)[0]
}

func validateFilename(filename string) bool {
	if filename == "" {
		return false
	}
	parts := strings.Split(strings.Trim(filename, "."), ".")
	return len(parts) > 1 && parts[0] != ""
}

// Parse extracts the filename-tagged code blocks from an implementer response
// into an ordered changeset. Blocks without a resolvable filename are
// ignored; a later block for the same path wins.
func Parse(response string) *Changeset {
	var order []string
	contents := make(map[string]string)

	var currentFileContent strings.Builder
	var currentFileName string
	var currentLanguage string
	inCodeBlock := false

	lines := strings.Split(response, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		isStart, lang := isStartOfCodeBlock(line)
		if !inCodeBlock && isStart {
			filename := extractFilename(line)
			if validateFilename(filename) {
				inCodeBlock = true
				currentFileName = filename
				currentLanguage = lang
				currentFileContent.Reset()
				continue
			}

			// No valid filename on the fence line; check the next line for a
			// "# path" comment and consume it when found.
			if i+1 < len(lines) {
				filenameOnNextLine := extractFilename(lines[i+1])
				if validateFilename(filenameOnNextLine) {
					inCodeBlock = true
					currentFileName = filenameOnNextLine
					currentLanguage = lang
					currentFileContent.Reset()
					i++
					continue
				}
			}
			// A start fence without a filename is prose, not a file. Skip it.
		} else if inCodeBlock && isEndOfCodeBlock(line, currentLanguage) {
			inCodeBlock = false
			if currentFileName != "" {
				if _, seen := contents[currentFileName]; !seen {
					order = append(order, currentFileName)
				}
				contents[currentFileName] = strings.TrimSuffix(currentFileContent.String(), "\n")
				currentFileName = ""
				currentLanguage = ""
			}
		} else if inCodeBlock {
			currentFileContent.WriteString(line + "\n")
		}
	}

	cs := &Changeset{}
	for _, path := range order {
		cs.Files = append(cs.Files, FileChange{Path: path, Content: contents[path]})
	}
	return cs
}
