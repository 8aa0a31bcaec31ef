package prompts

import "strings"

// ParseTouchedFiles extracts the declared touched-file scope from a
// requirements request. It returns the bullet entries of the touched-files
// section, raw and in order; callers normalize them for scope checks.
func ParseTouchedFiles(requirements string) []string {
	var paths []string
	inSection := false
	for _, line := range strings.Split(requirements, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			inSection = strings.EqualFold(trimmed, TouchedFilesHeading)
			continue
		}
		if !inSection || trimmed == "" {
			continue
		}
		entry := trimmed
		for _, prefix := range []string{"- ", "* ", "-", "*"} {
			if strings.HasPrefix(entry, prefix) {
				entry = strings.TrimSpace(strings.TrimPrefix(entry, prefix))
				break
			}
		}
		entry = strings.Trim(entry, "`")
		if entry != "" {
			paths = append(paths, entry)
		}
	}
	return paths
}
