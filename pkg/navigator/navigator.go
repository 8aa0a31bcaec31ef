// Package navigator finds the files directly related to an entry point and
// summarizes their style, enriching the planner's context in
// existing-project mode.
package navigator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/alantheprice/naoko/pkg/utils"
)

// Navigator performs reachability traversal from an entry point.
type Navigator struct {
	root   string
	logger *utils.Logger
}

// New creates a navigator rooted at the project directory.
func New(root string, logger *utils.Logger) *Navigator {
	return &Navigator{root: root, logger: logger}
}

var (
	// Java-style explicit imports: import com.example.UserService;
	javaImportRegex = regexp.MustCompile(`import\s+([\w.]+);`)
	// Field declarations: private UserService userService;
	fieldRegex = regexp.MustCompile(`private\s+([A-Z]\w+)\s+\w+;`)
	// Generic collaborator-looking identifiers for non-Java entry points.
	collaboratorRegex = regexp.MustCompile(`\b([A-Z]\w*(?:Service|Repository|Client|Controller|Handler|Manager|DTO))\b`)
)

// commonTypeNames are framework or standard-library types that never map to
// project files.
var commonTypeNames = map[string]bool{
	"List": true, "Map": true, "String": true, "Integer": true, "Long": true,
	"ResponseEntity": true, "Optional": true, "Set": true, "Boolean": true,
}

// sourceExtensions are the extensions considered when resolving a candidate
// type name to a file.
var sourceExtensions = []string{".java", ".go", ".ts", ".py", ".kt", ".js", ".rb"}

// FindRelatedFiles reads the entry point and resolves the collaborator types
// it references to files in the project tree. The entry point itself is
// always the first result.
func (n *Navigator) FindRelatedFiles(entryPoint string) ([]string, error) {
	content, err := os.ReadFile(entryPoint)
	if err != nil {
		return nil, fmt.Errorf("entry point %s: %w", entryPoint, err)
	}

	names := make(map[string]bool)
	for _, m := range javaImportRegex.FindAllStringSubmatch(string(content), -1) {
		parts := strings.Split(m[1], ".")
		className := parts[len(parts)-1]
		if !strings.HasPrefix(m[1], "java.") && !strings.HasPrefix(m[1], "org.springframework.") {
			names[className] = true
		}
	}
	for _, m := range fieldRegex.FindAllStringSubmatch(string(content), -1) {
		names[m[1]] = true
	}
	for _, m := range collaboratorRegex.FindAllStringSubmatch(string(content), -1) {
		names[m[1]] = true
	}
	for name := range names {
		if commonTypeNames[name] {
			delete(names, name)
		}
	}

	index, err := n.indexSourceFiles()
	if err != nil {
		return nil, err
	}

	related := []string{entryPoint}
	seen := map[string]bool{entryPoint: true}
	for _, name := range sortedKeys(names) {
		if path, ok := index[name]; ok && !seen[path] {
			related = append(related, path)
			seen[path] = true
			n.logger.Logf("Navigator: found related file %s for %s", path, name)
		}
	}
	return related, nil
}

// indexSourceFiles walks the tree once, honoring ignore rules, and maps base
// names (without extension) to the first file found for them.
func (n *Navigator) indexSourceFiles() (map[string]string, error) {
	rules := getIgnoreRules(n.root)
	index := make(map[string]string)

	err := filepath.WalkDir(n.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(n.root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			base := d.Name()
			if base == ".git" || base == ".naoko" || base == "node_modules" {
				return filepath.SkipDir
			}
			if rules != nil && rel != "." && rules.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if rules != nil && rules.MatchesPath(rel) {
			return nil
		}
		ext := filepath.Ext(d.Name())
		for _, want := range sourceExtensions {
			if ext == want {
				name := strings.TrimSuffix(d.Name(), ext)
				if _, exists := index[name]; !exists {
					index[name] = path
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk project tree: %w", err)
	}
	return index, nil
}

// StyleProfile derives a short conventions summary from the related files,
// suitable for folding into the planner's context.
func (n *Navigator) StyleProfile(files []string) string {
	if len(files) == 0 {
		return ""
	}

	tabLines, spaceLines, totalLines := 0, 0, 0
	extCounts := make(map[string]int)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		extCounts[filepath.Ext(path)]++
		for _, line := range strings.Split(string(data), "\n") {
			totalLines++
			if strings.HasPrefix(line, "\t") {
				tabLines++
			} else if strings.HasPrefix(line, "    ") {
				spaceLines++
			}
		}
	}

	indent := "spaces"
	if tabLines > spaceLines {
		indent = "tabs"
	}

	var langs []string
	for _, ext := range sortedKeys(toBoolMap(extCounts)) {
		langs = append(langs, fmt.Sprintf("%s (%d files)", ext, extCounts[ext]))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("- Related files: %d\n", len(files)))
	b.WriteString(fmt.Sprintf("- Languages: %s\n", strings.Join(langs, ", ")))
	b.WriteString(fmt.Sprintf("- Indentation: %s\n", indent))
	if len(files) > 0 {
		b.WriteString(fmt.Sprintf("- Average file length: %d lines\n", totalLines/len(files)))
	}
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toBoolMap(m map[string]int) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}
