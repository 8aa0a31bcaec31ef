package changeset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alantheprice/naoko/pkg/utils"
)

// Applier applies changesets to a working tree by whole-file overwrite.
// Every proposed path is validated before any file is written, so a rejected
// changeset leaves the tree in its last fully applied state.
type Applier struct {
	dryRun bool
	logger *utils.Logger
}

// NewApplier creates an applier. In dry-run mode Apply validates and reports
// but never writes.
func NewApplier(dryRun bool, logger *utils.Logger) *Applier {
	return &Applier{dryRun: dryRun, logger: logger}
}

// Apply writes every file in the changeset under root. scope, when non-nil,
// is the sorted list of declared touched files; any path outside it is
// rejected (existing-project mode). Writes are atomic per path.
func (a *Applier) Apply(root string, cs *Changeset, scope []string) error {
	if cs.IsEmpty() {
		return &RejectedError{Path: "", Reason: "changeset contains no files"}
	}

	// Validate everything up front. Fail closed before the first write.
	resolved := make([]string, len(cs.Files))
	for i, f := range cs.Files {
		abs, err := resolvePath(root, f.Path)
		if err != nil {
			return err
		}
		if !inScope(filepath.Clean(f.Path), scope) {
			return &RejectedError{Path: f.Path, Reason: "path is not in the declared touched-file scope"}
		}
		resolved[i] = abs
	}

	for i, f := range cs.Files {
		if a.dryRun {
			a.logger.Logf("Dry-run: would write %d bytes to %s", len(f.Content), f.Path)
			continue
		}
		if err := writeFileAtomic(resolved[i], f.Content); err != nil {
			return fmt.Errorf("failed to apply %s: %w", f.Path, err)
		}
		a.logger.Logf("Applied %s (%d bytes, rev %s)", f.Path, len(f.Content),
			utils.GenerateRevisionHash(f.Path, f.Content)[:12])
	}
	return nil
}

// resolvePath normalizes a proposed path and rejects anything that escapes
// the project root.
func resolvePath(root, path string) (string, error) {
	if path == "" {
		return "", &RejectedError{Path: path, Reason: "empty path"}
	}
	if filepath.IsAbs(path) {
		return "", &RejectedError{Path: path, Reason: "absolute paths are not allowed"}
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", &RejectedError{Path: path, Reason: "path escapes the project root"}
	}
	return filepath.Join(root, clean), nil
}

// writeFileAtomic writes content to path via a temp file and rename, so a
// cancelled run never leaves a half-written file behind.
func writeFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".naoko-apply-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// NormalizeScope prepares a touched-file list for scope checks: cleaned,
// deduplicated, sorted.
func NormalizeScope(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		clean := filepath.Clean(strings.TrimSpace(p))
		if clean == "" || clean == "." || seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
	}
	sort.Strings(out)
	return out
}
