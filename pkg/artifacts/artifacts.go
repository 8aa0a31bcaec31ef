// Package artifacts is the durable record of each phase's textual output,
// addressed by a fixed set of named slots.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
)

// Slot names the fixed artifact files written per session. Review and
// judgement are overwritten each round; requirements and summary are written
// once.
type Slot string

const (
	SlotRequirements Slot = "requirements_request.md"
	SlotPatch        Slot = "patch.diff"
	SlotReview       Slot = "review.md"
	SlotJudgement    Slot = "review_judgement.md"
	SlotSummary      Slot = "summary.md"
)

// Store writes artifacts under <root>/.naoko/artifacts.
type Store struct {
	dir    string
	dryRun bool
}

// NewStore creates the artifact store for a project root. In dry-run mode no
// directory is created and writes are skipped.
func NewStore(root string, dryRun bool) (*Store, error) {
	dir := filepath.Join(root, ".naoko", "artifacts")
	if !dryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
		}
	}
	return &Store{dir: dir, dryRun: dryRun}, nil
}

// Write stores content into the named slot, replacing any previous content.
func (s *Store) Write(slot Slot, content string) error {
	if s.dryRun {
		return nil
	}
	path := filepath.Join(s.dir, string(slot))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", slot, err)
	}
	return nil
}

// Read returns the current content of the named slot.
func (s *Store) Read(slot Slot) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, string(slot)))
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", slot, err)
	}
	return string(data), nil
}

// Path returns the on-disk location of a slot, for log messages.
func (s *Store) Path(slot Slot) string {
	return filepath.Join(s.dir, string(slot))
}
