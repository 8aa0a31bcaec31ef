// Package gitops wraps the git plumbing the workflow needs: staging the
// applied changeset and committing it when the run owns the tree's history.
package gitops

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// GetGitRootDir returns the absolute path to the root directory of the
// current Git repository.
func GetGitRootDir() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("could not find git root: %v", string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// StageAll stages every change in the working tree.
func StageAll(root string) error {
	cmd := exec.Command("git", "-C", root, "add", "-A")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("error staging changes: %v", string(out))
	}
	return nil
}

// Commit commits all staged changes with the provided message
// (non-interactive). A positive timeout bounds how long the commit may take.
func Commit(root, message string, timeoutSeconds int) (string, error) {
	staged, err := HasStagedChanges(root)
	if err != nil {
		return "", err
	}
	if !staged {
		return "", fmt.Errorf("no staged changes to commit")
	}

	cmd := exec.Command("git", "-C", root, "commit", "-m", message)
	if timeoutSeconds > 0 {
		done := make(chan error, 1)
		go func() { done <- cmd.Run() }()
		select {
		case err := <-done:
			if err != nil {
				return "", fmt.Errorf("error committing changes to git: %v", err)
			}
		case <-time.After(time.Duration(timeoutSeconds) * time.Second):
			_ = cmd.Process.Kill()
			return "", fmt.Errorf("git commit timed out after %ds", timeoutSeconds)
		}
	} else {
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("error committing changes to git: %v", err)
		}
	}
	return headRevision(root)
}

// headRevision returns the revision id of HEAD.
func headRevision(root string) (string, error) {
	cmd := exec.Command("git", "-C", root, "rev-parse", "HEAD")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("could not resolve HEAD: %v", string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// HasStagedChanges reports whether anything is staged for commit.
func HasStagedChanges(root string) (bool, error) {
	cmd := exec.Command("git", "-C", root, "diff", "--cached", "--quiet")
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return true, nil
		}
		return false, fmt.Errorf("failed to check staged changes: %v", err)
	}
	return false, nil
}

// IsRepository reports whether root is inside a git work tree.
func IsRepository(root string) bool {
	cmd := exec.Command("git", "-C", root, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.CombinedOutput()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}
