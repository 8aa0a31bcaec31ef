// Package agents implements the agent port: a synchronous generate(prompt)
// capability over opaque text-generation backends. Two transports exist, an
// external CLI tool and a local Ollama server; the controller depends only on
// the Agent interface.
package agents

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable signals that the agent backend cannot be reached at all
// (missing tool, not authenticated, server down). The controller stops the
// run instead of proceeding with degraded behavior.
var ErrUnavailable = errors.New("agent unavailable")

// GenerationError signals that a reachable agent failed to produce usable
// output (non-zero exit, malformed or empty response).
type GenerationError struct {
	Agent  string
	Detail string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("agent %s failed: %s", e.Agent, e.Detail)
	}
	return fmt.Sprintf("agent %s failed: %v", e.Agent, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Agent is the single capability the workflow controller depends on.
type Agent interface {
	// Name identifies the agent role in logs and errors.
	Name() string
	// Generate produces text for a prompt. It must respect ctx cancellation
	// and never block indefinitely.
	Generate(ctx context.Context, prompt string) (string, error)
}
