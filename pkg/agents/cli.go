package agents

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alantheprice/naoko/pkg/utils"
)

// CLIAgent reaches an agent through an external binary. The prompt is piped
// to stdin and the generation read from stdout.
type CLIAgent struct {
	name    string
	command []string
	env     []string // extra KEY=VALUE entries, e.g. an API token
	timeout time.Duration
	logger  *utils.Logger
}

// NewCLIAgent creates a CLI-backed agent. timeoutSecs bounds every Generate
// call.
func NewCLIAgent(name string, command []string, timeoutSecs int, logger *utils.Logger) *CLIAgent {
	return &CLIAgent{
		name:    name,
		command: command,
		timeout: time.Duration(timeoutSecs) * time.Second,
		logger:  logger,
	}
}

// WithEnv returns a copy of the agent carrying extra environment entries.
func (a *CLIAgent) WithEnv(entries ...string) *CLIAgent {
	clone := *a
	clone.env = append(append([]string{}, a.env...), entries...)
	return &clone
}

// Name implements Agent.
func (a *CLIAgent) Name() string { return a.name }

// Generate implements Agent by invoking the configured binary once.
func (a *CLIAgent) Generate(ctx context.Context, prompt string) (string, error) {
	if len(a.command) == 0 {
		return "", fmt.Errorf("%w: no command configured for agent %s", ErrUnavailable, a.name)
	}
	binary := a.command[0]
	if _, err := exec.LookPath(binary); err != nil {
		return "", fmt.Errorf("%w: %s not found on PATH", ErrUnavailable, binary)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, a.command[1:]...)
	cmd.Stdin = strings.NewReader(prompt)
	if len(a.env) > 0 {
		cmd.Env = append(os.Environ(), a.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	a.logger.Logf("Agent %s: invoking %s (%d prompt chars, ~%d tokens)",
		a.name, binary, len(prompt), utils.EstimateTokens(prompt))
	start := time.Now()
	err := cmd.Run()
	a.logger.Logf("Agent %s: %s returned after %s", a.name, binary, time.Since(start).Round(time.Millisecond))

	if ctx.Err() == context.DeadlineExceeded {
		return "", &GenerationError{Agent: a.name, Detail: fmt.Sprintf("timed out after %s", a.timeout)}
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", &GenerationError{Agent: a.name, Detail: detail, Err: err}
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return "", &GenerationError{Agent: a.name, Detail: "empty generation"}
	}
	return output, nil
}
