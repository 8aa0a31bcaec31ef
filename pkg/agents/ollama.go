package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/alantheprice/naoko/pkg/utils"
)

// OllamaAgent reaches an agent through a local Ollama server using the
// native client. Configuration (host, port) comes from the standard
// OLLAMA_HOST environment handling.
type OllamaAgent struct {
	name    string
	model   string
	timeout time.Duration
	logger  *utils.Logger
}

// NewOllamaAgent creates an API-backed agent for the given model.
func NewOllamaAgent(name, model string, timeoutSecs int, logger *utils.Logger) *OllamaAgent {
	return &OllamaAgent{
		name:    name,
		model:   model,
		timeout: time.Duration(timeoutSecs) * time.Second,
		logger:  logger,
	}
}

// Name implements Agent.
func (a *OllamaAgent) Name() string { return a.name }

// Generate implements Agent with a single non-streaming chat call.
func (a *OllamaAgent) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return "", fmt.Errorf("%w: could not create ollama client: %v", ErrUnavailable, err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	stream := false
	req := &ollama.ChatRequest{
		Model: a.model,
		Messages: []ollama.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
	}

	var b strings.Builder
	a.logger.Logf("Agent %s: ollama chat with model %s (%d prompt chars)", a.name, a.model, len(prompt))
	err = client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		b.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		if isConnectionError(err) {
			return "", fmt.Errorf("%w: ollama server unreachable: %v", ErrUnavailable, err)
		}
		if ctx.Err() == context.DeadlineExceeded {
			return "", &GenerationError{Agent: a.name, Detail: fmt.Sprintf("timed out after %s", a.timeout)}
		}
		return "", &GenerationError{Agent: a.name, Err: err}
	}

	output := strings.TrimSpace(b.String())
	if output == "" {
		return "", &GenerationError{Agent: a.name, Detail: "empty generation"}
	}
	return output, nil
}

// isConnectionError spots transport-level failures that mean the server is
// simply not there, as opposed to a model-level failure.
func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "could not connect")
}
