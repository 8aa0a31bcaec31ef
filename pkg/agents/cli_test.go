package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/naoko/pkg/utils"
)

func TestCLIAgentEchoesPromptThroughStdin(t *testing.T) {
	agent := NewCLIAgent("echo-agent", []string{"cat"}, 10, utils.GetLogger(true))

	output, err := agent.Generate(context.Background(), "hello agent")
	require.NoError(t, err)
	assert.Equal(t, "hello agent", output)
}

func TestCLIAgentMissingBinaryIsUnavailable(t *testing.T) {
	agent := NewCLIAgent("planner", []string{"definitely-not-a-real-binary-xyz"}, 10, utils.GetLogger(true))

	_, err := agent.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCLIAgentNoCommandIsUnavailable(t *testing.T) {
	agent := NewCLIAgent("planner", nil, 10, utils.GetLogger(true))

	_, err := agent.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCLIAgentNonZeroExitIsGenerationError(t *testing.T) {
	agent := NewCLIAgent("planner", []string{"false"}, 10, utils.GetLogger(true))

	_, err := agent.Generate(context.Background(), "prompt")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestCLIAgentEmptyOutputIsGenerationError(t *testing.T) {
	agent := NewCLIAgent("planner", []string{"true"}, 10, utils.GetLogger(true))

	_, err := agent.Generate(context.Background(), "prompt")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Detail, "empty generation")
}

func TestCLIAgentTimeout(t *testing.T) {
	agent := NewCLIAgent("slow", []string{"sleep", "5"}, 1, utils.GetLogger(true))

	_, err := agent.Generate(context.Background(), "prompt")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Detail, "timed out")
}

func TestCLIAgentRespectsCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agent := NewCLIAgent("slow", []string{"sleep", "5"}, 10, utils.GetLogger(true))

	_, err := agent.Generate(ctx, "prompt")
	assert.Error(t, err)
}

func TestCLIAgentWithEnvDoesNotMutateOriginal(t *testing.T) {
	base := NewCLIAgent("impl", []string{"cat"}, 10, utils.GetLogger(true))
	withToken := base.WithEnv("CODEX_API_KEY=secret")

	assert.Empty(t, base.env)
	assert.Equal(t, []string{"CODEX_API_KEY=secret"}, withToken.env)
	assert.Equal(t, base.Name(), withToken.Name())
}

func TestGenerationErrorUnwrap(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &GenerationError{Agent: "impl", Detail: "boom", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "boom")
}
