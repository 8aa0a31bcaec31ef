package agents

import (
	"fmt"

	"github.com/alantheprice/naoko/pkg/auth"
	"github.com/alantheprice/naoko/pkg/config"
	"github.com/alantheprice/naoko/pkg/utils"
)

// NewPlanner builds the planner/reviewer agent from configuration.
func NewPlanner(cfg *config.Config, logger *utils.Logger) (Agent, error) {
	switch cfg.PlannerBackend {
	case config.BackendCLI:
		return NewCLIAgent("planner", cfg.PlannerCommand, cfg.AgentTimeoutSecs, logger), nil
	case config.BackendOllama:
		return NewOllamaAgent("planner", cfg.PlannerModel, cfg.AgentTimeoutSecs, logger), nil
	default:
		return nil, fmt.Errorf("unknown planner backend %q", cfg.PlannerBackend)
	}
}

// NewImplementer builds the implementer agent from configuration. CLI
// implementers get the stored API token in their environment.
func NewImplementer(cfg *config.Config, logger *utils.Logger) (Agent, error) {
	switch cfg.ImplementerBackend {
	case config.BackendCLI:
		agent := NewCLIAgent("implementer", cfg.ImplementerCommand, cfg.AgentTimeoutSecs, logger)
		if token := auth.LoadImplementerToken(logger); token != "" {
			agent = agent.WithEnv("CODEX_API_KEY=" + token)
		}
		return agent, nil
	case config.BackendOllama:
		return NewOllamaAgent("implementer", cfg.ImplementerModel, cfg.AgentTimeoutSecs, logger), nil
	default:
		return nil, fmt.Errorf("unknown implementer backend %q", cfg.ImplementerBackend)
	}
}
