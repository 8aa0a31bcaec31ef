package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alantheprice/naoko/pkg/utils"
)

// Backend selects how an agent is reached.
const (
	BackendCLI    = "cli"    // external agent binary, prompt over stdin
	BackendOllama = "ollama" // local Ollama API
)

// Config holds all settings for a naoko run. It is loaded from the home
// config first and then overridden by the workspace config, so per-project
// settings win.
type Config struct {
	PlannerBackend     string   `json:"planner_backend"`     // "cli" or "ollama"
	ImplementerBackend string   `json:"implementer_backend"` // "cli" or "ollama"
	PlannerCommand     []string `json:"planner_command"`     // CLI agent binary + args for planning/review
	ImplementerCommand []string `json:"implementer_command"` // CLI agent binary + args for implementation
	PlannerModel       string   `json:"planner_model"`       // Ollama model for the planner/reviewer
	ImplementerModel   string   `json:"implementer_model"`   // Ollama model for the implementer
	MaxRounds          int      `json:"max_rounds"`          // Review loop bound
	AgentTimeoutSecs   int      `json:"agent_timeout_secs"`  // Per-call agent timeout
	CommitTimeoutSecs  int      `json:"commit_timeout_secs"` // Timeout for git commit
	TrackWithGit       *bool    `json:"track_with_git"`      // nil means enabled
	JsonLogs           bool     `json:"json_logs"`
	SkipPrompt         bool     `json:"-"` // Internal use, not saved to config
	DryRun             bool     `json:"-"` // Internal use, not saved to config
}

func getHomeConfigPath() (string, string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(home, ".naoko")
	return configDir, filepath.Join(configDir, "config.json")
}

func getWorkspaceConfigPath() (string, string) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(cwd, ".naoko")
	return configDir, filepath.Join(configDir, "config.json")
}

func (cfg *Config) setDefaultValues() {
	if cfg.PlannerBackend == "" {
		cfg.PlannerBackend = BackendCLI
	}
	if cfg.ImplementerBackend == "" {
		cfg.ImplementerBackend = BackendCLI
	}
	if len(cfg.PlannerCommand) == 0 {
		cfg.PlannerCommand = []string{"gemini"}
	}
	if len(cfg.ImplementerCommand) == 0 {
		cfg.ImplementerCommand = []string{"codex", "exec"}
	}
	if cfg.PlannerModel == "" {
		cfg.PlannerModel = "qwen2.5-coder:14b"
	}
	if cfg.ImplementerModel == "" {
		cfg.ImplementerModel = "qwen2.5-coder:14b"
	}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = 5
	}
	if cfg.AgentTimeoutSecs == 0 {
		cfg.AgentTimeoutSecs = 300 // agents can be slow; never block indefinitely
	}
	if cfg.CommitTimeoutSecs == 0 {
		cfg.CommitTimeoutSecs = 60
	}
	if cfg.TrackWithGit == nil {
		enabled := true
		cfg.TrackWithGit = &enabled
	}
}

// GitTrackingEnabled reports whether the git side effects (staging,
// committing) are active. Tracking is on unless the config turns it off.
func (cfg *Config) GitTrackingEnabled() bool {
	return cfg.TrackWithGit == nil || *cfg.TrackWithGit
}

func loadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults are applied after layering, so a file that omits a field does
	// not override a lower layer that sets it.
	return &cfg, nil
}

// mergeConfig overlays non-zero values from the override onto the base.
func mergeConfig(base, override *Config) *Config {
	merged := *base
	if override.PlannerBackend != "" {
		merged.PlannerBackend = override.PlannerBackend
	}
	if override.ImplementerBackend != "" {
		merged.ImplementerBackend = override.ImplementerBackend
	}
	if len(override.PlannerCommand) > 0 {
		merged.PlannerCommand = override.PlannerCommand
	}
	if len(override.ImplementerCommand) > 0 {
		merged.ImplementerCommand = override.ImplementerCommand
	}
	if override.PlannerModel != "" {
		merged.PlannerModel = override.PlannerModel
	}
	if override.ImplementerModel != "" {
		merged.ImplementerModel = override.ImplementerModel
	}
	if override.MaxRounds != 0 {
		merged.MaxRounds = override.MaxRounds
	}
	if override.AgentTimeoutSecs != 0 {
		merged.AgentTimeoutSecs = override.AgentTimeoutSecs
	}
	if override.CommitTimeoutSecs != 0 {
		merged.CommitTimeoutSecs = override.CommitTimeoutSecs
	}
	if override.TrackWithGit != nil {
		merged.TrackWithGit = override.TrackWithGit
	}
	if override.JsonLogs {
		merged.JsonLogs = true
	}
	return &merged
}

func saveConfig(filePath string, cfg *Config) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// LoadOrInit loads the layered configuration, creating a default home config
// on first run so the user has something to edit.
func LoadOrInit(skipPrompt bool) (*Config, error) {
	logger := utils.GetLogger(skipPrompt)

	_, homePath := getHomeConfigPath()
	_, workspacePath := getWorkspaceConfigPath()

	base := &Config{}
	if homePath != "" {
		if cfg, err := loadConfig(homePath); err == nil {
			base = cfg
		} else if os.IsNotExist(err) {
			defaults := &Config{}
			defaults.setDefaultValues()
			if saveErr := saveConfig(homePath, defaults); saveErr != nil {
				logger.Logf("Could not write default config to %s: %v", homePath, saveErr)
			}
		} else {
			return nil, fmt.Errorf("failed to load config from %s: %w", homePath, err)
		}
	}

	if workspacePath != "" {
		if cfg, err := loadConfig(workspacePath); err == nil {
			base = mergeConfig(base, cfg)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config from %s: %w", workspacePath, err)
		}
	}

	// Fill anything no layer set, including fields added after a config file
	// was first written.
	base.setDefaultValues()
	base.SkipPrompt = skipPrompt
	return base, nil
}
