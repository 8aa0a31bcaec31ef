package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alantheprice/naoko/pkg/agents"
	"github.com/alantheprice/naoko/pkg/artifacts"
	"github.com/alantheprice/naoko/pkg/auth"
	"github.com/alantheprice/naoko/pkg/changeset"
	"github.com/alantheprice/naoko/pkg/config"
	"github.com/alantheprice/naoko/pkg/docparse"
	"github.com/alantheprice/naoko/pkg/gitops"
	"github.com/alantheprice/naoko/pkg/history"
	"github.com/alantheprice/naoko/pkg/navigator"
	"github.com/alantheprice/naoko/pkg/utils"
	"github.com/alantheprice/naoko/pkg/workflow"
)

// Exit codes for the start command. Automation depends on the distinction
// between a failed run and one waiting on a human.
const (
	exitSuccess = 0
	exitAborted = 1
	exitHold    = 3
)

var (
	entryPoint string
	maxRounds  int
	dryRun     bool
	skipPrompt bool
)

var startCmd = &cobra.Command{
	Use:   "start [document]",
	Short: "Run the planning/implementation/review workflow",
	Long: `Runs the full workflow against a planning document (markdown, pptx or
plain text): the planner turns the document into a requirements request, the
implementer produces and applies a changeset, and the two agents refine it
through a bounded review loop.

With --entry-point the run operates in existing-project mode: related files
are collected for style context, changes are restricted to the declared
touched-file scope, and the result is left staged instead of committed.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&entryPoint, "entry-point", "", "Entry point file of an existing project (enables existing-project mode)")
	startCmd.Flags().IntVar(&maxRounds, "max-rounds", 5, "Maximum number of review rounds")
	startCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the full state machine without writing files or committing")
	startCmd.Flags().BoolVar(&skipPrompt, "skip-prompt", false, "Never prompt; assume defaults for confirmations")
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := utils.GetLogger(skipPrompt)

	cfg, err := config.LoadOrInit(skipPrompt)
	if err != nil {
		return &exitError{code: exitAborted, msg: fmt.Sprintf("failed to load config: %v", err)}
	}
	cfg.DryRun = dryRun
	// Re-sync the logger with the loaded settings.
	logger = utils.GetLogger(cfg.SkipPrompt)
	if cfg.JsonLogs {
		logger.SetJSONMode(true)
	}
	if !cmd.Flags().Changed("max-rounds") {
		maxRounds = cfg.MaxRounds
	}

	docPath, err := filepath.Abs(args[0])
	if err != nil {
		return &exitError{code: exitAborted, msg: fmt.Sprintf("invalid document path: %v", err)}
	}
	root, err := os.Getwd()
	if err != nil {
		return &exitError{code: exitAborted, msg: fmt.Sprintf("could not determine project root: %v", err)}
	}
	// Operate at the repository root when invoked from a subdirectory.
	if gitRoot, err := gitops.GetGitRootDir(); err == nil {
		root = gitRoot
	}

	// Fail before planning when a CLI agent tool is missing entirely.
	if cfg.PlannerBackend == config.BackendCLI {
		if err := auth.CheckAgentAvailable(cfg.PlannerCommand); err != nil {
			return &exitError{code: exitAborted, msg: fmt.Sprintf("planner unavailable: %v", err)}
		}
	}
	if cfg.ImplementerBackend == config.BackendCLI {
		if err := auth.CheckAgentAvailable(cfg.ImplementerCommand); err != nil {
			return &exitError{code: exitAborted, msg: fmt.Sprintf("implementer unavailable: %v", err)}
		}
	}

	planner, err := agents.NewPlanner(cfg, logger)
	if err != nil {
		return &exitError{code: exitAborted, msg: err.Error()}
	}
	implementer, err := agents.NewImplementer(cfg, logger)
	if err != nil {
		return &exitError{code: exitAborted, msg: err.Error()}
	}

	store, err := artifacts.NewStore(root, cfg.DryRun)
	if err != nil {
		return &exitError{code: exitAborted, msg: err.Error()}
	}

	var recorder workflow.Recorder
	if !cfg.DryRun {
		historyStore, err := history.Open(filepath.Join(root, ".naoko", "history.db"))
		if err != nil {
			return &exitError{code: exitAborted, msg: err.Error()}
		}
		defer historyStore.Close()
		recorder = historyStore
	}

	var committer workflow.Committer = &workflow.GitCommitter{TimeoutSecs: cfg.CommitTimeoutSecs}
	switch {
	case cfg.DryRun:
		committer = &workflow.DryCommitter{Logger: logger}
	case !cfg.GitTrackingEnabled():
		committer = &workflow.NoGitCommitter{Logger: logger}
	case !gitops.IsRepository(root):
		logger.LogProcessStep(fmt.Sprintf("%s is not a git work tree: skipping git side effects", root))
		committer = &workflow.NoGitCommitter{Logger: logger}
	}

	nav := navigator.New(root, logger)
	deps := workflow.Dependencies{
		Planner:     planner,
		Implementer: implementer,
		Extract:     docparse.Parse,
		Collect: func(entry string) (string, error) {
			files, err := nav.FindRelatedFiles(entry)
			if err != nil {
				return "", err
			}
			return nav.StyleProfile(files), nil
		},
		Applier:   changeset.NewApplier(cfg.DryRun, logger),
		Committer: committer,
		Artifacts: store,
		Recorder:  recorder,
	}

	session := workflow.NewSession(root, docPath, entryPoint, maxRounds, cfg.DryRun)
	logger.LogProcessStep(fmt.Sprintf("Starting session %s (%s mode, max %d rounds)", session.ID, session.Mode(), session.MaxRounds))

	outcome := workflow.NewController(deps, session, logger).Run(cmd.Context())
	return reportOutcome(outcome)
}

// reportOutcome prints the terminal state and converts it into the process
// exit code contract.
func reportOutcome(outcome *workflow.Outcome) error {
	switch outcome.Phase {
	case workflow.PhaseDoneSuccess:
		color.New(color.Bold, color.FgGreen).Printf("Workflow complete after %d review round(s).\n", outcome.Rounds)
		if outcome.CommitID != "" {
			fmt.Printf("Committed as %s\n", outcome.CommitID)
		}
		return nil
	case workflow.PhaseHoldForUser:
		color.New(color.Bold, color.FgYellow).Println("Workflow paused: the implementer requested human confirmation.")
		fmt.Printf("Pending judgement: %s\n", outcome.PendingJudgement)
		fmt.Println("Review the pending feedback and re-run to resume:")
		fmt.Println(outcome.PendingReview)
		return &exitError{code: exitHold, msg: "workflow held for user confirmation"}
	default:
		color.New(color.Bold, color.FgRed).Printf("Workflow aborted: %s\n", outcome.Reason)
		return &exitError{code: exitAborted, msg: outcome.Reason}
	}
}
