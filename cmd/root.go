package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "naoko",
	Short: "Document-driven planner/implementer workflow orchestrator",
	Long: `Naoko coordinates two black-box agents - a planner/reviewer and an
implementer - through a fixed workflow that turns a planning document into an
applied code change, refined through a bounded review loop.

Available commands:
  start    - Run the full workflow against a planning document
  log      - Show recorded sessions and their review rounds
  version  - Print version information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// ExitCodeFor maps a command error to the process exit code. HOLD_FOR_USER
// gets a distinct code so calling automation can tell "needs a human" apart
// from "failed".
func ExitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(versionCmd)
}
