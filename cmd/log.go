package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alantheprice/naoko/pkg/history"
	"github.com/alantheprice/naoko/pkg/utils"
)

var (
	rawLog    bool   // Flag to indicate if the raw verbose log should be displayed
	sessionID string // Show round records for one session
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recorded sessions or the verbose log",
	Long: `Displays the recorded workflow sessions and their review rounds.
Use --session to inspect one session's round records, or --raw-log to view
the verbose internal log file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rawLog {
			return displayVerboseLog()
		}
		root, err := os.Getwd()
		if err != nil {
			return err
		}
		store, err := history.Open(filepath.Join(root, ".naoko", "history.db"))
		if err != nil {
			return err
		}
		defer store.Close()

		if sessionID != "" {
			return printRounds(cmd, store)
		}
		return printSessions(cmd, store)
	},
}

func init() {
	logCmd.Flags().BoolVar(&rawLog, "raw-log", false, "Display the raw verbose internal log file (.naoko/workspace.log)")
	logCmd.Flags().StringVar(&sessionID, "session", "", "Show the round records of one session")
}

func printSessions(cmd *cobra.Command, store *history.Store) error {
	sessions, err := store.ListSessions(cmd.Context())
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}
	for _, s := range sessions {
		color.New(color.Bold).Printf("%s", s.SessionID)
		mode := utils.CapitalizeWords(strings.ReplaceAll(s.Mode, "-", " "))
		fmt.Printf("  %s  %s\n", mode, filepath.Base(s.DocPath))
		fmt.Printf("    started %s", time.Unix(s.StartedAt, 0).Format(time.RFC1123))
		if s.FinalPhase != "" {
			fmt.Printf("  ->  %s", s.FinalPhase)
			if s.Reason != "" {
				fmt.Printf(" (%s)", utils.TruncateString(s.Reason, terminalWidth()/2))
			}
		}
		fmt.Println()
	}
	return nil
}

func printRounds(cmd *cobra.Command, store *history.Store) error {
	rounds, err := store.ListRounds(cmd.Context(), sessionID)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		fmt.Printf("No round records for session %s.\n", sessionID)
		return nil
	}
	for _, r := range rounds {
		color.New(color.Bold).Printf("Round %d: ", r.Round)
		fmt.Printf("%s (%s)\n", r.Judgement, r.Outcome)
		hash := r.PatchHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Printf("  patch %s\n", hash)
	}
	return nil
}

// terminalWidth returns the current terminal width, with a sane fallback for
// pipes.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// displayVerboseLog prints the verbose log file, if present.
func displayVerboseLog() error {
	logFilePath := filepath.Join(".naoko", "workspace.log")

	file, err := os.Open(logFilePath)
	if os.IsNotExist(err) {
		fmt.Printf("Verbose log file not found at %s. No log entries yet.\n", logFilePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open verbose log file %s: %w", logFilePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fmt.Println(scanner.Text())
	}
	return scanner.Err()
}
