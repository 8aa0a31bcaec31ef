package main

import (
	"os"

	"github.com/alantheprice/naoko/cmd"
	"github.com/alantheprice/naoko/pkg/utils"
)

func main() {
	// Get the logger instance early so every command shares the same file handle.
	logger := utils.GetLogger(false)
	defer func() {
		if err := logger.Close(); err != nil {
			// The logger itself may be the problem, so fall back to stderr.
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.LogError(err)
		os.Exit(cmd.ExitCodeFor(err))
	}
}
