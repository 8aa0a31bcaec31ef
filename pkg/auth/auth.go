// Package auth resolves credentials and availability for the external agent
// tools before the workflow commits to a run.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alantheprice/naoko/pkg/utils"
)

// implementerAuthFile is the well-known token location written by the
// implementer CLI's own login flow.
const implementerAuthFile = ".codex/auth.json"

// LoadImplementerToken reads the implementer API token from the user's home
// directory. A missing or unreadable file yields an empty token rather than
// an error; availability is decided at the agent boundary.
func LoadImplementerToken(logger *utils.Logger) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	authPath := filepath.Join(home, implementerAuthFile)

	data, err := os.ReadFile(authPath)
	if err != nil {
		logger.Logf("Auth: implementer auth file not found at %s", authPath)
		return ""
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		logger.Logf("Auth: failed to parse %s: %v", authPath, err)
		return ""
	}

	for _, key := range []string{"api_key", "token", "access_token"} {
		if token := fields[key]; token != "" {
			logger.Logf("Auth: loaded implementer token (starts with: %s)", maskToken(token))
			return token
		}
	}
	logger.Logf("Auth: no token found in %s", authPath)
	return ""
}

// maskToken keeps only a short prefix of a token for log output.
func maskToken(token string) string {
	if len(token) > 8 {
		return token[:4] + strings.Repeat("*", 4)
	}
	return "***"
}

// CheckAgentAvailable verifies that a CLI agent binary is resolvable on PATH.
func CheckAgentAvailable(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("agent command is not configured")
	}
	if _, err := exec.LookPath(command[0]); err != nil {
		return fmt.Errorf("agent tool %q not found on PATH: %w", command[0], err)
	}
	return nil
}
