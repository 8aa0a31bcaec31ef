package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateRequestHash generates a SHA256 hash for a given set of instructions.
func GenerateRequestHash(instructions string) string {
	hash := sha256.Sum256([]byte(instructions))
	return hex.EncodeToString(hash[:])
}

// GenerateRevisionHash generates a SHA256 hash for a file based on its name and content.
func GenerateRevisionHash(filename, content string) string {
	data := []byte(filename + ":" + content)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetTimestamp returns a formatted timestamp string suitable for log entries.
func GetTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000")
}

// EstimateTokens provides a rough token estimate for prompt budgeting.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TruncateString truncates a string to maxLength, appending an ellipsis marker.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}

// CapitalizeWords capitalizes the first letter of each word in a string.
func CapitalizeWords(s string) string {
	return cases.Title(language.English).String(s)
}
