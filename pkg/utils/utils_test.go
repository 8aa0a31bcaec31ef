package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestHashIsStable(t *testing.T) {
	a := GenerateRequestHash("same input")
	b := GenerateRequestHash("same input")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, GenerateRequestHash("different input"))
}

func TestGenerateRevisionHashDependsOnNameAndContent(t *testing.T) {
	base := GenerateRevisionHash("main.go", "package main")
	assert.NotEqual(t, base, GenerateRevisionHash("other.go", "package main"))
	assert.NotEqual(t, base, GenerateRevisionHash("main.go", "package other"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exact", TruncateString("exact", 5))
	assert.Equal(t, "long st...", TruncateString("long string here", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 25, EstimateTokens(string(make([]byte, 100))))
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "Hello World", CapitalizeWords("hello world"))
}
