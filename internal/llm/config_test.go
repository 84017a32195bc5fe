package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, ProviderGemini, config.Provider)
	assert.NotEmpty(t, config.Model)
}

func TestMaxInputTokens(t *testing.T) {
	gemini := &Config{Provider: ProviderGemini}
	assert.Equal(t, 900000, gemini.MaxInputTokens())

	anthropic := &Config{Provider: ProviderAnthropic}
	assert.Equal(t, 150000, anthropic.MaxInputTokens())

	// Unknown providers fall back to a conservative default
	unknown := &Config{Provider: Provider("ollama")}
	assert.Equal(t, 8000, unknown.MaxInputTokens())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("four"))
	assert.Equal(t, 1000, EstimateTokens(strings.Repeat("a", 4000)))
}
