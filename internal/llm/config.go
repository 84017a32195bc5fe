// Package llm provides centralized LLM configuration and client abstractions.
// All five pipeline agents route through the same provider within a run so that
// checkpointed results stay comparable.
package llm

// Provider represents an LLM provider. The set of providers is closed:
// adding one means adding a variant here and a client implementation,
// not editing dispatch branches scattered through the pipeline.
type Provider string

// Supported LLM providers.
const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future).
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider (future).
	ProviderAnthropic Provider = "anthropic"
)

// Config holds the model configuration for a run.
type Config struct {
	Provider Provider
	Model    string
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    "gemini-2.5-flash",
	}
}

// maxInputTokens is the safe per-provider input budget for a single call,
// leaving headroom for the system prompt and the response.
var maxInputTokens = map[Provider]int{
	ProviderGemini:    900000,
	ProviderOpenAI:    100000,
	ProviderAnthropic: 150000,
}

// MaxInputTokens returns the safe input-token ceiling for the configured provider.
func (c *Config) MaxInputTokens() int {
	if limit, ok := maxInputTokens[c.Provider]; ok {
		return limit
	}
	return 8000
}

// EstimateTokens estimates the token count for text.
// Rough approximation: 1 token per 4 characters.
func EstimateTokens(text string) int {
	return len(text) / 4
}
