package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("extraction-system")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "substantive content")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("dimension-evaluation-system")
		assert.NotEmpty(t, prompt)
	})
}

func TestCatalogCoversAllAgents(t *testing.T) {
	ClearCache()

	keys, err := List()
	require.NoError(t, err)

	expected := []string{
		"extraction-system", "extraction-user",
		"idea-generation-system", "idea-generation-user",
		"dimension-evaluation-system", "dimension-evaluation-user",
		"summary-system", "summary-user",
		"strengths-system", "strengths-user",
		"concerns-system", "concerns-user",
		"rationale-system", "rationale-user",
	}
	for _, key := range expected {
		assert.Contains(t, keys, key)
	}
}

func TestFormat(t *testing.T) {
	template := "Evaluate this idea from the {{.Sector}} sector on {{.DimensionName}}."
	data := map[string]string{
		"Sector":        "fintech",
		"DimensionName": "Market Potential",
	}

	result := Format(template, data)
	assert.Equal(t, "Evaluate this idea from the fintech sector on Market Potential.", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestUserPromptsCarryPlaceholders(t *testing.T) {
	ClearCache()

	extraction := MustGet("extraction-user")
	assert.Contains(t, extraction, "{{.Sector}}")
	assert.Contains(t, extraction, "{{.DocumentContent}}")

	ideas := MustGet("idea-generation-user")
	assert.Contains(t, ideas, "{{.NumIdeas}}")
	assert.Contains(t, ideas, "{{.ExtractedInfo}}")

	dimension := MustGet("dimension-evaluation-user")
	assert.Contains(t, dimension, "{{.DimensionName}}")
	assert.Contains(t, dimension, "{{.BusinessIdea}}")

	rationale := MustGet("rationale-user")
	assert.Contains(t, rationale, "{{.OverallScore}}")
	assert.Contains(t, rationale, "{{.Recommendation}}")
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from the embedded file
	prompt1, err := Get("extraction-system")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("extraction-system")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
