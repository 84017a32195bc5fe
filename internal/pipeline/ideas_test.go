package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdeas(t *testing.T) {
	output := `Here are the requested ideas.

---
### BUSINESS IDEA #1: Unified Mobility App

**Business Concept:**
One app for all city transport.

---
### BUSINESS IDEA #2: Fleet Analytics

**Business Concept:**
Telemetry analytics for operators.

---
### BUSINESS IDEA #3: Charging Marketplace

**Business Concept:**
Peer-to-peer charger sharing.
`

	ideas := ParseIdeas(output)
	require.Len(t, ideas, 3)
	assert.True(t, len(ideas[0]) > 0)
	assert.Contains(t, ideas[0], "### BUSINESS IDEA #1: Unified Mobility App")
	assert.Contains(t, ideas[1], "Fleet Analytics")
	assert.Contains(t, ideas[2], "Charging Marketplace")
	// Each parsed idea carries its own full write-up, not its siblings'.
	assert.NotContains(t, ideas[0], "Fleet Analytics")
}

func TestParseIdeas_NoDelimiter(t *testing.T) {
	ideas := ParseIdeas("I was unable to generate business ideas from this input.")
	assert.Empty(t, ideas)
}

func TestParseIdeas_Empty(t *testing.T) {
	assert.Empty(t, ParseIdeas(""))
}
