package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBulletPoints(t *testing.T) {
	output := `Here are the strengths:

- **Market Potential (9/10):** Huge addressable market.
* **Barrier to Entry (8/10):** Regulatory moat.
• **Scalable Technology & Operations (8/10):** Near-zero marginal cost.

Some trailing commentary.`

	bullets := parseBulletPoints(output)
	require.Len(t, bullets, 3)
	assert.Equal(t, "**Market Potential (9/10):** Huge addressable market.", bullets[0])
	assert.Equal(t, "**Barrier to Entry (8/10):** Regulatory moat.", bullets[1])
	assert.Equal(t, "**Scalable Technology & Operations (8/10):** Near-zero marginal cost.", bullets[2])
}

func TestParseBulletPoints_IgnoresPlainBullets(t *testing.T) {
	output := "- plain bullet without bold dimension\n- **Kept (5/10):** real one"
	bullets := parseBulletPoints(output)
	require.Len(t, bullets, 1)
	assert.Contains(t, bullets[0], "Kept")
}

func TestSortedByScore(t *testing.T) {
	evals := []Evaluation{
		{DimensionID: 1, DimensionName: "A", Score: ptr(5)},
		{DimensionID: 2, DimensionName: "B", Score: nil},
		{DimensionID: 3, DimensionName: "C", Score: ptr(9)},
		{DimensionID: 4, DimensionName: "D", Score: ptr(2)},
	}

	desc := sortedByScore(evals, true)
	assert.Equal(t, "C", desc[0].DimensionName)
	assert.Equal(t, "A", desc[1].DimensionName)
	assert.Equal(t, "D", desc[2].DimensionName)
	// nil sorts as zero, last in descending order
	assert.Equal(t, "B", desc[3].DimensionName)

	asc := sortedByScore(evals, false)
	assert.Equal(t, "B", asc[0].DimensionName)
	assert.Equal(t, "C", asc[3].DimensionName)

	// input order untouched
	assert.Equal(t, "A", evals[0].DimensionName)
}

func TestFallbackBullets(t *testing.T) {
	evals := []Evaluation{
		{DimensionName: "Market Potential", Score: ptr(9)},
		{DimensionName: "Barrier to Entry", Score: ptr(8.5)},
		{DimensionName: "Technical Feasibility", Score: ptr(7)},
		{DimensionName: "Product-Focused Output", Score: ptr(6)},
	}

	bullets := fallbackBullets(evals, "Strong performance in this dimension.")
	require.Len(t, bullets, 3)
	assert.Equal(t, "**Market Potential (9/10):** Strong performance in this dimension.", bullets[0])
	assert.Equal(t, "**Barrier to Entry (8.5/10):** Strong performance in this dimension.", bullets[1])
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "8", formatScore(ptr(8)))
	assert.Equal(t, "7.5", formatScore(ptr(7.5)))
	assert.Equal(t, "0", formatScore(nil))
}
