package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelab/idea-scorer/internal/types"
)

func validReport() *types.FinalReport {
	score := 8.0
	dims := make([]types.DimensionScore, 11)
	for i := range dims {
		dims[i] = types.DimensionScore{Dimension: "Market Potential", Score: &score}
	}
	return &types.FinalReport{
		IdeaSummary:             "Unified commuter platform.",
		Sector:                  "urban mobility",
		DimensionScores:         dims,
		OverallScore:            8.0,
		Recommendation:          types.StrongProceed,
		RecommendationRationale: "Strong scores across every dimension.",
		KeyStrengths:            []string{"Market pull"},
		KeyConcerns:             []string{"Sales cycles"},
		Timestamp:               "2025-01-01T00:00:00Z",
		ModelUsed:               "gemini/gemini-2.5-flash",
	}
}

func TestValidateReport_Valid(t *testing.T) {
	assert.NoError(t, ValidateReport(validReport()))
}

func TestValidateReport_NilScoreAllowed(t *testing.T) {
	report := validReport()
	report.DimensionScores[3].Score = nil
	assert.NoError(t, ValidateReport(report))
}

func TestValidateReport_MissingRationale(t *testing.T) {
	report := validReport()
	report.RecommendationRationale = ""

	err := ValidateReport(report)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateReport_UnknownRecommendation(t *testing.T) {
	report := validReport()
	report.Recommendation = "MAYBE"

	err := ValidateReport(report)
	require.Error(t, err)
}

func TestValidateReport_WrongDimensionCount(t *testing.T) {
	report := validReport()
	report.DimensionScores = report.DimensionScores[:5]

	err := ValidateReport(report)
	require.Error(t, err)
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString("{not json", "{}")
	require.Error(t, err)

	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok, "error should be SchemaLoadError type")
}
