package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/prompts"
	"github.com/venturelab/idea-scorer/internal/types"
)

const temperatureRationale = 0.5

// consolidatedReport is the checkpointed output of the consolidation stage.
type consolidatedReport struct {
	BusinessIdeaSummary     string                 `json:"business_idea_summary"`
	DimensionalScores       []types.DimensionScore `json:"dimensional_scores"`
	KeyStrengths            []string               `json:"key_strengths"`
	KeyConcerns             []string               `json:"key_concerns"`
	OverallScore            float64                `json:"overall_score"`
	Recommendation          types.Recommendation   `json:"recommendation"`
	RecommendationRationale string                 `json:"recommendation_rationale"`
}

// OverallScore computes the weighted overall score over the 11 dimensions,
// rounded to one decimal. A nil score contributes zero.
func OverallScore(evaluations []Evaluation) float64 {
	weighted := 0.0
	for _, e := range evaluations {
		dimension, ok := DimensionByID(e.DimensionID)
		if !ok {
			continue
		}
		weighted += scoreOrZero(e.Score) * dimension.Weight
	}
	return math.Round(weighted*10) / 10
}

// RecommendationFor maps an overall score to its recommendation tier.
func RecommendationFor(overallScore float64) types.Recommendation {
	switch {
	case overallScore >= 8.0:
		return types.StrongProceed
	case overallScore >= 6.0:
		return types.ConditionalProceed
	case overallScore >= 4.0:
		return types.RequiresRefinement
	default:
		return types.Reject
	}
}

// runConsolidation computes the overall score and recommendation tier, then
// generates a natural-language rationale. The score itself is pure
// computation; only the rationale needs an LLM call, and it degrades to a
// templated sentence on failure.
func (r *run) runConsolidation(ctx context.Context, synthesis *synthesisResult, evaluations []Evaluation) (*consolidatedReport, error) {
	var cached consolidatedReport
	if found, err := r.store.LoadLatest(checkpoint.StepConsolidation, &cached); err != nil {
		return nil, err
	} else if found {
		return &cached, nil
	}

	overall := OverallScore(evaluations)
	recommendation := RecommendationFor(overall)
	rationale := r.generateRationale(ctx, overall, recommendation, synthesis, evaluations)

	scores := make([]types.DimensionScore, len(evaluations))
	for i, e := range evaluations {
		scores[i] = types.DimensionScore{
			Dimension: e.DimensionName,
			Score:     e.Score,
			Reasoning: e.RawOutput,
		}
	}

	report := &consolidatedReport{
		BusinessIdeaSummary:     synthesis.Summary,
		DimensionalScores:       scores,
		KeyStrengths:            synthesis.Strengths,
		KeyConcerns:             synthesis.Concerns,
		OverallScore:            overall,
		Recommendation:          recommendation,
		RecommendationRationale: rationale,
	}

	if err := r.store.Save(checkpoint.StepConsolidation, report); err != nil {
		return nil, err
	}
	return report, nil
}

// generateRationale writes a 2-3 sentence rationale for the recommendation.
// Non-critical: a failure falls back to a templated sentence.
func (r *run) generateRationale(ctx context.Context, overall float64, recommendation types.Recommendation, synthesis *synthesisResult, evaluations []Evaluation) string {
	user := prompts.Format(prompts.MustGet("rationale-user"), map[string]string{
		"OverallScore":    fmt.Sprintf("%.1f", overall),
		"Recommendation":  string(recommendation),
		"Strengths":       formatBulletList(synthesis.Strengths),
		"Concerns":        formatBulletList(synthesis.Concerns),
		"DimensionScores": formatScoreLines(sortedByScore(evaluations, true)),
	})

	result, err := r.client.Generate(ctx, prompts.MustGet("rationale-system"), user, temperatureRationale)
	if err != nil {
		return fallbackRationale(overall, recommendation)
	}
	return strings.TrimSpace(result.Text)
}

func fallbackRationale(overall float64, recommendation types.Recommendation) string {
	tier := strings.ToLower(strings.ReplaceAll(string(recommendation), "_", " "))
	return fmt.Sprintf(
		"With an overall score of %.1f/10, this business idea shows %s potential based on the comprehensive evaluation across 11 dimensions.",
		overall, tier,
	)
}

func formatBulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
