// Package types defines the shared data structures exchanged between pipeline stages,
// persistence, and the HTTP API.
package types

// Recommendation is the tier assigned to an evaluated idea based on its overall score.
type Recommendation string

// Recommendation tiers, from strongest to weakest.
const (
	StrongProceed      Recommendation = "STRONG_PROCEED"
	ConditionalProceed Recommendation = "CONDITIONAL_PROCEED"
	RequiresRefinement Recommendation = "REQUIRES_REFINEMENT"
	Reject             Recommendation = "REJECT"
)

// Display returns the human-readable label for a recommendation tier.
func (r Recommendation) Display() string {
	switch r {
	case StrongProceed:
		return "Strong Pursue"
	case ConditionalProceed:
		return "Consider with Conditions"
	case RequiresRefinement:
		return "Further Research Needed"
	case Reject:
		return "Pass"
	default:
		return string(r)
	}
}

// DimensionScore is one dimension's contribution to the final report.
// Score is nil when the evaluation output contained no parseable score;
// a nil score contributes zero to the weighted overall score.
type DimensionScore struct {
	Dimension string   `json:"dimension"`
	Score     *float64 `json:"score"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// DocumentMetadata describes the source document an evaluation was run against.
type DocumentMetadata struct {
	Name          string `json:"name"`
	ContentHash   string `json:"content_hash,omitempty"`
	NumCharacters int    `json:"num_characters"`
	NumParagraphs int    `json:"num_paragraphs"`
	SourceURL     string `json:"source_url,omitempty"`
}

// FinalReport is the terminal, immutable artifact of a completed pipeline run.
type FinalReport struct {
	IdeaSummary             string            `json:"idea_summary"`
	Source                  string            `json:"source"`
	Sector                  string            `json:"sector"`
	DimensionScores         []DimensionScore  `json:"dimension_scores"`
	OverallScore            float64           `json:"overall_score"`
	Recommendation          Recommendation    `json:"recommendation"`
	RecommendationRationale string            `json:"recommendation_rationale"`
	KeyStrengths            []string          `json:"key_strengths"`
	KeyConcerns             []string          `json:"key_concerns"`
	Timestamp               string            `json:"timestamp"`
	ModelUsed               string            `json:"model_used"`
	ProcessingTimeSeconds   float64           `json:"processing_time_seconds"`
	DocumentMetadata        *DocumentMetadata `json:"document_metadata,omitempty"`
	GeneratedIdeasCount     int               `json:"generated_ideas_count"`
	EvaluatedIdeaIndex      int               `json:"evaluated_idea_index"`
	ExtractedText           string            `json:"extracted_text,omitempty"`
}
