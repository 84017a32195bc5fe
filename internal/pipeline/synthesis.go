package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/prompts"
)

const (
	temperatureSummary   = 0.5
	temperatureSynthesis = 0.4
)

// synthesisResult bundles the three synthesis sub-outputs.
type synthesisResult struct {
	Summary   string
	Strengths []string
	Concerns  []string
}

// runSynthesis executes the three synthesis sub-steps in order. Strengths
// and concerns both depend on the summary but not on each other.
func (r *run) runSynthesis(ctx context.Context, businessIdea string, evaluations []Evaluation) (*synthesisResult, error) {
	r.progress.Start(14)
	summary, err := r.generateSummary(ctx, businessIdea, evaluations)
	if err != nil {
		return nil, err
	}
	r.progress.Complete(14)

	r.progress.Start(15)
	strengths, err := r.identifyStrengths(ctx, summary, evaluations)
	if err != nil {
		return nil, err
	}
	r.progress.Complete(15)

	r.progress.Start(16)
	concerns, err := r.identifyConcerns(ctx, summary, evaluations)
	if err != nil {
		return nil, err
	}
	r.progress.Complete(16)

	return &synthesisResult{
		Summary:   summary,
		Strengths: strengths,
		Concerns:  concerns,
	}, nil
}

// generateSummary produces a 2-4 sentence business summary. On LLM failure
// it degrades to a fixed placeholder rather than aborting the run.
func (r *run) generateSummary(ctx context.Context, businessIdea string, evaluations []Evaluation) (string, error) {
	type payload struct {
		Summary string `json:"summary"`
	}
	var cached payload
	if found, err := r.store.LoadLatest(checkpoint.SynthesisStep(1), &cached); err != nil {
		return "", err
	} else if found {
		return cached.Summary, nil
	}

	user := prompts.Format(prompts.MustGet("summary-user"), map[string]string{
		"BusinessIdea":    businessIdea,
		"DimensionScores": formatScoreLines(sortedByScore(evaluations, true)),
	})

	result, err := r.client.Generate(ctx, prompts.MustGet("summary-system"), user, temperatureSummary)
	if err != nil {
		return "Summary generation failed", nil
	}

	summary := strings.TrimSpace(result.Text)
	if err := r.store.Save(checkpoint.SynthesisStep(1), payload{Summary: summary}); err != nil {
		return "", err
	}
	return summary, nil
}

// identifyStrengths returns the top 3 strengths. If the LLM output yields
// fewer than 3 bullets, bullets are synthesized from the highest scores.
func (r *run) identifyStrengths(ctx context.Context, summary string, evaluations []Evaluation) ([]string, error) {
	type payload struct {
		Strengths []string `json:"strengths"`
	}
	var cached payload
	if found, err := r.store.LoadLatest(checkpoint.SynthesisStep(2), &cached); err != nil {
		return nil, err
	} else if found {
		return cached.Strengths, nil
	}

	top := sortedByScore(evaluations, true)

	user := prompts.Format(prompts.MustGet("strengths-user"), map[string]string{
		"BusinessSummary":      summary,
		"DimensionEvaluations": formatEvaluationBlocks(top[:min(5, len(top))]),
	})

	result, err := r.client.Generate(ctx, prompts.MustGet("strengths-system"), user, temperatureSynthesis)
	if err != nil {
		return fallbackBullets(top, "Strong performance."), nil
	}

	strengths := parseBulletPoints(result.Text)
	if len(strengths) < 3 {
		strengths = fallbackBullets(top, "Strong performance in this dimension.")
	}
	if len(strengths) > 3 {
		strengths = strengths[:3]
	}

	if err := r.store.Save(checkpoint.SynthesisStep(2), payload{Strengths: strengths}); err != nil {
		return nil, err
	}
	return strengths, nil
}

// identifyConcerns returns the top 3 concerns, falling back to bullets
// synthesized from the lowest scores.
func (r *run) identifyConcerns(ctx context.Context, summary string, evaluations []Evaluation) ([]string, error) {
	type payload struct {
		Concerns []string `json:"concerns"`
	}
	var cached payload
	if found, err := r.store.LoadLatest(checkpoint.SynthesisStep(3), &cached); err != nil {
		return nil, err
	} else if found {
		return cached.Concerns, nil
	}

	bottom := sortedByScore(evaluations, false)

	user := prompts.Format(prompts.MustGet("concerns-user"), map[string]string{
		"BusinessSummary":      summary,
		"DimensionEvaluations": formatEvaluationBlocks(bottom[:min(5, len(bottom))]),
	})

	result, err := r.client.Generate(ctx, prompts.MustGet("concerns-system"), user, temperatureSynthesis)
	if err != nil {
		return fallbackBullets(bottom, "Potential challenges."), nil
	}

	concerns := parseBulletPoints(result.Text)
	if len(concerns) < 3 {
		concerns = fallbackBullets(bottom, "Lower score indicates potential challenges.")
	}
	if len(concerns) > 3 {
		concerns = concerns[:3]
	}

	if err := r.store.Save(checkpoint.SynthesisStep(3), payload{Concerns: concerns}); err != nil {
		return nil, err
	}
	return concerns, nil
}

var bulletPrefix = regexp.MustCompile(`^[-*•]\s*`)

// parseBulletPoints extracts "- **Dimension (X/10):** ..." style bullets.
func parseBulletPoints(output string) []string {
	var items []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- **") || strings.HasPrefix(line, "* **") || strings.HasPrefix(line, "• **") {
			items = append(items, bulletPrefix.ReplaceAllString(line, ""))
		}
	}
	return items
}

// fallbackBullets synthesizes bullets directly from the leading evaluations.
func fallbackBullets(sorted []Evaluation, note string) []string {
	bullets := make([]string, 0, 3)
	for _, e := range sorted[:min(3, len(sorted))] {
		bullets = append(bullets, fmt.Sprintf("**%s (%s/10):** %s", e.DimensionName, formatScore(e.Score), note))
	}
	return bullets
}

// sortedByScore orders evaluations by score, nil scoring as 0. The sort is
// stable so equal scores keep dimension order.
func sortedByScore(evaluations []Evaluation, descending bool) []Evaluation {
	out := make([]Evaluation, len(evaluations))
	copy(out, evaluations)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := scoreOrZero(out[i].Score), scoreOrZero(out[j].Score)
		if descending {
			return a > b
		}
		return a < b
	})
	return out
}

func scoreOrZero(score *float64) float64 {
	if score == nil {
		return 0
	}
	return *score
}

func formatScore(score *float64) string {
	if score == nil {
		return "0"
	}
	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.1f", *score), "0"), ".")
}

func formatScoreLines(evaluations []Evaluation) string {
	lines := make([]string, len(evaluations))
	for i, e := range evaluations {
		lines[i] = fmt.Sprintf("- %s: %s/10", e.DimensionName, formatScore(e.Score))
	}
	return strings.Join(lines, "\n")
}

func formatEvaluationBlocks(evaluations []Evaluation) string {
	blocks := make([]string, len(evaluations))
	for i, e := range evaluations {
		blocks[i] = fmt.Sprintf("%s: %s/10\n%s", e.DimensionName, formatScore(e.Score), e.RawOutput)
	}
	return strings.Join(blocks, "\n\n")
}
