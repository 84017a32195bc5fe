package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/prompts"
)

// Dimension is one of the 11 fixed evaluation criteria.
type Dimension struct {
	ID           int
	Name         string
	Description  string
	KeyQuestions []string
	LooksFor     string
	Weight       float64
}

// Dimensions is the fixed evaluation rubric. Weights sum to 1.0.
var Dimensions = []Dimension{
	{
		ID:          1,
		Name:        "Market Potential",
		Description: "Evaluates the size, growth, and monetization capacity of the target market",
		KeyQuestions: []string{
			"Is the Total Addressable Market (TAM) large and growing?",
			"Is there a clear, reachable customer segment?",
			"Are customers already spending money on similar solutions?",
		},
		LooksFor: "Demand strength, willingness to pay, market timing",
		Weight:   0.12,
	},
	{
		ID:          2,
		Name:        "Differentiated Approach and Positioning",
		Description: "Assesses how clearly the business is positioned versus alternatives",
		KeyQuestions: []string{
			"Is the value proposition immediately understandable?",
			"Does it target a niche others ignore or underserve?",
			"Is the positioning defensible or just marketing language?",
		},
		LooksFor: "Clarity, focus, uniqueness of angle",
		Weight:   0.10,
	},
	{
		ID:          3,
		Name:        "Sustainable Competitive Advantage",
		Description: "Measures long-term defensibility beyond initial traction",
		KeyQuestions: []string{
			"What prevents competitors from copying this?",
			"Does advantage improve over time?",
			"Is it structural (data, network effects, switching costs)?",
		},
		LooksFor: "Durability, compounding advantages",
		Weight:   0.10,
	},
	{
		ID:          4,
		Name:        "Differentiating Element",
		Description: "Evaluates the single strongest feature or insight that makes the product stand out",
		KeyQuestions: []string{
			"What is the 'one thing' users would miss most?",
			"Is this differentiation real or cosmetic?",
			"Does it directly solve a painful problem?",
		},
		LooksFor: "Clear 'why this wins' factor",
		Weight:   0.08,
	},
	{
		ID:          5,
		Name:        "Technical Feasibility",
		Description: "Assesses whether the solution is technically achievable with current technology",
		KeyQuestions: []string{
			"Can this be built with existing tools and skills?",
			"Are there hard technical unknowns?",
			"Is AI usage realistic or speculative?",
		},
		LooksFor: "Engineering realism, execution risk",
		Weight:   0.09,
	},
	{
		ID:          6,
		Name:        "Affordable & Rapid Implementation",
		Description: "Measures time and cost to reach a usable MVP",
		KeyQuestions: []string{
			"Can a working version be built quickly?",
			"Is initial investment low relative to learning gained?",
			"Can one small team execute it?",
		},
		LooksFor: "Capital efficiency, speed to market",
		Weight:   0.10,
	},
	{
		ID:          7,
		Name:        "AI Enablement for Core Value",
		Description: "Evaluates whether AI meaningfully enhances the core product",
		KeyQuestions: []string{
			"Does AI improve outcomes, scale, or cost structure?",
			"Is AI central or replaceable?",
			"Does performance improve with usage/data?",
		},
		LooksFor: "Real AI leverage, not superficial automation",
		Weight:   0.08,
	},
	{
		ID:          8,
		Name:        "Barrier to Entry",
		Description: "Assesses how difficult it is for new entrants to compete",
		KeyQuestions: []string{
			"Is there a learning curve, data moat, or regulatory barrier?",
			"Does early entry create advantages?",
			"Are integrations or workflows hard to replicate?",
		},
		LooksFor: "Friction for competitors, protection against fast followers",
		Weight:   0.11,
	},
	{
		ID:          9,
		Name:        "Scalable Technology & Operations",
		Description: "Measures whether growth is non-linear (revenue grows faster than costs)",
		KeyQuestions: []string{
			"Can the system handle 10x or 100x users?",
			"Does onboarding require human effort?",
			"Are marginal costs close to zero?",
		},
		LooksFor: "Platform scalability, automation readiness",
		Weight:   0.09,
	},
	{
		ID:          10,
		Name:        "Product-Focused Output",
		Description: "Evaluates whether the offering is a repeatable product rather than a service",
		KeyQuestions: []string{
			"Is value delivered through software output?",
			"Is customization minimal?",
			"Can customers self-serve?",
		},
		LooksFor: "Productization, repeatability, low dependency on people",
		Weight:   0.07,
	},
	{
		ID:          11,
		Name:        "Subscription-Based Platform Access",
		Description: "Assesses recurring revenue quality and predictability",
		KeyQuestions: []string{
			"Is subscription the natural payment model?",
			"Is there ongoing value justifying renewal?",
			"Are switching costs increasing over time?",
		},
		LooksFor: "Revenue stability, lifetime value, churn resistance",
		Weight:   0.06,
	},
}

// DimensionByID returns the dimension definition for a 1-based id.
func DimensionByID(id int) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}

// Evaluation is the outcome of evaluating one dimension. A nil Score means
// the evaluation failed or no score could be parsed; the run continues with
// that dimension contributing zero weight.
type Evaluation struct {
	DimensionID   int      `json:"dimension_id"`
	DimensionName string   `json:"dimension_name"`
	Score         *float64 `json:"score"`
	RawOutput     string   `json:"raw_output"`
}

// scorePattern matches "Score: 8/10" and "**Score:** 8.5/10".
var scorePattern = regexp.MustCompile(`\*\*Score:\*\*\s*(\d+(?:\.\d+)?)/10|\bScore:\s*(\d+(?:\.\d+)?)/10`)

// ParseScore extracts a numeric score from free-text evaluation output,
// clamped to [0, 10]. Returns nil when no score pattern matches.
func ParseScore(text string) *float64 {
	match := scorePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	raw := match[1]
	if raw == "" {
		raw = match[2]
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return &score
}

const temperatureDimension = 0.4

// evaluateAll scores the selected idea on every dimension, in fixed order.
// A single dimension's failure never aborts the stage: the result always has
// 11 entries, with nil scores marking failures.
func (r *run) evaluateAll(ctx context.Context, businessIdea, sectorContext string) ([]Evaluation, error) {
	evaluations := make([]Evaluation, 0, len(Dimensions))

	for idx, dimension := range Dimensions {
		step := StepForDimension(idx)
		r.progress.Start(step)

		stepName := checkpoint.DimensionStep(dimension.ID)
		var cached Evaluation
		if found, err := r.store.LoadLatest(stepName, &cached); err != nil {
			return nil, err
		} else if found {
			evaluations = append(evaluations, cached)
			r.progress.Complete(step)
			continue
		}

		evaluation := r.evaluateDimension(ctx, dimension, businessIdea, sectorContext)
		// Only completed invocations are cached; a resumed run retries a
		// dimension whose LLM call failed outright.
		if evaluation.RawOutput != "" {
			if err := r.store.Save(stepName, evaluation); err != nil {
				return nil, err
			}
		}
		evaluations = append(evaluations, evaluation)
		r.progress.Complete(step)
	}

	return evaluations, nil
}

// evaluateDimension scores the idea on one dimension. Failures degrade to a
// nil score instead of propagating.
func (r *run) evaluateDimension(ctx context.Context, dimension Dimension, businessIdea, sectorContext string) Evaluation {
	evaluation := Evaluation{
		DimensionID:   dimension.ID,
		DimensionName: dimension.Name,
	}

	questions := make([]string, len(dimension.KeyQuestions))
	for i, q := range dimension.KeyQuestions {
		questions[i] = fmt.Sprintf("%d. %s", i+1, q)
	}

	system := prompts.Format(prompts.MustGet("dimension-evaluation-system"), map[string]string{
		"DimensionName":        dimension.Name,
		"DimensionDescription": dimension.Description,
		"KeyQuestions":         strings.Join(questions, "\n"),
		"LooksFor":             dimension.LooksFor,
	})
	user := prompts.Format(prompts.MustGet("dimension-evaluation-user"), map[string]string{
		"Sector":        r.sector,
		"DimensionName": dimension.Name,
		"SectorContext": sectorContext,
		"BusinessIdea":  businessIdea,
	})

	result, err := r.client.Generate(ctx, system, user, temperatureDimension)
	if err != nil {
		return evaluation
	}

	evaluation.Score = ParseScore(result.Text)
	evaluation.RawOutput = result.Text
	return evaluation
}
