// Package pipeline provides the high-level orchestration for the five-agent
// business idea evaluation process: content extraction, idea generation,
// 11-dimension evaluation, synthesis, and final consolidation.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/venturelab/idea-scorer/internal/llm"
	"github.com/venturelab/idea-scorer/internal/types"
)

// CheckpointStore is the subset of the checkpoint store the pipeline needs.
type CheckpointStore interface {
	Save(step string, payload any) error
	LoadLatest(step string, out any) (bool, error)
}

// noopStore is used when the caller provides no checkpoint store.
type noopStore struct{}

func (noopStore) Save(string, any) error               { return nil }
func (noopStore) LoadLatest(string, any) (bool, error) { return false, nil }

// RunOptions holds configuration for running the pipeline.
type RunOptions struct {
	// DocumentText is the plain text of the source document.
	DocumentText string
	// ExtractedText, when set, skips the extraction stage and feeds idea
	// generation directly.
	ExtractedText string
	DocumentName  string
	Sector        string
	NumIdeas      int
	IdeaIndex     int
	Metadata      *types.DocumentMetadata

	Client     llm.Client
	Config     *llm.Config
	Store      CheckpointStore
	OnProgress ProgressCallback
}

// run carries the per-run collaborators through the pipeline stages.
type run struct {
	client   llm.Client
	config   *llm.Config
	store    CheckpointStore
	progress *Reporter
	sector   string
}

// Run executes the full 17-step evaluation pipeline and returns the final
// report. The path is a single line through the five stages; the only
// fan-out is the 11 dimension evaluations and 3 synthesis sub-calls.
func Run(ctx context.Context, opts RunOptions) (*types.FinalReport, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("LLM client is required")
	}
	if opts.NumIdeas <= 0 {
		opts.NumIdeas = 3
	}
	if opts.IdeaIndex < 0 {
		opts.IdeaIndex = 0
	}
	config := opts.Config
	if config == nil {
		config = llm.DefaultConfig()
	}
	store := opts.Store
	if store == nil {
		store = noopStore{}
	}

	r := &run{
		client:   opts.Client,
		config:   config,
		store:    store,
		progress: NewReporter(opts.OnProgress, string(config.Provider), opts.Client.Model()),
		sector:   opts.Sector,
	}

	// Stage 1: content extraction. Pre-extracted input skips the LLM call
	// but still reports the step so clients see a complete timeline.
	r.progress.Start(1)
	extractedText := opts.ExtractedText
	if extractedText == "" {
		extraction, err := r.runExtraction(ctx, opts.DocumentText)
		if err != nil {
			r.progress.Error(1)
			return nil, &StageError{Stage: "extraction", Cause: err}
		}
		extractedText = extraction.RawOutput
	}
	r.progress.Complete(1)

	// Stage 2: idea generation.
	r.progress.Start(2)
	ideas, err := r.runIdeaGeneration(ctx, extractedText, opts.NumIdeas)
	if err != nil {
		r.progress.Error(2)
		return nil, &StageError{Stage: "idea generation", Cause: err}
	}
	r.progress.Complete(2)

	parsedIdeas := ParseIdeas(ideas.RawOutput)
	if len(parsedIdeas) == 0 {
		return nil, &NoIdeasError{Sector: opts.Sector}
	}
	selectedIndex := min(opts.IdeaIndex, len(parsedIdeas)-1)
	selectedIdea := parsedIdeas[selectedIndex]

	// Stage 3: dimensional evaluation (11 independent, ordered calls).
	evaluations, err := r.evaluateAll(ctx, selectedIdea, extractedText)
	if err != nil {
		return nil, &StageError{Stage: "dimension evaluation", Cause: err}
	}

	// Stage 4: synthesis (summary, strengths, concerns).
	synthesis, err := r.runSynthesis(ctx, selectedIdea, evaluations)
	if err != nil {
		return nil, &StageError{Stage: "synthesis", Cause: err}
	}

	// Stage 5: final consolidation.
	r.progress.Start(17)
	report, err := r.runConsolidation(ctx, synthesis, evaluations)
	if err != nil {
		r.progress.Error(17)
		return nil, &StageError{Stage: "consolidation", Cause: err}
	}
	r.progress.Complete(17)

	elapsed := math.Round(r.progress.Elapsed().Seconds()*100) / 100

	return &types.FinalReport{
		IdeaSummary:             report.BusinessIdeaSummary,
		Source:                  opts.DocumentName,
		Sector:                  opts.Sector,
		DimensionScores:         report.DimensionalScores,
		OverallScore:            report.OverallScore,
		Recommendation:          report.Recommendation,
		RecommendationRationale: report.RecommendationRationale,
		KeyStrengths:            report.KeyStrengths,
		KeyConcerns:             report.KeyConcerns,
		Timestamp:               time.Now().UTC().Format(time.RFC3339),
		ModelUsed:               fmt.Sprintf("%s/%s", config.Provider, opts.Client.Model()),
		ProcessingTimeSeconds:   elapsed,
		DocumentMetadata:        opts.Metadata,
		GeneratedIdeasCount:     len(parsedIdeas),
		EvaluatedIdeaIndex:      selectedIndex,
		ExtractedText:           extractedText,
	}, nil
}
