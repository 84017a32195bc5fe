package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/prompts"
)

const temperatureIdeas = 0.8

// ideaDelimiter separates individual idea write-ups in the generation output.
const ideaDelimiter = "### BUSINESS IDEA #"

// ideasResult is the checkpointed output of the idea-generation stage.
type ideasResult struct {
	RawOutput         string `json:"raw_output"`
	Sector            string `json:"sector"`
	NumIdeasRequested int    `json:"num_ideas_requested"`
}

// runIdeaGeneration produces N distinct idea write-ups in one LLM call.
// Failures here are fatal: downstream stages have nothing to evaluate.
func (r *run) runIdeaGeneration(ctx context.Context, extractedInfo string, numIdeas int) (*ideasResult, error) {
	var cached ideasResult
	if found, err := r.store.LoadLatest(checkpoint.StepIdeas, &cached); err != nil {
		return nil, err
	} else if found {
		return &cached, nil
	}

	system := prompts.MustGet("idea-generation-system")
	user := prompts.Format(prompts.MustGet("idea-generation-user"), map[string]string{
		"Sector":        r.sector,
		"NumIdeas":      strconv.Itoa(numIdeas),
		"ExtractedInfo": extractedInfo,
	})

	generated, err := r.client.Generate(ctx, system, user, temperatureIdeas)
	if err != nil {
		return nil, err
	}

	result := &ideasResult{
		RawOutput:         generated.Text,
		Sector:            r.sector,
		NumIdeasRequested: numIdeas,
	}
	if err := r.store.Save(checkpoint.StepIdeas, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ParseIdeas splits the generation output into individual idea write-ups by
// the fixed delimiter convention. Returns an empty slice when no delimiter
// is present.
func ParseIdeas(ideasOutput string) []string {
	parts := strings.Split(ideasOutput, ideaDelimiter)
	ideas := make([]string, 0, len(parts))
	for _, part := range parts[1:] {
		ideas = append(ideas, ideaDelimiter+strings.TrimSpace(part))
	}
	return ideas
}
