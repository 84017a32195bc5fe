package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/llm"
	"github.com/venturelab/idea-scorer/internal/prompts"
)

const (
	temperatureExtraction = 0.3

	// maxChunkWorkers bounds concurrent per-chunk extraction calls.
	maxChunkWorkers = 4
)

// extractionResult is the checkpointed output of the extraction stage.
type extractionResult struct {
	RawOutput      string `json:"raw_output"`
	Sector         string `json:"sector"`
	NumChunks      int    `json:"num_chunks"`
	OriginalLength int    `json:"original_length"`
}

// ChunkText splits text into chunks that fit within the token limit,
// breaking on paragraph boundaries. A single paragraph larger than the
// limit is hard-split.
func ChunkText(text string, maxTokens int) []string {
	maxChars := maxTokens * 4

	if len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	current := ""

	for _, para := range strings.Split(text, "\n\n") {
		if len(current)+len(para)+2 > maxChars {
			if current != "" {
				chunks = append(chunks, current)
				current = para
			} else {
				for i := 0; i < len(para); i += maxChars {
					end := min(i+maxChars, len(para))
					chunks = append(chunks, para[i:end])
				}
			}
		} else {
			if current != "" {
				current += "\n\n" + para
			} else {
				current = para
			}
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// runExtraction distills the document into substantive market intelligence.
// Oversized documents are chunked, extracted per chunk, and merged with one
// additional synthesis call. Extraction failures are fatal to the run.
func (r *run) runExtraction(ctx context.Context, documentContent string) (*extractionResult, error) {
	var cached extractionResult
	if found, err := r.store.LoadLatest(checkpoint.StepExtraction, &cached); err != nil {
		return nil, err
	} else if found {
		return &cached, nil
	}

	maxTokens := r.config.MaxInputTokens()
	var result *extractionResult
	var err error
	if llm.EstimateTokens(documentContent) > maxTokens {
		result, err = r.extractChunked(ctx, documentContent, maxTokens)
	} else {
		result, err = r.extractSingle(ctx, documentContent)
	}
	if err != nil {
		return nil, err
	}

	if err := r.store.Save(checkpoint.StepExtraction, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *run) extractSingle(ctx context.Context, documentContent string) (*extractionResult, error) {
	text, err := r.extractChunk(ctx, documentContent)
	if err != nil {
		return nil, err
	}
	return &extractionResult{
		RawOutput:      text,
		Sector:         r.sector,
		NumChunks:      1,
		OriginalLength: len(documentContent),
	}, nil
}

// extractChunked extracts each chunk independently with bounded parallelism,
// then merges the per-chunk extractions with one synthesis call.
func (r *run) extractChunked(ctx context.Context, documentContent string, maxTokens int) (*extractionResult, error) {
	chunks := ChunkText(documentContent, maxTokens)

	extractions := make([]string, len(chunks))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxChunkWorkers)
	for i, chunk := range chunks {
		g.Go(func() error {
			text, err := r.extractChunk(gCtx, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d/%d extraction failed: %w", i+1, len(chunks), err)
			}
			extractions[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	labeled := make([]string, len(extractions))
	for i, ext := range extractions {
		labeled[i] = fmt.Sprintf("[Chunk %d Extraction]\n%s", i+1, ext)
	}
	combined := strings.Join(labeled, "\n\n---\n\n")

	final := combined
	if len(chunks) > 1 {
		merged, err := r.mergeExtractions(ctx, combined)
		if err != nil {
			return nil, err
		}
		final = merged
	}

	return &extractionResult{
		RawOutput:      final,
		Sector:         r.sector,
		NumChunks:      len(chunks),
		OriginalLength: len(documentContent),
	}, nil
}

func (r *run) extractChunk(ctx context.Context, content string) (string, error) {
	system := prompts.MustGet("extraction-system")
	user := prompts.Format(prompts.MustGet("extraction-user"), map[string]string{
		"Sector":          r.sector,
		"DocumentContent": content,
	})

	result, err := r.client.Generate(ctx, system, user, temperatureExtraction)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

const mergeSystemPrompt = `You are synthesizing multiple extraction results into a single coherent summary.
Combine the insights, remove redundancy, and create a unified analysis following the same structure as the inputs.`

const mergeUserPrompt = `Synthesize these extraction results into a single coherent summary:

%s

Maintain the original structure (KEY MARKET INSIGHTS, CRITICAL METRICS, etc.) but consolidate and deduplicate.`

func (r *run) mergeExtractions(ctx context.Context, combined string) (string, error) {
	result, err := r.client.Generate(ctx, mergeSystemPrompt, fmt.Sprintf(mergeUserPrompt, combined), temperatureExtraction)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
