// Package checkpoint persists intermediate pipeline results so that an
// interrupted evaluation can resume without repeating completed LLM calls.
//
// Every record is keyed by a step name plus the full run context (document,
// sector, provider, model). Records are append-only: a step may accumulate
// several timestamped records and the latest one is authoritative.
package checkpoint

import (
	"fmt"
	"strings"
)

// Canonical step names for the five-agent pipeline. Dimension evaluations
// (agent3) and synthesis sub-steps (agent4) checkpoint independently so a
// partial run resumes at the first uncompleted sub-step.
const (
	StepExtraction    = "agent1"
	StepIdeas         = "agent2"
	StepConsolidation = "agent5"
)

// DimensionStep returns the checkpoint step name for the 1-based dimension index.
func DimensionStep(index int) string {
	return fmt.Sprintf("agent3_%d", index)
}

// SynthesisStep returns the checkpoint step name for the 1-based synthesis
// sub-step index (1 = summary, 2 = strengths, 3 = concerns).
func SynthesisStep(index int) string {
	return fmt.Sprintf("agent4_%d", index)
}

// AllSteps returns the 17 canonical step names in pipeline order.
func AllSteps() []string {
	steps := make([]string, 0, 17)
	steps = append(steps, StepExtraction, StepIdeas)
	for i := 1; i <= 11; i++ {
		steps = append(steps, DimensionStep(i))
	}
	for i := 1; i <= 3; i++ {
		steps = append(steps, SynthesisStep(i))
	}
	return append(steps, StepConsolidation)
}

// RunContext identifies one evaluation job. It is immutable for the run's
// lifetime and forms part of every checkpoint key, so runs over different
// documents, sectors, or models never share records.
type RunContext struct {
	DocumentName string
	Sector       string
	Provider     string
	Model        string
}

// Key returns a filesystem-safe identity string for the run context's
// document and sector.
func (rc *RunContext) Key() string {
	return sanitize(rc.DocumentName) + "_" + sanitize(rc.Sector)
}

// ModelKey returns a filesystem-safe identity string for the run context's
// provider and model.
func (rc *RunContext) ModelKey() string {
	return sanitize(rc.Provider) + "_" + sanitize(rc.Model)
}

// sanitize makes a run-context component safe to embed in a checkpoint
// filename. Underscores are the field separator, so they are folded into
// hyphens along with path separators and whitespace.
func sanitize(s string) string {
	replacer := strings.NewReplacer(
		"_", "-",
		"/", "-",
		"\\", "-",
		" ", "-",
		":", "-",
	)
	out := replacer.Replace(strings.TrimSpace(s))
	if out == "" {
		return "unnamed"
	}
	return out
}
