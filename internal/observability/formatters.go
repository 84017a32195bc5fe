// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFinalReport outputs a human-readable summary of a completed evaluation.
func (p *Printer) PrintFinalReport(report *types.FinalReport) {
	if report == nil {
		return
	}

	var sb strings.Builder

	summary := report.IdeaSummary
	if idx := strings.IndexByte(summary, '\n'); idx > 0 {
		summary = summary[:idx]
	}
	if len(summary) > 50 {
		summary = summary[:47] + "..."
	}
	sb.WriteString(fmt.Sprintf("Idea:     %s\n", summary))
	sb.WriteString(fmt.Sprintf("Sector:   %s\n", report.Sector))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", report.ModelUsed))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Overall Score:   %.1f/10\n", report.OverallScore))
	sb.WriteString(fmt.Sprintf("Recommendation:  %s\n", report.Recommendation.Display()))
	sb.WriteString("\n")

	if len(report.KeyStrengths) > 0 {
		sb.WriteString("Key Strengths:\n")
		count := min(len(report.KeyStrengths), 3)
		for i := 0; i < count; i++ {
			strength := report.KeyStrengths[i]
			if len(strength) > 50 {
				strength = strength[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", strength))
		}
		sb.WriteString("\n")
	}

	if len(report.KeyConcerns) > 0 {
		sb.WriteString("Key Concerns:\n")
		count := min(len(report.KeyConcerns), 3)
		for i := 0; i < count; i++ {
			concern := report.KeyConcerns[i]
			if len(concern) > 50 {
				concern = concern[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", concern))
		}
	}

	p.printBox("EVALUATION REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDimensionScores outputs every dimension score with a bar chart.
func (p *Printer) PrintDimensionScores(scores []types.DimensionScore) {
	if len(scores) == 0 {
		return
	}

	var sb strings.Builder
	for _, score := range scores {
		name := score.Dimension
		if len(name) > 34 {
			name = name[:31] + "..."
		}
		if score.Score == nil {
			sb.WriteString(fmt.Sprintf("%-34s   n/a\n", name))
			continue
		}
		bars := int(*score.Score + 0.5)
		if bars < 0 {
			bars = 0
		}
		if bars > 10 {
			bars = 10
		}
		sb.WriteString(fmt.Sprintf("%-34s %4.1f %s\n", name, *score.Score, strings.Repeat("█", bars)))
	}

	p.printBox("DIMENSION SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCheckpointStatus outputs checkpoint progress for a document/sector pair.
func (p *Printer) PrintCheckpointStatus(status *checkpoint.Status) {
	if status == nil {
		return
	}

	if status.IsNewAnalysis {
		p.printBox("CHECKPOINT STATUS", "No checkpoints found. Analysis starts fresh.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Document:  %s\n", status.DocumentName))
	sb.WriteString(fmt.Sprintf("Sector:    %s\n", status.Sector))
	sb.WriteString(fmt.Sprintf("Model:     %s/%s\n", status.Provider, status.Model))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s Extraction\n", checkmark(status.ExtractionComplete)))
	sb.WriteString(fmt.Sprintf("%s Idea generation\n", checkmark(status.IdeasComplete)))
	sb.WriteString(fmt.Sprintf("%s Dimension evaluations (%s)\n", checkmark(status.DimensionsComplete), status.DimensionProgress))
	sb.WriteString(fmt.Sprintf("%s Synthesis (%s)\n", checkmark(status.SynthesisComplete), status.SynthesisProgress))
	sb.WriteString(fmt.Sprintf("%s Final consolidation\n", checkmark(status.ConsolidationComplete)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total checkpoint files: %d", status.TotalCheckpoints))

	p.printBox("CHECKPOINT STATUS", sb.String())
}

func checkmark(done bool) string {
	if done {
		return "✓"
	}
	return "·"
}
