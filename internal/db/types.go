package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/venturelab/idea-scorer/internal/types"
)

// Analysis is a stored evaluation run with its full report.
type Analysis struct {
	ID             uuid.UUID          `json:"id"`
	DocumentName   string             `json:"document_name"`
	Sector         string             `json:"sector"`
	Provider       string             `json:"provider"`
	Model          string             `json:"model"`
	OverallScore   float64            `json:"overall_score"`
	Recommendation string             `json:"recommendation"`
	Report         *types.FinalReport `json:"report,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// AnalysisSummary is a lightweight view of an analysis for listing
type AnalysisSummary struct {
	ID             uuid.UUID `json:"id"`
	DocumentName   string    `json:"document_name"`
	Sector         string    `json:"sector"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	OverallScore   float64   `json:"overall_score"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnalysisFilters holds optional filters for listing analyses
type AnalysisFilters struct {
	Sector         string
	Recommendation string
	MinScore       float64
	Limit          int
}
