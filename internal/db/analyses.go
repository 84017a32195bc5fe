package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/venturelab/idea-scorer/internal/types"
)

// SaveAnalysis stores a completed report and returns the new record's ID
func (db *DB) SaveAnalysis(ctx context.Context, report *types.FinalReport) (uuid.UUID, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	documentName := "document"
	if report.DocumentMetadata != nil && report.DocumentMetadata.Name != "" {
		documentName = report.DocumentMetadata.Name
	}
	provider, model := splitModelUsed(report.ModelUsed)

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO analyses (document_name, sector, provider, model, overall_score, recommendation, report)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		documentName, report.Sector, provider, model,
		report.OverallScore, string(report.Recommendation), reportJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis retrieves a stored analysis by ID, nil when absent
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	var analysis Analysis
	var reportJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, document_name, sector, provider, model, overall_score, recommendation, report, created_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&analysis.ID, &analysis.DocumentName, &analysis.Sector, &analysis.Provider, &analysis.Model,
		&analysis.OverallScore, &analysis.Recommendation, &reportJSON, &analysis.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if len(reportJSON) > 0 {
		var report types.FinalReport
		if err := json.Unmarshal(reportJSON, &report); err == nil {
			analysis.Report = &report
		}
	}
	return &analysis, nil
}

// ListAnalyses retrieves analyses with optional filters, newest first
func (db *DB) ListAnalyses(ctx context.Context, filters AnalysisFilters) ([]AnalysisSummary, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, document_name, sector, provider, model, overall_score, recommendation, created_at
		FROM analyses WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Sector != "" {
		query += fmt.Sprintf(" AND sector ILIKE $%d", argNum)
		args = append(args, "%"+filters.Sector+"%")
		argNum++
	}
	if filters.Recommendation != "" {
		query += fmt.Sprintf(" AND recommendation = $%d", argNum)
		args = append(args, filters.Recommendation)
		argNum++
	}
	if filters.MinScore > 0 {
		query += fmt.Sprintf(" AND overall_score >= $%d", argNum)
		args = append(args, filters.MinScore)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []AnalysisSummary
	for rows.Next() {
		var a AnalysisSummary
		if err := rows.Scan(&a.ID, &a.DocumentName, &a.Sector, &a.Provider, &a.Model,
			&a.OverallScore, &a.Recommendation, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}

// DeleteAnalysis deletes a stored analysis
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis not found: %s", id)
	}
	return nil
}

func splitModelUsed(modelUsed string) (provider, model string) {
	provider, model, found := strings.Cut(modelUsed, "/")
	if !found {
		return "", modelUsed
	}
	return provider, model
}
