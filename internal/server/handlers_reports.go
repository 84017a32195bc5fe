package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/venturelab/idea-scorer/internal/db"
)

// handleListAnalyses returns stored analyses, newest first
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	filters := db.AnalysisFilters{
		Sector:         r.URL.Query().Get("sector"),
		Recommendation: r.URL.Query().Get("recommendation"),
	}
	if minScore := r.URL.Query().Get("min_score"); minScore != "" {
		value, err := strconv.ParseFloat(minScore, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid min_score")
			return
		}
		filters.MinScore = value
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil || value < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filters.Limit = value
	}

	analyses, err := s.db.ListAnalyses(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if analyses == nil {
		analyses = []db.AnalysisSummary{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": analyses})
}

// handleGetAnalysis returns one stored analysis with its full report
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid analysis ID format")
		return
	}

	analysis, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if analysis == nil {
		s.errorResponse(w, http.StatusNotFound, "Analysis not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleDeleteAnalysis deletes a stored analysis
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid analysis ID format")
		return
	}

	if err := s.db.DeleteAnalysis(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
