package server

import (
	"net/http"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
)

// checkpointStore builds a read-only file store for the given document and
// sector using the server's configured provider and model.
func (s *Server) checkpointStore(document, sector string) (*checkpoint.FileStore, error) {
	return checkpoint.NewFileStore(s.checkpointDir, checkpoint.RunContext{
		DocumentName: document,
		Sector:       sector,
		Provider:     string(s.llmConfig.Provider),
		Model:        s.llmConfig.Model,
	}, true)
}

// handleCheckpointStatus reports resume progress for a document/sector pair
func (s *Server) handleCheckpointStatus(w http.ResponseWriter, r *http.Request) {
	document := r.URL.Query().Get("document")
	sector := r.URL.Query().Get("sector")
	if document == "" || sector == "" {
		s.errorResponse(w, http.StatusBadRequest, "document and sector query parameters are required")
		return
	}

	store, err := s.checkpointStore(document, sector)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	status, err := store.Status()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, status)
}

// handleClearCheckpoints deletes all checkpoints for a document/sector pair
func (s *Server) handleClearCheckpoints(w http.ResponseWriter, r *http.Request) {
	document := r.URL.Query().Get("document")
	sector := r.URL.Query().Get("sector")
	if document == "" || sector == "" {
		s.errorResponse(w, http.StatusBadRequest, "document and sector query parameters are required")
		return
	}

	store, err := s.checkpointStore(document, sector)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	removed, err := store.Clear()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "cleared",
		"removed": removed,
	})
}
