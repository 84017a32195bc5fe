package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/venturelab/idea-scorer/internal/checkpoint"
	"github.com/venturelab/idea-scorer/internal/ingest"
	"github.com/venturelab/idea-scorer/internal/pipeline"
	"github.com/venturelab/idea-scorer/internal/schemas"
	"github.com/venturelab/idea-scorer/internal/types"
)

// AnalysisResponse represents the response for POST /analyses
type AnalysisResponse struct {
	ID     string             `json:"id,omitempty"`
	Report *types.FinalReport `json:"report"`
}

// decodeAnalysisRequest decodes and validates the request body.
func (s *Server) decodeAnalysisRequest(w http.ResponseWriter, r *http.Request) (*types.AnalysisRequest, bool) {
	var req types.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}

	if !req.HasSource() {
		s.errorResponse(w, http.StatusBadRequest, "One of document_text, document_path, or document_url is required")
		return nil, false
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return nil, false
	}

	return &req, true
}

// handleAnalyze runs a full evaluation and returns the final report
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalysisRequest(w, r)
	if !ok {
		return
	}

	log.Printf("Starting analysis for sector %q", req.Sector)

	report, err := s.runAnalysis(r.Context(), req, nil)
	if err != nil {
		log.Printf("Analysis failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := AnalysisResponse{Report: report}
	if s.db != nil {
		id, err := s.db.SaveAnalysis(r.Context(), report)
		if err != nil {
			log.Printf("Failed to store analysis: %v", err)
		} else {
			resp.ID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAnalyzeStream runs an evaluation and streams progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAnalysisRequest(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Starting streaming analysis for sector %q", req.Sector)

	if err := sse.WriteInit(); err != nil {
		log.Printf("Error writing SSE init event: %v", err)
		return
	}

	// Progress events flow through a channel so the pipeline never blocks
	// on a slow client; the HTTP goroutine owns the response writer.
	events := make(chan pipeline.ProgressEvent, pipeline.TotalSteps*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if err := sse.WriteEvent("step", event); err != nil {
				log.Printf("Error writing SSE event: %v", err)
			}
		}
	}()

	report, runErr := s.runAnalysis(r.Context(), req, func(event pipeline.ProgressEvent) {
		select {
		case events <- event:
		case <-r.Context().Done():
		}
	})
	close(events)
	<-done

	if runErr != nil {
		log.Printf("Streaming analysis failed: %v", runErr)
		sse.WriteError(runErr.Error())
		return
	}

	if s.db != nil {
		if _, err := s.db.SaveAnalysis(r.Context(), report); err != nil {
			log.Printf("Failed to store analysis: %v", err)
		}
	}

	sse.WriteResult(report)
	log.Printf("Streaming analysis completed with score %.1f", report.OverallScore)
}

// cachedExtraction is the payload stored in the extraction cache.
type cachedExtraction struct {
	ExtractedText string `json:"extracted_text"`
}

// lookupCachedExtraction returns a previously cached extraction for the same
// document, sector, provider, and model, or "" on a miss. Cache failures are
// logged and treated as misses.
func (s *Server) lookupCachedExtraction(ctx context.Context, contentHash, sector string) string {
	if s.db == nil {
		return ""
	}
	data, err := s.db.LookupExtraction(ctx, contentHash, sector, string(s.llmConfig.Provider), s.llmConfig.Model)
	if err != nil {
		log.Printf("Extraction cache lookup failed: %v", err)
		return ""
	}
	if data == nil {
		return ""
	}
	var cached cachedExtraction
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Printf("Failed to decode cached extraction: %v", err)
		return ""
	}
	return cached.ExtractedText
}

// runAnalysis resolves the document source, builds the checkpoint store and
// LLM client, and executes the pipeline.
func (s *Server) runAnalysis(ctx context.Context, req *types.AnalysisRequest, onProgress pipeline.ProgressCallback) (*types.FinalReport, error) {
	var (
		text     string
		metadata *types.DocumentMetadata
		err      error
	)
	switch {
	case req.DocumentText != "":
		text, metadata = ingest.FromText(req.DocumentName, req.DocumentText)
	case req.DocumentPath != "":
		text, metadata, err = ingest.FromFile(req.DocumentPath)
	default:
		text, metadata, err = ingest.FromURL(ctx, req.DocumentURL)
	}
	if err != nil {
		return nil, &ErrDocumentSource{Cause: err}
	}

	enabled := !s.noCheckpoints && (req.Checkpoints == nil || *req.Checkpoints)
	store, err := checkpoint.NewFileStore(s.checkpointDir, checkpoint.RunContext{
		DocumentName: metadata.Name,
		Sector:       req.Sector,
		Provider:     string(s.llmConfig.Provider),
		Model:        s.llmConfig.Model,
	}, enabled)
	if err != nil {
		return nil, err
	}

	client, err := s.newClient(ctx, s.llmConfig, s.apiKey)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	extracted := s.lookupCachedExtraction(ctx, metadata.ContentHash, req.Sector)
	if extracted != "" {
		log.Printf("Reusing cached extraction for %q", metadata.Name)
	}

	report, err := s.runPipeline(ctx, pipeline.RunOptions{
		DocumentText:  text,
		ExtractedText: extracted,
		DocumentName:  metadata.Name,
		Sector:        req.Sector,
		NumIdeas:      req.NumIdeas,
		IdeaIndex:     req.IdeaIndex,
		Metadata:      metadata,
		Client:        client,
		Config:        s.llmConfig,
		Store:         store,
		OnProgress:    onProgress,
	})
	if err != nil {
		return nil, err
	}

	if extracted == "" && s.db != nil && report.ExtractedText != "" {
		cacheErr := s.db.CacheExtraction(ctx, metadata.ContentHash, req.Sector,
			string(s.llmConfig.Provider), s.llmConfig.Model,
			cachedExtraction{ExtractedText: report.ExtractedText})
		if cacheErr != nil {
			log.Printf("Failed to cache extraction: %v", cacheErr)
		}
	}

	if err := schemas.ValidateReport(report); err != nil {
		log.Printf("Report failed schema validation: %v", err)
	}
	return report, nil
}
