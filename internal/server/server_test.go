package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelab/idea-scorer/internal/llm"
	"github.com/venturelab/idea-scorer/internal/pipeline"
	"github.com/venturelab/idea-scorer/internal/server/ratelimit"
	"github.com/venturelab/idea-scorer/internal/types"
)

type stubLLMClient struct{}

func (c *stubLLMClient) Generate(context.Context, string, string, float32) (*llm.Result, error) {
	return &llm.Result{Text: "stub"}, nil
}
func (c *stubLLMClient) Model() string { return "stub-model" }
func (c *stubLLMClient) Close() error  { return nil }

func stubReport() *types.FinalReport {
	score := 8.0
	dims := make([]types.DimensionScore, len(pipeline.Dimensions))
	for i, d := range pipeline.Dimensions {
		dims[i] = types.DimensionScore{Dimension: d.Name, Score: &score}
	}
	return &types.FinalReport{
		IdeaSummary:             "Unified commuter platform.",
		Sector:                  "urban mobility",
		DimensionScores:         dims,
		OverallScore:            8.0,
		Recommendation:          types.StrongProceed,
		RecommendationRationale: "Strong across the board.",
		KeyStrengths:            []string{"Market pull"},
		KeyConcerns:             []string{"Sales cycles"},
		Timestamp:               "2025-01-01T00:00:00Z",
		ModelUsed:               "gemini/stub-model",
	}
}

// newTestServer builds a server with the pipeline and LLM client stubbed
// out, no database, and rate limiting disabled.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		apiKey:        "test-key",
		llmConfig:     &llm.Config{Provider: llm.ProviderGemini, Model: "stub-model"},
		checkpointDir: t.TempDir(),
		rateLimiter:   ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
		newClient: func(context.Context, *llm.Config, string) (llm.Client, error) {
			return &stubLLMClient{}, nil
		},
		runPipeline: func(ctx context.Context, opts pipeline.RunOptions) (*types.FinalReport, error) {
			if opts.OnProgress != nil {
				reporter := pipeline.NewReporter(opts.OnProgress, "gemini", "stub-model")
				for step := 1; step <= pipeline.TotalSteps; step++ {
					reporter.Start(step)
					reporter.Complete(step)
				}
			}
			return stubReport(), nil
		},
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleSteps(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/steps", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalSteps int                 `json:"total_steps"`
		Steps      []pipeline.StepInfo `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pipeline.TotalSteps, resp.TotalSteps)
	require.Len(t, resp.Steps, pipeline.TotalSteps)
	assert.Equal(t, "Content Extraction", resp.Steps[0].Title)
}

func TestHandleAnalyze(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/analyses", types.AnalysisRequest{
		DocumentText: "The urban mobility market is growing.",
		Sector:       "urban mobility",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, 8.0, resp.Report.OverallScore)
	assert.Equal(t, types.StrongProceed, resp.Report.Recommendation)
	assert.Empty(t, resp.ID, "no database, no stored ID")
}

func TestHandleAnalyze_MissingSector(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/analyses", types.AnalysisRequest{
		DocumentText: "Some document.",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_MissingSource(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/analyses", types.AnalysisRequest{Sector: "fintech"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "document_text")
}

func TestHandleAnalyze_InvalidBody(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeStream(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postJSON(t, handler, "/analyses/stream", types.AnalysisRequest{
		DocumentText: "The urban mobility market is growing.",
		Sector:       "urban mobility",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: init")
	assert.Contains(t, body, `"total_steps":17`)
	assert.Contains(t, body, "event: step")
	assert.Contains(t, body, "Content Extraction")
	assert.Contains(t, body, "event: result")
	assert.Contains(t, body, "STRONG_PROCEED")
	assert.NotContains(t, body, "event: error")
}

func TestHandleAnalyzeStream_PipelineError(t *testing.T) {
	s := newTestServer(t)
	s.runPipeline = func(context.Context, pipeline.RunOptions) (*types.FinalReport, error) {
		return nil, &pipeline.NoIdeasError{Sector: "fintech"}
	}

	rec := postJSON(t, s.Handler(), "/analyses/stream", types.AnalysisRequest{
		DocumentText: "doc",
		Sector:       "fintech",
	})

	body := rec.Body.String()
	assert.Contains(t, body, "event: error")
	assert.NotContains(t, body, "event: result")
}

func TestHandleListAnalyses_NoDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "No database configured")
}

func TestHandleGetAnalysis_InvalidID(t *testing.T) {
	s := newTestServer(t)
	// requireDB fires before ID parsing when no database is configured.
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses/not-a-uuid", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleCheckpointStatus(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/checkpoints/status?document=market-report&sector=fintech", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_new_analysis":true`)
}

func TestHandleCheckpointStatus_MissingParams(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/checkpoints/status", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleClearCheckpoints(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		"/checkpoints?document=market-report&sector=fintech", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":0`)
}

func TestRateLimit_AnalysisEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	defer s.rateLimiter.Stop()
	handler := s.Handler()

	req := types.AnalysisRequest{DocumentText: "doc", Sector: "fintech"}

	// Default burst for POST /analyses is 2.
	for i := 0; i < 2; i++ {
		rec := postJSON(t, handler, "/analyses", req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postJSON(t, handler, "/analyses", req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(&pipeline.NoIdeasError{Sector: "x"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrDocumentSource{Cause: assert.AnError}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
