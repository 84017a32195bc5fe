package pipeline

import "time"

// Status represents the lifecycle state of a pipeline step.
type Status string

// Step lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// TotalSteps is the number of client-visible steps in the pipeline.
const TotalSteps = 17

// StepInfo describes one client-visible pipeline step.
type StepInfo struct {
	Step        int    `json:"step"`
	Agent       string `json:"agent"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// stepCatalog lists all 17 steps in execution order: extraction, idea
// generation, 11 dimension evaluations, 3 synthesis sub-steps, consolidation.
var stepCatalog = []StepInfo{
	{1, "Agent 1", "Content Extraction", "Extracting key market insights from the document"},
	{2, "Agent 2", "Idea Generation", "Generating viable business ideas from market data"},
	{3, "Agent 3", "Market Potential", "Evaluating market size, growth, and monetization capacity"},
	{4, "Agent 3", "Differentiated Approach", "Assessing value proposition clarity and positioning"},
	{5, "Agent 3", "Competitive Advantage", "Measuring long-term defensibility and sustainability"},
	{6, "Agent 3", "Differentiating Element", "Identifying the core feature that makes the product stand out"},
	{7, "Agent 3", "Technical Feasibility", "Assessing if the solution is technically achievable"},
	{8, "Agent 3", "Rapid Implementation", "Evaluating time and cost to reach a usable MVP"},
	{9, "Agent 3", "AI Enablement", "Evaluating how AI enhances the core product value"},
	{10, "Agent 3", "Barrier to Entry", "Assessing difficulty for new entrants to compete"},
	{11, "Agent 3", "Scalability", "Measuring if growth is non-linear and sustainable"},
	{12, "Agent 3", "Product Focus", "Evaluating if offering is a repeatable product"},
	{13, "Agent 3", "Subscription Model", "Assessing recurring revenue quality and predictability"},
	{14, "Agent 4", "Creating Summary", "Synthesizing business idea overview from evaluations"},
	{15, "Agent 4", "Identifying Strengths", "Analyzing top performing dimensions and strengths"},
	{16, "Agent 4", "Identifying Concerns", "Analyzing potential risks and areas of concern"},
	{17, "Agent 5", "Final Consolidation", "Preparing final report and recommendations"},
}

// Steps returns the full step catalog, so a client can render a complete
// progress view before the first event arrives.
func Steps() []StepInfo {
	out := make([]StepInfo, len(stepCatalog))
	copy(out, stepCatalog)
	return out
}

// StepForDimension returns the client-visible step number for the 0-based
// dimension index. Dimensions start at step 3.
func StepForDimension(index int) int {
	return 3 + index
}

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Step           int     `json:"step"`
	TotalSteps     int     `json:"total_steps"`
	Agent          string  `json:"agent"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Status         Status  `json:"status"`
	Provider       string  `json:"provider,omitempty"`
	Model          string  `json:"model,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Reporter emits step lifecycle events to a caller-supplied callback and
// tracks per-step durations. All methods are no-ops when no callback is
// registered, so observability never sits on the critical path.
type Reporter struct {
	callback   ProgressCallback
	provider   string
	model      string
	runStart   time.Time
	stepStarts map[int]time.Time
}

// NewReporter creates a Reporter. callback may be nil.
func NewReporter(callback ProgressCallback, provider, model string) *Reporter {
	return &Reporter{
		callback:   callback,
		provider:   provider,
		model:      model,
		runStart:   time.Now(),
		stepStarts: make(map[int]time.Time, TotalSteps),
	}
}

// Start marks a step as running.
func (r *Reporter) Start(step int) {
	r.stepStarts[step] = time.Now()
	r.report(step, StatusRunning, 0)
}

// Complete marks a step as completed, reporting its duration.
func (r *Reporter) Complete(step int) {
	elapsed := 0.0
	if started, ok := r.stepStarts[step]; ok {
		elapsed = time.Since(started).Seconds()
	}
	r.report(step, StatusCompleted, elapsed)
}

// Error marks a step as failed.
func (r *Reporter) Error(step int) {
	elapsed := 0.0
	if started, ok := r.stepStarts[step]; ok {
		elapsed = time.Since(started).Seconds()
	}
	r.report(step, StatusError, elapsed)
}

// Elapsed returns the time since the run started.
func (r *Reporter) Elapsed() time.Duration {
	return time.Since(r.runStart)
}

func (r *Reporter) report(step int, status Status, elapsed float64) {
	if r.callback == nil {
		return
	}
	if step < 1 || step > len(stepCatalog) {
		return
	}
	info := stepCatalog[step-1]
	r.callback(ProgressEvent{
		Step:           info.Step,
		TotalSteps:     TotalSteps,
		Agent:          info.Agent,
		Title:          info.Title,
		Description:    info.Description,
		Status:         status,
		Provider:       r.provider,
		Model:          r.model,
		ElapsedSeconds: elapsed,
	})
}
