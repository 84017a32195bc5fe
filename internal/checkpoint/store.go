package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Store is the persistence contract used by the pipeline's step executors.
type Store interface {
	// Save appends a new timestamped record for a step. It never mutates
	// earlier records.
	Save(step string, payload any) error
	// LoadLatest unmarshals the most recent record's payload for a step
	// into out. It reports false when no record exists or checkpointing
	// is disabled for this run.
	LoadLatest(step string, out any) (bool, error)
	// Counts returns the number of records per canonical step.
	Counts() (map[string]int, error)
	// Status summarizes completion state per pipeline phase.
	Status() (*Status, error)
	// Clear deletes every record for this run context and returns the
	// number of deleted records.
	Clear() (int, error)
	// Prune deletes old records, keeping the keepLatest most recent per
	// step, and returns the number of deleted records.
	Prune(keepLatest int) (int, error)
}

// Status summarizes checkpoint completion for one run context.
type Status struct {
	DocumentName          string `json:"document_name"`
	Sector                string `json:"sector"`
	Provider              string `json:"provider"`
	Model                 string `json:"model"`
	IsNewAnalysis         bool   `json:"is_new_analysis"`
	TotalCheckpoints      int    `json:"total_checkpoints"`
	ExtractionComplete    bool   `json:"extraction_complete"`
	IdeasComplete         bool   `json:"ideas_complete"`
	DimensionsComplete    bool   `json:"dimensions_complete"`
	DimensionProgress     string `json:"dimension_progress"`
	SynthesisComplete     bool   `json:"synthesis_complete"`
	SynthesisProgress     string `json:"synthesis_progress"`
	ConsolidationComplete bool   `json:"consolidation_complete"`
}

// record is the on-disk envelope around a step payload.
type record struct {
	Timestamp time.Time       `json:"timestamp"`
	Provider  string          `json:"provider"`
	Model     string          `json:"model"`
	Document  string          `json:"document"`
	Sector    string          `json:"sector"`
	Data      json.RawMessage `json:"data"`
}

// FileStore is a file-backed Store. Records for a run live under a
// per-(provider, model) subdirectory so switching models never resumes
// from another model's output. Each record filename embeds its creation
// timestamp in nanoseconds, which is what "latest" resolution orders by.
type FileStore struct {
	dir     string
	runCtx  RunContext
	enabled bool
}

// NewFileStore creates a file-backed store rooted at baseDir for one run
// context. The store directory is created if it does not exist.
func NewFileStore(baseDir string, runCtx RunContext, enabled bool) (*FileStore, error) {
	dir := filepath.Join(baseDir, runCtx.ModelKey())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Message: "failed to create checkpoint directory", Cause: err}
	}
	return &FileStore{
		dir:     dir,
		runCtx:  runCtx,
		enabled: enabled,
	}, nil
}

// Enabled reports whether checkpointing is active for this run.
func (s *FileStore) Enabled() bool {
	return s.enabled
}

// Save appends a new timestamped record for a step. Disabled stores do not
// write.
func (s *FileStore) Save(step string, payload any) error {
	if !s.enabled {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return &StoreError{Message: fmt.Sprintf("failed to encode payload for step %s", step), Cause: err}
	}

	now := time.Now()
	rec := record{
		Timestamp: now,
		Provider:  s.runCtx.Provider,
		Model:     s.runCtx.Model,
		Document:  s.runCtx.DocumentName,
		Sector:    s.runCtx.Sector,
		Data:      data,
	}

	encoded, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return &StoreError{Message: fmt.Sprintf("failed to encode record for step %s", step), Cause: err}
	}

	// Bump the timestamp on collision so two saves in the same nanosecond
	// still produce distinct, ordered records.
	ts := now.UnixNano()
	path := s.recordPath(step, ts)
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		ts++
		path = s.recordPath(step, ts)
	}

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return &StoreError{Message: fmt.Sprintf("failed to write checkpoint for step %s", step), Cause: err}
	}
	return nil
}

// LoadLatest unmarshals the most recent record's payload for a step into out.
// Corrupted records are skipped rather than failing the run.
func (s *FileStore) LoadLatest(step string, out any) (bool, error) {
	if !s.enabled {
		return false, nil
	}

	files, err := s.stepFiles(step)
	if err != nil {
		return false, err
	}

	// Newest first; fall through to older records if one is corrupted.
	sort.Slice(files, func(i, j int) bool { return files[i].ts > files[j].ts })
	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			continue
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if err := json.Unmarshal(rec.Data, out); err != nil {
			continue
		}
		return true, nil
	}
	return false, nil
}

// Counts returns the number of records per canonical step for this run.
func (s *FileStore) Counts() (map[string]int, error) {
	counts := make(map[string]int, 17)
	for _, step := range AllSteps() {
		files, err := s.stepFiles(step)
		if err != nil {
			return nil, err
		}
		counts[step] = len(files)
	}
	return counts, nil
}

// Status summarizes completion state per pipeline phase.
func (s *FileStore) Status() (*Status, error) {
	counts, err := s.Counts()
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	dimensionsDone := 0
	for i := 1; i <= 11; i++ {
		if counts[DimensionStep(i)] > 0 {
			dimensionsDone++
		}
	}
	synthesisDone := 0
	for i := 1; i <= 3; i++ {
		if counts[SynthesisStep(i)] > 0 {
			synthesisDone++
		}
	}

	return &Status{
		DocumentName:          s.runCtx.DocumentName,
		Sector:                s.runCtx.Sector,
		Provider:              s.runCtx.Provider,
		Model:                 s.runCtx.Model,
		IsNewAnalysis:         total == 0,
		TotalCheckpoints:      total,
		ExtractionComplete:    counts[StepExtraction] > 0,
		IdeasComplete:         counts[StepIdeas] > 0,
		DimensionsComplete:    dimensionsDone == 11,
		DimensionProgress:     fmt.Sprintf("%d/11", dimensionsDone),
		SynthesisComplete:     synthesisDone == 3,
		SynthesisProgress:     fmt.Sprintf("%d/3", synthesisDone),
		ConsolidationComplete: counts[StepConsolidation] > 0,
	}, nil
}

// Clear deletes every record for this run context.
func (s *FileStore) Clear() (int, error) {
	deleted := 0
	for _, step := range AllSteps() {
		files, err := s.stepFiles(step)
		if err != nil {
			return deleted, err
		}
		for _, f := range files {
			if err := os.Remove(f.path); err != nil {
				return deleted, &StoreError{Message: "failed to delete checkpoint", Cause: err}
			}
			deleted++
		}
	}
	return deleted, nil
}

// Prune deletes old records, keeping the keepLatest most recent per step.
func (s *FileStore) Prune(keepLatest int) (int, error) {
	if keepLatest < 0 {
		keepLatest = 0
	}

	deleted := 0
	for _, step := range AllSteps() {
		files, err := s.stepFiles(step)
		if err != nil {
			return deleted, err
		}
		sort.Slice(files, func(i, j int) bool { return files[i].ts > files[j].ts })
		for _, f := range files[min(keepLatest, len(files)):] {
			if err := os.Remove(f.path); err != nil {
				return deleted, &StoreError{Message: "failed to delete checkpoint", Cause: err}
			}
			deleted++
		}
	}
	return deleted, nil
}

type stepFile struct {
	path string
	ts   int64
}

// stepFiles lists this run's record files for one step, with the creation
// timestamp parsed from each filename.
func (s *FileStore) stepFiles(step string) ([]stepFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StoreError{Message: "failed to read checkpoint directory", Cause: err}
	}

	prefix := step + "_" + s.runCtx.Key() + "_"
	var files []stepFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		tsPart := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		ts, err := strconv.ParseInt(tsPart, 10, 64)
		if err != nil {
			continue
		}
		files = append(files, stepFile{path: filepath.Join(s.dir, name), ts: ts})
	}
	return files, nil
}

func (s *FileStore) recordPath(step string, ts int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%d.json", step, s.runCtx.Key(), ts))
}
