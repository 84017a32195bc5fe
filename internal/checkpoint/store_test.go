package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunContext() RunContext {
	return RunContext{
		DocumentName: "market-report",
		Sector:       "fintech",
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
	}
}

func newTestStore(t *testing.T, enabled bool) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), testRunContext(), enabled)
	require.NoError(t, err)
	return store
}

func TestAllSteps(t *testing.T) {
	steps := AllSteps()
	require.Len(t, steps, 17)
	assert.Equal(t, "agent1", steps[0])
	assert.Equal(t, "agent2", steps[1])
	assert.Equal(t, "agent3_1", steps[2])
	assert.Equal(t, "agent3_11", steps[12])
	assert.Equal(t, "agent4_1", steps[13])
	assert.Equal(t, "agent4_3", steps[15])
	assert.Equal(t, "agent5", steps[16])
}

func TestSaveAndLoadLatest(t *testing.T) {
	store := newTestStore(t, true)

	err := store.Save(StepExtraction, map[string]string{"extracted": "first"})
	require.NoError(t, err)

	var payload map[string]string
	found, err := store.LoadLatest(StepExtraction, &payload)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", payload["extracted"])
}

func TestLoadLatest_Absent(t *testing.T) {
	store := newTestStore(t, true)

	var payload map[string]string
	found, err := store.LoadLatest(StepIdeas, &payload)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadLatest_LatestWins(t *testing.T) {
	store := newTestStore(t, true)

	require.NoError(t, store.Save(StepIdeas, map[string]string{"v": "old"}))
	require.NoError(t, store.Save(StepIdeas, map[string]string{"v": "new"}))

	var payload map[string]string
	found, err := store.LoadLatest(StepIdeas, &payload)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", payload["v"])
}

func TestLoadLatest_Idempotent(t *testing.T) {
	store := newTestStore(t, true)
	require.NoError(t, store.Save(DimensionStep(4), map[string]float64{"score": 7.5}))

	var first, second map[string]float64
	found, err := store.LoadLatest(DimensionStep(4), &first)
	require.NoError(t, err)
	require.True(t, found)

	found, err = store.LoadLatest(DimensionStep(4), &second)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first, second)
}

func TestDisabledStore(t *testing.T) {
	store := newTestStore(t, false)

	require.NoError(t, store.Save(StepExtraction, map[string]string{"extracted": "text"}))

	var payload map[string]string
	found, err := store.LoadLatest(StepExtraction, &payload)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, store.Enabled())
}

func TestRunContextIsolation(t *testing.T) {
	base := t.TempDir()

	ctxA := testRunContext()
	storeA, err := NewFileStore(base, ctxA, true)
	require.NoError(t, err)

	// Same document and sector but a different model must not share records.
	ctxB := testRunContext()
	ctxB.Model = "gemini-2.0-pro"
	storeB, err := NewFileStore(base, ctxB, true)
	require.NoError(t, err)

	// Different sector, same model.
	ctxC := testRunContext()
	ctxC.Sector = "healthcare"
	storeC, err := NewFileStore(base, ctxC, true)
	require.NoError(t, err)

	require.NoError(t, storeA.Save(StepExtraction, map[string]string{"owner": "a"}))

	var payload map[string]string
	found, err := storeB.LoadLatest(StepExtraction, &payload)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = storeC.LoadLatest(StepExtraction, &payload)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = storeA.LoadLatest(StepExtraction, &payload)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", payload["owner"])
}

func TestStatus(t *testing.T) {
	store := newTestStore(t, true)

	status, err := store.Status()
	require.NoError(t, err)
	assert.True(t, status.IsNewAnalysis)
	assert.Equal(t, 0, status.TotalCheckpoints)

	require.NoError(t, store.Save(StepExtraction, "text"))
	require.NoError(t, store.Save(StepIdeas, "ideas"))
	require.NoError(t, store.Save(DimensionStep(1), "d1"))
	require.NoError(t, store.Save(DimensionStep(2), "d2"))

	status, err = store.Status()
	require.NoError(t, err)
	assert.False(t, status.IsNewAnalysis)
	assert.Equal(t, 4, status.TotalCheckpoints)
	assert.True(t, status.ExtractionComplete)
	assert.True(t, status.IdeasComplete)
	assert.False(t, status.DimensionsComplete)
	assert.Equal(t, "2/11", status.DimensionProgress)
	assert.Equal(t, "0/3", status.SynthesisProgress)
	assert.False(t, status.ConsolidationComplete)
}

func TestClear(t *testing.T) {
	store := newTestStore(t, true)

	require.NoError(t, store.Save(StepExtraction, "text"))
	require.NoError(t, store.Save(StepIdeas, "ideas"))
	require.NoError(t, store.Save(StepIdeas, "ideas-again"))

	deleted, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	status, err := store.Status()
	require.NoError(t, err)
	assert.True(t, status.IsNewAnalysis)
}

func TestPrune(t *testing.T) {
	store := newTestStore(t, true)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(StepExtraction, map[string]int{"version": i}))
	}

	deleted, err := store.Prune(3)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// The newest record survives pruning.
	var payload map[string]int
	found, err := store.LoadLatest(StepExtraction, &payload)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, payload["version"])

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, 3, counts[StepExtraction])
}

func TestSanitizedNamesStayIsolated(t *testing.T) {
	base := t.TempDir()

	ctx := RunContext{
		DocumentName: "q3_report final",
		Sector:       "clean energy",
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
	}
	store, err := NewFileStore(base, ctx, true)
	require.NoError(t, err)

	require.NoError(t, store.Save(StepExtraction, "text"))

	var payload string
	found, err := store.LoadLatest(StepExtraction, &payload)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "text", payload)
}
