package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-conversion-analysis/internal/model"
)

func openTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { Close() })
}

func TestSaveAndGetRun(t *testing.T) {
	openTestDB(t)

	cfg := model.DefaultConfig()
	cfg.InputPath = "data/conversion.csv"
	require.NoError(t, SaveRun("run-1", cfg))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run["id"])
	assert.Equal(t, "pending", run["status"])

	stored, ok := run["config"].(model.Config)
	require.True(t, ok)
	assert.Equal(t, "data/conversion.csv", stored.InputPath)
	assert.Equal(t, cfg.Seed, stored.Seed)
}

func TestUpdateRunStatus(t *testing.T) {
	openTestDB(t)
	require.NoError(t, SaveRun("run-1", model.DefaultConfig()))

	require.NoError(t, UpdateRunStatus("run-1", "completed"))
	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", run["status"])
}

func TestGetRunUnknownID(t *testing.T) {
	openTestDB(t)
	_, err := GetRun("missing")
	assert.Error(t, err)
}

func TestSaveRunError(t *testing.T) {
	openTestDB(t)
	require.NoError(t, SaveRun("run-1", model.DefaultConfig()))

	require.NoError(t, SaveRunError("run-1", "loading", errors.New("boom")))
	// a nil error is a no-op, not a row
	require.NoError(t, SaveRunError("run-1", "loading", nil))

	errs, err := RunErrors("run-1")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "loading", errs[0]["stage"])
	assert.Equal(t, "boom", errs[0]["error"])
}

func TestSaveStageProgress(t *testing.T) {
	openTestDB(t)
	require.NoError(t, SaveRun("run-1", model.DefaultConfig()))

	started := time.Now().UTC()
	require.NoError(t, SaveStageProgress("run-1", "loading", "started", &started, nil, 0))
	completed := time.Now().UTC()
	require.NoError(t, SaveStageProgress("run-1", "loading", "completed", &started, &completed, 316200))
}

func TestModelResultsRoundTrip(t *testing.T) {
	openTestDB(t)
	require.NoError(t, SaveRun("run-1", model.DefaultConfig()))

	lda := model.ModelResult{
		Experiment: "baseline",
		Model:      "lda",
		CVAccuracy: 0.9712,
		Confusion:  model.ConfusionMatrix{TP: 410, FP: 120, TN: 61000, FN: 1700},
	}
	forest := model.ModelResult{
		Experiment:   "baseline",
		Model:        "forest",
		Mtry:         3,
		CVAccuracy:   0.9731,
		Confusion:    model.ConfusionMatrix{TP: 480, FP: 140, TN: 60980, FN: 1630},
		TrainSeconds: 42.5,
	}
	require.NoError(t, SaveModelResult("run-1", lda))
	require.NoError(t, SaveModelResult("run-1", forest))
	require.NoError(t, SaveModelResult("other-run", model.ModelResult{Model: "lda"}))

	results, err := ModelResults("run-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, lda, results[0])
	assert.Equal(t, forest, results[1])
}

func TestListRuns(t *testing.T) {
	openTestDB(t)
	require.NoError(t, SaveRun("run-1", model.DefaultConfig()))
	require.NoError(t, SaveRun("run-2", model.DefaultConfig()))

	runs, err := ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
