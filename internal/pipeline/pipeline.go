package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go-conversion-analysis/internal/model"
	"go-conversion-analysis/internal/report"
	"go-conversion-analysis/internal/store"
	"go-conversion-analysis/pkg/utils"
)

// Experiment names.
const (
	ExperimentBaseline = "baseline"
	ExperimentBucketed = "bucketed"
)

// Run executes one analysis end to end: load, clean, describe, then
// split/train/evaluate for the baseline and the bucketed variant, and
// finally report. Stages run strictly sequentially; the first error
// aborts the run, there are no retries. Status, stage progress, model
// results and errors are persisted through the store.
func Run(ctx context.Context, runID string, cfg model.Config) (rep *model.RunReport, err error) {
	logger := slog.With("run", runID)
	stage := "starting"
	startedAt := time.Now().UTC()

	store.UpdateRunStatus(runID, "running")
	defer func() {
		if err != nil {
			logger.Error("run failed", "stage", stage, "error", err)
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, stage, err)
		}
	}()

	rep = &model.RunReport{RunID: runID, StartedAt: startedAt}

	// --- LOAD ---
	stage = "loading"
	var ds *model.Dataset
	if err = runStage(ctx, runID, logger, stage, func() (int, error) {
		var lErr error
		ds, lErr = Load(cfg.InputPath)
		if lErr != nil {
			return 0, lErr
		}
		return ds.Len(), nil
	}); err != nil {
		return nil, err
	}
	rep.RowsLoaded = ds.Len()

	// --- CLEAN ---
	stage = "cleaning"
	if err = runStage(ctx, runID, logger, stage, func() (int, error) {
		var dropped int
		ds, dropped = Clean(ds, cfg.MaxAge)
		rep.RowsDropped = dropped
		return ds.Len(), nil
	}); err != nil {
		return nil, err
	}

	// --- DESCRIBE ---
	stage = "describing"
	if err = runStage(ctx, runID, logger, stage, func() (int, error) {
		rep.Description = Describe(ds)
		logger.Info("class balance", "summary", BalanceSummary(rep.Description))
		return ds.Len(), nil
	}); err != nil {
		return nil, err
	}

	// --- BASELINE EXPERIMENT ---
	stage = ExperimentBaseline
	baseline, failedStage, err := runExperiment(ctx, runID, logger, ExperimentBaseline, ds, cfg)
	if err != nil {
		stage = failedStage
		return nil, err
	}
	rep.Experiments = append(rep.Experiments, baseline)

	// --- BUCKETED EXPERIMENT ---
	if len(cfg.Buckets) > 0 {
		stage = ExperimentBucketed
		bucketed, bFailed, bErr := runExperiment(ctx, runID, logger, ExperimentBucketed,
			ApplyBuckets(ds, cfg.Buckets), cfg)
		if bErr != nil {
			stage = bFailed
			err = bErr
			return nil, err
		}
		rep.Experiments = append(rep.Experiments, bucketed)
	}

	rep.Selection = SelectModel(baseline.Models, cfg.AccuracyMargin)
	rep.FinishedAt = time.Now().UTC()

	// --- REPORT ---
	stage = "reporting"
	if err = runStage(ctx, runID, logger, stage, func() (int, error) {
		om := utils.NewOutputManager(cfg.OutputDir)
		dir, rErr := om.CreateRunOutputDir(runID)
		if rErr != nil {
			return 0, rErr
		}
		if rErr := report.Write(dir, *rep); rErr != nil {
			return 0, rErr
		}
		if rErr := report.Plots(dir, ds); rErr != nil {
			return 0, rErr
		}
		logger.Info("report written", "dir", dir)
		return ds.Len(), nil
	}); err != nil {
		return nil, err
	}

	store.UpdateRunStatus(runID, "completed")
	logger.Info("run completed",
		"duration", time.Since(startedAt).Round(time.Millisecond),
		"selected", rep.Selection.Model)
	return rep, nil
}

// runExperiment performs the split/train/evaluate sequence on one
// dataset variant and persists each model result. On failure the
// returned stage names the failing sub-stage so run_errors matches
// stage_progress.
func runExperiment(ctx context.Context, runID string, logger *slog.Logger, name string, ds *model.Dataset, cfg model.Config) (model.ExperimentResult, string, error) {
	result := model.ExperimentResult{Name: name, Rows: ds.Len(), Bucketed: ds.Bucketed()}

	var part model.Partition
	if err := runStage(ctx, runID, logger, name+":splitting", func() (int, error) {
		part = StratifiedSplit(ds, cfg.TrainFraction, cfg.Seed)
		return len(part.Train), nil
	}); err != nil {
		return result, name + ":splitting", err
	}

	var trained []TrainedModel
	if err := runStage(ctx, runID, logger, name+":training", func() (int, error) {
		var tErr error
		trained, tErr = Train(ds, part, cfg)
		return len(part.Train), tErr
	}); err != nil {
		return result, name + ":training", err
	}

	if err := runStage(ctx, runID, logger, name+":evaluating", func() (int, error) {
		for _, tm := range trained {
			mr := model.ModelResult{
				Experiment:   name,
				Model:        tm.Name,
				Mtry:         tm.Mtry,
				CVAccuracy:   tm.CVAccuracy,
				Confusion:    Evaluate(tm, ds, part),
				TrainSeconds: tm.TrainSeconds,
			}
			result.Models = append(result.Models, mr)
			if sErr := store.SaveModelResult(runID, mr); sErr != nil {
				return 0, sErr
			}
			logger.Info("model evaluated",
				"experiment", name,
				"model", tm.Name,
				"accuracy", mr.Confusion.Accuracy(),
				"sensitivity", mr.Confusion.Sensitivity(),
				"train_seconds", tm.TrainSeconds)
		}
		return len(part.Validation), nil
	}); err != nil {
		return result, name + ":evaluating", err
	}

	return result, "", nil
}

// runStage wraps a stage body with status updates, progress rows and
// structured logs, the same bookkeeping for every stage.
func runStage(ctx context.Context, runID string, logger *slog.Logger, name string, fn func() (int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	started := time.Now().UTC()
	store.UpdateRunStatus(runID, name)
	store.SaveStageProgress(runID, name, "started", &started, nil, 0)
	logger.Info("stage started", "stage", name)

	records, err := fn()
	completed := time.Now().UTC()
	if err != nil {
		store.SaveStageProgress(runID, name, "failed", &started, &completed, records)
		return err
	}

	store.SaveStageProgress(runID, name, "completed", &started, &completed, records)
	logger.Info("stage completed",
		"stage", name,
		"records", records,
		"duration", completed.Sub(started).Round(time.Millisecond))
	return nil
}
