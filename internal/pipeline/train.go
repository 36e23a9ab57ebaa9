package pipeline

import (
	"time"

	"go-conversion-analysis/internal/classifier"
	"go-conversion-analysis/internal/model"
)

// Model method names.
const (
	MethodLDA    = "lda"
	MethodForest = "forest"
)

// TrainedModel is a fitted classifier plus its tuning metadata.
type TrainedModel struct {
	Name         string
	Mtry         int // 0 for LDA
	CVAccuracy   float64
	TrainSeconds float64
	Classifier   classifier.Classifier
}

// CategoricalMask marks which encoded feature columns carry
// label-encoded categories (equality splits) rather than ordered
// numeric values. The mask is fixed by the feature layout; bucketed
// columns stay ordinal, not categorical.
func CategoricalMask() []bool {
	return []bool{true, false, true, true, false}
}

// Train fits both methods on the training side of the partition, each
// assessed with k-fold cross-validation optimizing accuracy. The
// forest additionally grid-searches mtry; ties go to the smaller
// value. Wall-clock time covers tuning plus the final refit, since the
// training-cost asymmetry between the methods is itself a decision
// input.
func Train(ds *model.Dataset, part model.Partition, cfg model.Config) ([]TrainedModel, error) {
	X, y := ds.FeatureMatrix()
	Xtr, ytr := subset(X, y, part.Train)
	mask := CategoricalMask()

	lda, err := trainLDA(Xtr, ytr, cfg)
	if err != nil {
		return nil, err
	}
	forest, err := trainForest(Xtr, ytr, mask, cfg)
	if err != nil {
		return nil, err
	}
	return []TrainedModel{lda, forest}, nil
}

// trainLDA has no hyperparameter grid; cross-validation only yields
// its accuracy estimate before the full refit.
func trainLDA(X [][]float64, y []int, cfg model.Config) (TrainedModel, error) {
	start := time.Now()
	acc, err := crossValidate(func() classifier.Classifier {
		return classifier.NewLDA()
	}, X, y, cfg.CVFolds, cfg.Seed)
	if err != nil {
		return TrainedModel{}, &FitError{Model: MethodLDA, Err: err}
	}

	final := classifier.NewLDA()
	if err := final.Fit(X, y); err != nil {
		return TrainedModel{}, &FitError{Model: MethodLDA, Err: err}
	}
	return TrainedModel{
		Name:         MethodLDA,
		CVAccuracy:   acc,
		TrainSeconds: time.Since(start).Seconds(),
		Classifier:   final,
	}, nil
}

func trainForest(X [][]float64, y []int, mask []bool, cfg model.Config) (TrainedModel, error) {
	start := time.Now()
	p := len(mask)

	bestMtry, bestAcc := 0, -1.0
	for _, mtry := range cfg.Forest.MtryGrid {
		if mtry > p {
			mtry = p
		}
		m := mtry
		acc, err := crossValidate(func() classifier.Classifier {
			return newForest(m, mask, cfg)
		}, X, y, cfg.CVFolds, cfg.Seed)
		if err != nil {
			return TrainedModel{}, &FitError{Model: MethodForest, Err: err}
		}
		// strict > keeps the smaller mtry on ties
		if acc > bestAcc {
			bestAcc, bestMtry = acc, m
		}
	}

	final := newForest(bestMtry, mask, cfg)
	if err := final.Fit(X, y); err != nil {
		return TrainedModel{}, &FitError{Model: MethodForest, Err: err}
	}
	return TrainedModel{
		Name:         MethodForest,
		Mtry:         bestMtry,
		CVAccuracy:   bestAcc,
		TrainSeconds: time.Since(start).Seconds(),
		Classifier:   final,
	}, nil
}

func newForest(mtry int, mask []bool, cfg model.Config) *classifier.Forest {
	return classifier.NewForest(
		classifier.WithTrees(cfg.Forest.Trees),
		classifier.WithForestMtry(mtry),
		classifier.WithForestMaxDepth(cfg.Forest.MaxDepth),
		classifier.WithForestSeed(cfg.Seed),
		classifier.WithForestCategorical(mask),
	)
}

// crossValidate estimates accuracy over seeded k-fold splits; each
// fold trains a fresh classifier on the remaining folds.
func crossValidate(newClassifier func() classifier.Classifier, X [][]float64, y []int, k int, seed int64) (float64, error) {
	folds := KFold(len(X), k, seed)
	correct, total := 0, 0
	for _, holdout := range folds {
		inFold := make(map[int]struct{}, len(holdout))
		for _, i := range holdout {
			inFold[i] = struct{}{}
		}
		var trainIdx []int
		for i := range X {
			if _, ok := inFold[i]; !ok {
				trainIdx = append(trainIdx, i)
			}
		}

		Xf, yf := subset(X, y, trainIdx)
		c := newClassifier()
		if err := c.Fit(Xf, yf); err != nil {
			return 0, err
		}

		Xh, yh := subset(X, y, holdout)
		for i, pred := range c.Predict(Xh) {
			if pred == yh[i] {
				correct++
			}
			total++
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}

func subset(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	Xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		Xs[i] = X[j]
		ys[i] = y[j]
	}
	return Xs, ys
}
