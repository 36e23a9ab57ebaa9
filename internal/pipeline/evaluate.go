package pipeline

import (
	"fmt"
	"math"

	"go-conversion-analysis/internal/model"
)

// Evaluate scores a trained model against the validation side of the
// partition and returns its confusion matrix.
func Evaluate(tm TrainedModel, ds *model.Dataset, part model.Partition) model.ConfusionMatrix {
	X, y := ds.FeatureMatrix()
	Xv, yv := subset(X, y, part.Validation)
	return Confusion(yv, tm.Classifier.Predict(Xv))
}

// Confusion tallies binary predictions against truth, with the
// converted class as positive.
func Confusion(yTrue, yPred []int) model.ConfusionMatrix {
	var cm model.ConfusionMatrix
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			cm.TP++
		case yPred[i] == 1 && yTrue[i] == 0:
			cm.FP++
		case yPred[i] == 0 && yTrue[i] == 0:
			cm.TN++
		default:
			cm.FN++
		}
	}
	return cm
}

// SelectModel applies the stated business tie-break: when two models
// have comparable accuracy (within margin), prefer the one with higher
// sensitivity on the converted class, because failing to detect a
// genuine buyer is costlier than targeting a non-buyer. Otherwise the
// higher accuracy wins.
func SelectModel(results []model.ModelResult, margin float64) model.Selection {
	if len(results) == 0 {
		return model.Selection{}
	}
	best := results[0]
	reason := "only candidate"
	for _, r := range results[1:] {
		accDiff := r.Confusion.Accuracy() - best.Confusion.Accuracy()
		switch {
		case math.Abs(accDiff) <= margin:
			if r.Confusion.Sensitivity() > best.Confusion.Sensitivity() {
				reason = fmt.Sprintf(
					"accuracy comparable (within %.3f); %s preferred on sensitivity %.4f vs %.4f",
					margin, r.Model, r.Confusion.Sensitivity(), best.Confusion.Sensitivity())
				best = r
			} else {
				reason = fmt.Sprintf(
					"accuracy comparable (within %.3f); %s retained on sensitivity %.4f vs %.4f",
					margin, best.Model, best.Confusion.Sensitivity(), r.Confusion.Sensitivity())
			}
		case accDiff > 0:
			reason = fmt.Sprintf("%s wins on accuracy %.4f vs %.4f",
				r.Model, r.Confusion.Accuracy(), best.Confusion.Accuracy())
			best = r
		default:
			reason = fmt.Sprintf("%s wins on accuracy %.4f vs %.4f",
				best.Model, best.Confusion.Accuracy(), r.Confusion.Accuracy())
		}
	}
	return model.Selection{Model: best.Model, Reason: reason}
}
