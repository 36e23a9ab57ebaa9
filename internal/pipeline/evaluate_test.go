package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-conversion-analysis/internal/model"
)

func TestConfusionTallies(t *testing.T) {
	yTrue := []int{1, 1, 1, 0, 0, 0, 0, 1}
	yPred := []int{1, 0, 1, 0, 1, 0, 0, 0}

	cm := Confusion(yTrue, yPred)
	assert.Equal(t, 2, cm.TP)
	assert.Equal(t, 1, cm.FP)
	assert.Equal(t, 3, cm.TN)
	assert.Equal(t, 2, cm.FN)
	assert.Equal(t, 8, cm.Total())
}

func resultWith(name string, tp, fp, tn, fn int) model.ModelResult {
	return model.ModelResult{
		Model:     name,
		Confusion: model.ConfusionMatrix{TP: tp, FP: fp, TN: tn, FN: fn},
	}
}

func TestSelectModelAccuracyWins(t *testing.T) {
	results := []model.ModelResult{
		resultWith(MethodLDA, 10, 10, 70, 10),  // accuracy 0.80
		resultWith(MethodForest, 20, 5, 70, 5), // accuracy 0.90
	}
	sel := SelectModel(results, 0.01)
	assert.Equal(t, MethodForest, sel.Model)
	assert.Contains(t, sel.Reason, "accuracy")
}

func TestSelectModelSensitivityBreaksTies(t *testing.T) {
	// same accuracy, forest catches more positives
	results := []model.ModelResult{
		resultWith(MethodLDA, 10, 5, 75, 10),   // acc 0.85, sens 0.50
		resultWith(MethodForest, 14, 9, 71, 6), // acc 0.85, sens 0.70
	}
	sel := SelectModel(results, 0.01)
	assert.Equal(t, MethodForest, sel.Model)
	assert.Contains(t, sel.Reason, "sensitivity")
}

func TestSelectModelRetainsFirstOnSensitivityTie(t *testing.T) {
	results := []model.ModelResult{
		resultWith(MethodLDA, 10, 5, 75, 10),
		resultWith(MethodForest, 10, 5, 75, 10),
	}
	sel := SelectModel(results, 0.01)
	assert.Equal(t, MethodLDA, sel.Model)
}

func TestSelectModelSingleCandidate(t *testing.T) {
	sel := SelectModel([]model.ModelResult{resultWith(MethodLDA, 1, 0, 9, 0)}, 0.01)
	assert.Equal(t, MethodLDA, sel.Model)
	assert.Equal(t, "only candidate", sel.Reason)
}

func TestSelectModelEmpty(t *testing.T) {
	assert.Empty(t, SelectModel(nil, 0.01).Model)
}
