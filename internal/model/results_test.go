package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfusionMatrixIdentities(t *testing.T) {
	cm := ConfusionMatrix{TP: 12, FP: 8, TN: 70, FN: 10}

	assert.Equal(t, 100, cm.Total())
	assert.InDelta(t, float64(12+70)/100, cm.Accuracy(), 1e-12)
	assert.InDelta(t, 12.0/(12+10), cm.Sensitivity(), 1e-12)
	assert.InDelta(t, 70.0/(70+8), cm.Specificity(), 1e-12)
}

func TestKappaPerfectAgreement(t *testing.T) {
	cm := ConfusionMatrix{TP: 30, TN: 70}
	assert.InDelta(t, 1.0, cm.Kappa(), 1e-12)
}

func TestKappaChanceAgreement(t *testing.T) {
	// Marginals independent of truth: expected agreement equals
	// observed, so kappa is zero.
	cm := ConfusionMatrix{TP: 25, FP: 25, FN: 25, TN: 25}
	assert.InDelta(t, 0.0, cm.Kappa(), 1e-12)
}

func TestKappaEmptyMatrix(t *testing.T) {
	var cm ConfusionMatrix
	assert.Equal(t, 0.0, cm.Kappa())
	assert.Equal(t, 0.0, cm.Accuracy())
	assert.Equal(t, 0.0, cm.Sensitivity())
	assert.Equal(t, 0.0, cm.Specificity())
}
