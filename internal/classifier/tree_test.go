package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeFitsSeparableData(t *testing.T) {
	// one numeric feature, perfectly separable at 5
	X := [][]float64{{1}, {2}, {3}, {4}, {6}, {7}, {8}, {9}}
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}

	tree := NewTree()
	require.NoError(t, tree.Fit(X, y))

	assert.Equal(t, y, tree.Predict(X))
	assert.Equal(t, []int{0, 1}, tree.Predict([][]float64{{0}, {100}}))
}

func TestTreeCategoricalEqualitySplit(t *testing.T) {
	// label-encoded categorical feature: class 1 only for level 2
	X := [][]float64{{0}, {1}, {2}, {2}, {0}, {1}, {2}}
	y := []int{0, 0, 1, 1, 0, 0, 1}

	tree := NewTree(WithCategorical([]bool{true}))
	require.NoError(t, tree.Fit(X, y))

	assert.Equal(t, []int{1, 0, 0}, tree.Predict([][]float64{{2}, {0}, {1}}))
}

func TestTreeCategoricalTieIsDeterministic(t *testing.T) {
	// x==0 and x==1 are gini-tied splits; the smaller value must win
	// every time so same-seed fits never diverge
	X := [][]float64{{0}, {0}, {1}, {1}, {2}, {2}}
	y := []int{1, 1, 0, 0, 1, 0}

	for i := 0; i < 100; i++ {
		tree := NewTree(WithMaxDepth(1), WithTreeSeed(42), WithCategorical([]bool{true}))
		require.NoError(t, tree.Fit(X, y))
		assert.Equal(t, []int{1, 0, 0}, tree.Predict([][]float64{{0}, {1}, {2}}))
	}
}

func TestTreeMaxDepthLimitsGrowth(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{0, 1, 0, 1}

	tree := NewTree(WithMaxDepth(1))
	require.NoError(t, tree.Fit(X, y))

	// a depth-1 tree has at most two leaves; predictions exist either way
	preds := tree.Predict(X)
	assert.Len(t, preds, 4)
}

func TestTreeRejectsBadInput(t *testing.T) {
	tree := NewTree()
	assert.Error(t, tree.Fit(nil, nil))
	assert.Error(t, tree.Fit([][]float64{{1}}, []int{0, 1}))
	assert.Error(t, tree.Fit([][]float64{{1}, {2}}, []int{0, 2}))
	assert.Error(t, tree.Fit([][]float64{{1, 2}, {3}}, []int{0, 1}))
}

func TestTreePureNodeIsLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []int{1, 1, 1}

	tree := NewTree()
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, []int{1, 1, 1}, tree.Predict(X))
}
