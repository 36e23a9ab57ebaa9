package classifier

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// Forest is a bagged ensemble of CART trees with per-split feature
// subsampling. Prediction is a majority vote across trees.
type Forest struct {
	Trees          int
	Mtry           int
	MaxDepth       int
	MinSamplesLeaf int
	Seed           int64
	Categorical    []bool

	trees []*Tree
}

// ForestOption configures a Forest.
type ForestOption func(*Forest)

func WithTrees(n int) ForestOption           { return func(f *Forest) { f.Trees = n } }
func WithForestMtry(k int) ForestOption      { return func(f *Forest) { f.Mtry = k } }
func WithForestMaxDepth(d int) ForestOption  { return func(f *Forest) { f.MaxDepth = d } }
func WithForestMinLeaf(n int) ForestOption   { return func(f *Forest) { f.MinSamplesLeaf = n } }
func WithForestSeed(seed int64) ForestOption { return func(f *Forest) { f.Seed = seed } }
func WithForestCategorical(m []bool) ForestOption {
	return func(f *Forest) { f.Categorical = m }
}

// NewForest initializes the forest with sensible defaults.
func NewForest(opts ...ForestOption) *Forest {
	f := &Forest{
		Trees:          100,
		MinSamplesLeaf: 1,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains every tree on a bootstrap resample. Tree seeds derive
// from the forest seed so fits are reproducible. Trees fit
// concurrently; the concurrency is internal and leaves no observable
// shared state.
func (f *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("forest: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("forest: X and y length mismatch")
	}

	n := len(X)
	f.trees = make([]*Tree, f.Trees)

	var wg sync.WaitGroup
	errCh := make(chan error, f.Trees)
	for i := 0; i < f.Trees; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()

			// Per-tree source so goroutines never contend on one rng.
			rnd := rand.New(rand.NewSource(f.Seed + int64(treeIdx)))
			Xb := make([][]float64, n)
			yb := make([]int, n)
			for j := 0; j < n; j++ {
				k := rnd.Intn(n)
				Xb[j] = X[k]
				yb[j] = y[k]
			}

			tree := NewTree(
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesLeaf(f.MinSamplesLeaf),
				WithMtry(f.Mtry),
				WithTreeSeed(f.Seed+int64(treeIdx)),
				WithCategorical(f.Categorical),
			)
			if err := tree.Fit(Xb, yb); err != nil {
				errCh <- fmt.Errorf("forest: tree %d: %w", treeIdx, err)
				return
			}
			f.trees[treeIdx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// Predict returns the majority vote of all trees.
func (f *Forest) Predict(X [][]float64) []int {
	votes := make([]int, len(X))
	for _, tree := range f.trees {
		for i, label := range tree.Predict(X) {
			votes[i] += label
		}
	}
	out := make([]int, len(X))
	for i, v := range votes {
		if 2*v > len(f.trees) {
			out[i] = 1
		}
	}
	return out
}
