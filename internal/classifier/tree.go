package classifier

import (
	"errors"
	"math/rand"
	"sort"
)

// Tree is a CART-style binary classifier. Categorical features
// (label-encoded ints) split on equality; numeric features split on a
// midpoint threshold. Impurity is gini.
type Tree struct {
	MaxDepth       int    // 0 => no limit
	MinSamplesLeaf int    // minimum samples in each leaf
	Mtry           int    // features sampled per split; 0 => all
	Seed           int64  // seed for feature subsampling
	Categorical    []bool // per-feature categorical mask; nil => all numeric

	root *treeNode
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	equality  bool // categorical equality split: x == threshold goes left
	left      *treeNode
	right     *treeNode

	n    int
	pred int // majority label at this node
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

func WithMaxDepth(d int) TreeOption       { return func(t *Tree) { t.MaxDepth = d } }
func WithMinSamplesLeaf(n int) TreeOption { return func(t *Tree) { t.MinSamplesLeaf = n } }
func WithMtry(k int) TreeOption           { return func(t *Tree) { t.Mtry = k } }
func WithTreeSeed(seed int64) TreeOption  { return func(t *Tree) { t.Seed = seed } }
func WithCategorical(m []bool) TreeOption { return func(t *Tree) { t.Categorical = m } }

// NewTree returns a tree with defaults suitable for forest membership.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		MinSamplesLeaf: 1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on X (n x p) with binary labels y.
func (t *Tree) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("tree: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("tree: X and y length mismatch")
	}
	p := len(X[0])
	for _, row := range X {
		if len(row) != p {
			return errors.New("tree: ragged feature matrix")
		}
	}
	for _, lab := range y {
		if lab != 0 && lab != 1 {
			return errors.New("tree: labels must be 0 or 1")
		}
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	rnd := rand.New(rand.NewSource(t.Seed))
	t.root = t.build(X, y, idx, 0, rnd)
	return nil
}

// Predict returns the majority-leaf label for each row.
func (t *Tree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		out[i] = t.predictOne(row)
	}
	return out
}

func (t *Tree) predictOne(x []float64) int {
	node := t.root
	for node != nil && !node.leaf {
		v := x[node.feature]
		goLeft := v <= node.threshold
		if node.equality {
			goLeft = v == node.threshold
		}
		if goLeft {
			node = node.left
		} else {
			node = node.right
		}
	}
	if node == nil {
		return 0
	}
	return node.pred
}

type split struct {
	gain      float64
	feature   int
	threshold float64
	equality  bool
	left      []int
	right     []int
}

func (t *Tree) build(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *treeNode {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	node := &treeNode{n: len(idx), pred: majority(pos, len(idx))}

	pure := pos == 0 || pos == len(idx)
	if pure || len(idx) < 2*t.MinSamplesLeaf || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		node.leaf = true
		return node
	}

	best := t.bestSplit(X, y, idx, rnd)
	if best.feature < 0 || best.gain <= 0 {
		node.leaf = true
		return node
	}

	node.feature = best.feature
	node.threshold = best.threshold
	node.equality = best.equality
	node.left = t.build(X, y, best.left, depth+1, rnd)
	node.right = t.build(X, y, best.right, depth+1, rnd)
	return node
}

// bestSplit searches mtry sampled features for the gini-optimal split.
func (t *Tree) bestSplit(X [][]float64, y []int, idx []int, rnd *rand.Rand) split {
	p := len(X[0])
	features := rnd.Perm(p)
	if t.Mtry > 0 && t.Mtry < p {
		features = features[:t.Mtry]
	}

	parent := giniOf(y, idx)
	best := split{feature: -1}
	for _, f := range features {
		var s split
		if t.isCategorical(f) {
			s = bestEqualitySplit(X, y, idx, f, parent, t.MinSamplesLeaf)
		} else {
			s = bestThresholdSplit(X, y, idx, f, parent, t.MinSamplesLeaf)
		}
		if s.feature >= 0 && s.gain > best.gain {
			best = s
		}
	}
	return best
}

func (t *Tree) isCategorical(f int) bool {
	return t.Categorical != nil && f < len(t.Categorical) && t.Categorical[f]
}

// bestEqualitySplit tries x == v for each distinct value of feature f.
// Values are scanned in sorted order so gini ties resolve to the
// smallest value, keeping fits reproducible for a fixed seed.
func bestEqualitySplit(X [][]float64, y []int, idx []int, f int, parent float64, minLeaf int) split {
	best := split{feature: -1}
	seen := make(map[float64]struct{})
	for _, i := range idx {
		seen[X[i][f]] = struct{}{}
	}
	values := make([]float64, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Float64s(values)
	for _, v := range values {
		left := make([]int, 0, len(idx))
		right := make([]int, 0, len(idx))
		for _, i := range idx {
			if X[i][f] == v {
				left = append(left, i)
			} else {
				right = append(right, i)
			}
		}
		if len(left) < minLeaf || len(right) < minLeaf {
			continue
		}
		gain := parent - weightedGini(y, left, right)
		if gain > best.gain {
			best = split{gain: gain, feature: f, threshold: v, equality: true, left: left, right: right}
		}
	}
	return best
}

// bestThresholdSplit scans midpoints between consecutive distinct
// values of feature f.
func bestThresholdSplit(X [][]float64, y []int, idx []int, f int, parent float64, minLeaf int) split {
	ordered := make([]int, len(idx))
	copy(ordered, idx)
	sort.Slice(ordered, func(a, b int) bool { return X[ordered[a]][f] < X[ordered[b]][f] })

	best := split{feature: -1}
	for s := 1; s < len(ordered); s++ {
		lo, hi := X[ordered[s-1]][f], X[ordered[s]][f]
		if lo == hi {
			continue
		}
		if s < minLeaf || len(ordered)-s < minLeaf {
			continue
		}
		left := ordered[:s]
		right := ordered[s:]
		gain := parent - weightedGini(y, left, right)
		if gain > best.gain {
			best = split{
				gain:      gain,
				feature:   f,
				threshold: (lo + hi) / 2,
				left:      append([]int(nil), left...),
				right:     append([]int(nil), right...),
			}
		}
	}
	return best
}

func weightedGini(y []int, left, right []int) float64 {
	n := float64(len(left) + len(right))
	return float64(len(left))/n*giniOf(y, left) + float64(len(right))/n*giniOf(y, right)
}

func giniOf(y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	p := float64(pos) / float64(len(idx))
	return 2 * p * (1 - p)
}

func majority(pos, n int) int {
	if 2*pos > n {
		return 1
	}
	return 0
}
