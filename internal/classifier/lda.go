package classifier

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LDA is a two-class linear discriminant with a pooled within-class
// covariance estimate. The decision rule classifies positive when
// w·x > c, where w = S⁻¹(μ1−μ0) and c folds in the class priors.
type LDA struct {
	w []float64
	c float64
}

// NewLDA returns an unfitted linear discriminant.
func NewLDA() *LDA { return &LDA{} }

// Fit estimates the discriminant from X (n x p) and binary labels y.
func (l *LDA) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("lda: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("lda: X and y length mismatch")
	}
	p := len(X[0])

	n0, n1 := 0, 0
	mu0 := make([]float64, p)
	mu1 := make([]float64, p)
	for i, row := range X {
		if len(row) != p {
			return errors.New("lda: ragged feature matrix")
		}
		if y[i] == 1 {
			n1++
			for j, v := range row {
				mu1[j] += v
			}
		} else {
			n0++
			for j, v := range row {
				mu0[j] += v
			}
		}
	}
	if n0 == 0 || n1 == 0 {
		return errors.New("lda: training set must contain both classes")
	}
	for j := 0; j < p; j++ {
		mu0[j] /= float64(n0)
		mu1[j] /= float64(n1)
	}

	// Pooled within-class covariance.
	cov := mat.NewSymDense(p, nil)
	diff := make([]float64, p)
	for i, row := range X {
		mu := mu0
		if y[i] == 1 {
			mu = mu1
		}
		for j := range row {
			diff[j] = row[j] - mu[j]
		}
		for a := 0; a < p; a++ {
			for b := a; b < p; b++ {
				cov.SetSym(a, b, cov.At(a, b)+diff[a]*diff[b])
			}
		}
	}
	denom := float64(n0 + n1 - 2)
	for a := 0; a < p; a++ {
		for b := a; b < p; b++ {
			cov.SetSym(a, b, cov.At(a, b)/denom)
		}
	}

	// Solve S w = μ1 − μ0, ridging the diagonal if S is not
	// positive definite (constant columns make it singular).
	rhs := make([]float64, p)
	for j := 0; j < p; j++ {
		rhs[j] = mu1[j] - mu0[j]
	}
	w := mat.NewVecDense(p, nil)
	var ch mat.Cholesky
	ridge := 0.0
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if ridge == 0 {
				ridge = 1e-6 * (1 + mat.Trace(cov)/float64(p))
			} else {
				ridge *= 10
			}
			for a := 0; a < p; a++ {
				cov.SetSym(a, a, cov.At(a, a)+ridge)
			}
		}
		if ch.Factorize(cov) {
			break
		}
		if attempt >= 6 {
			return errors.New("lda: covariance matrix is not positive definite")
		}
	}
	if err := ch.SolveVecTo(w, mat.NewVecDense(p, rhs)); err != nil {
		return err
	}

	l.w = make([]float64, p)
	wx0, wx1 := 0.0, 0.0
	for j := 0; j < p; j++ {
		l.w[j] = w.AtVec(j)
		wx0 += l.w[j] * mu0[j]
		wx1 += l.w[j] * mu1[j]
	}
	prior := math.Log(float64(n1) / float64(n0))
	l.c = 0.5*(wx0+wx1) - prior
	return nil
}

// Predict scores each row against the fitted discriminant.
func (l *LDA) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		s := 0.0
		for j, v := range row {
			s += l.w[j] * v
		}
		if s > l.c {
			out[i] = 1
		}
	}
	return out
}
