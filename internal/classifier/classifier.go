// Package classifier implements the two classifiers exercised by the
// conversion analysis: a linear discriminant and a random forest of
// CART trees. Labels are binary ints (0/1) and feature matrices are
// dense float64 rows as produced by model.Dataset.FeatureMatrix.
package classifier

// Classifier is a fitted-once, score-many binary classifier.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
}
