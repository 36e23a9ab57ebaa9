package model

import "time"

// ConfusionMatrix holds binary classification counts with the
// "converted" class as positive.
type ConfusionMatrix struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// Total returns the number of scored records.
func (c ConfusionMatrix) Total() int { return c.TP + c.FP + c.TN + c.FN }

// Accuracy is (TP+TN)/(TP+TN+FP+FN).
func (c ConfusionMatrix) Accuracy() float64 {
	n := c.Total()
	if n == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(n)
}

// Sensitivity is the recall on the positive class: TP/(TP+FN).
func (c ConfusionMatrix) Sensitivity() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// Specificity is TN/(TN+FP).
func (c ConfusionMatrix) Specificity() float64 {
	if c.TN+c.FP == 0 {
		return 0
	}
	return float64(c.TN) / float64(c.TN+c.FP)
}

// Kappa is Cohen's chance-corrected agreement.
func (c ConfusionMatrix) Kappa() float64 {
	n := float64(c.Total())
	if n == 0 {
		return 0
	}
	po := float64(c.TP+c.TN) / n
	pe := (float64(c.TP+c.FN)*float64(c.TP+c.FP) +
		float64(c.TN+c.FP)*float64(c.TN+c.FN)) / (n * n)
	if pe == 1 {
		return 0
	}
	return (po - pe) / (1 - pe)
}

// ModelResult is one trained-and-evaluated classifier within an
// experiment.
type ModelResult struct {
	Experiment   string          `json:"experiment"` // "baseline" or "bucketed"
	Model        string          `json:"model"`      // "lda" or "forest"
	Mtry         int             `json:"mtry,omitempty"`
	CVAccuracy   float64         `json:"cv_accuracy"`
	Confusion    ConfusionMatrix `json:"confusion"`
	TrainSeconds float64         `json:"train_seconds"`
}

// ExperimentResult groups the model results for one dataset variant.
type ExperimentResult struct {
	Name     string        `json:"name"`
	Models   []ModelResult `json:"models"`
	Rows     int           `json:"rows"`
	Bucketed bool          `json:"bucketed"`
}

// Selection records the model-choice decision and its stated reason.
type Selection struct {
	Model  string `json:"model"`
	Reason string `json:"reason"`
}

// ColumnSummary describes one column of the cleaned dataset.
type ColumnSummary struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"` // "categorical" or "numeric"
	Missing int      `json:"missing"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Mean    float64  `json:"mean,omitempty"`
	Levels  []string `json:"levels,omitempty"`
}

// CorrelationPair is one pairwise Pearson correlation between numeric
// columns, flagged when |r| exceeds the redundancy threshold.
type CorrelationPair struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	R       float64 `json:"r"`
	Flagged bool    `json:"flagged"`
}

// Description is the output of the descriptive-stats stage.
type Description struct {
	Rows          int               `json:"rows"`
	Columns       int               `json:"columns"`
	ColumnSummary []ColumnSummary   `json:"column_summary"`
	Positive      int               `json:"positive"`
	Negative      int               `json:"negative"`
	PositiveShare float64           `json:"positive_share"`
	Correlations  []CorrelationPair `json:"correlations"`
	Caveats       []string          `json:"caveats"`
}

// RunReport is everything a finished run produces, rendered by the
// report package and persisted by the store.
type RunReport struct {
	RunID       string             `json:"run_id"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	RowsLoaded  int                `json:"rows_loaded"`
	RowsDropped int                `json:"rows_dropped"`
	Description Description        `json:"description"`
	Experiments []ExperimentResult `json:"experiments"`
	Selection   Selection          `json:"selection"`
}
