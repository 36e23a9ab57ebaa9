// Package report renders a finished run into the per-run output
// directory: a human-readable text report plus PNG plots. The output
// has no machine-readable schema; the store is the queryable record.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"go-conversion-analysis/internal/model"
)

// Write renders the full text report to report.txt inside dir.
func Write(dir string, rep model.RunReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Conversion analysis run %s\n", rep.RunID)
	fmt.Fprintf(&b, "started %s, finished %s\n\n",
		rep.StartedAt.Format("2006-01-02 15:04:05"),
		rep.FinishedAt.Format("2006-01-02 15:04:05"))

	writeDataset(&b, rep)
	writeDescription(&b, rep.Description)
	for _, exp := range rep.Experiments {
		writeExperiment(&b, exp)
	}
	writeComparison(&b, rep)

	fmt.Fprintf(&b, "Selected model: %s\n", rep.Selection.Model)
	fmt.Fprintf(&b, "Reason: %s\n", rep.Selection.Reason)

	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeDataset(b *strings.Builder, rep model.RunReport) {
	fmt.Fprintf(b, "== Dataset ==\n")
	fmt.Fprintf(b, "rows loaded: %d\n", rep.RowsLoaded)
	fmt.Fprintf(b, "rows dropped (age filter): %d\n", rep.RowsDropped)
	fmt.Fprintf(b, "rows analyzed: %d\n\n", rep.Description.Rows)
}

func writeDescription(b *strings.Builder, d model.Description) {
	fmt.Fprintf(b, "== Descriptive statistics ==\n")
	fmt.Fprintf(b, "dimensions: %d rows x %d columns\n\n", d.Rows, d.Columns)

	w := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\ttype\tmissing\tsummary")
	for _, c := range d.ColumnSummary {
		summary := ""
		if c.Type == "numeric" {
			summary = fmt.Sprintf("min=%.0f max=%.0f mean=%.2f", c.Min, c.Max, c.Mean)
		} else {
			summary = fmt.Sprintf("%d levels: %s", len(c.Levels), strings.Join(c.Levels, ", "))
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.Name, c.Type, c.Missing, summary)
	}
	w.Flush()

	fmt.Fprintf(b, "\nclass balance: %d converted, %d not converted (%.2f%% positive)\n",
		d.Positive, d.Negative, 100*d.PositiveShare)

	fmt.Fprintf(b, "\ncorrelations (numeric columns):\n")
	for _, c := range d.Correlations {
		flag := ""
		if c.Flagged {
			flag = "  <- above redundancy threshold"
		}
		fmt.Fprintf(b, "  %s vs %s: r = %.4f%s\n", c.A, c.B, c.R, flag)
	}

	fmt.Fprintf(b, "\ndata-quality caveats:\n")
	for _, c := range d.Caveats {
		fmt.Fprintf(b, "  - %s\n", c)
	}
	fmt.Fprintln(b)
}

func writeExperiment(b *strings.Builder, exp model.ExperimentResult) {
	fmt.Fprintf(b, "== Experiment: %s (%d rows) ==\n", exp.Name, exp.Rows)
	w := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "model\tmtry\tcv acc\taccuracy\tsensitivity\tspecificity\tkappa\ttrain (s)")
	for _, m := range exp.Models {
		mtry := "-"
		if m.Mtry > 0 {
			mtry = fmt.Sprintf("%d", m.Mtry)
		}
		cm := m.Confusion
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.2f\n",
			m.Model, mtry, m.CVAccuracy,
			cm.Accuracy(), cm.Sensitivity(), cm.Specificity(), cm.Kappa(), m.TrainSeconds)
	}
	w.Flush()

	for _, m := range exp.Models {
		cm := m.Confusion
		fmt.Fprintf(b, "\n%s confusion matrix (validation):\n", m.Model)
		fmt.Fprintf(b, "              predicted yes  predicted no\n")
		fmt.Fprintf(b, "  actual yes  %13d  %12d\n", cm.TP, cm.FN)
		fmt.Fprintf(b, "  actual no   %13d  %12d\n", cm.FP, cm.TN)
	}
	fmt.Fprintln(b)
}

// writeComparison reports the bucketing trade-off: sensitivity change
// against training-time change, per model, relative to the baseline.
func writeComparison(b *strings.Builder, rep model.RunReport) {
	if len(rep.Experiments) < 2 {
		return
	}
	baseline := rep.Experiments[0]
	fmt.Fprintf(b, "== Bucketing comparison (vs %s) ==\n", baseline.Name)
	for _, exp := range rep.Experiments[1:] {
		for _, m := range exp.Models {
			base, ok := findModel(baseline, m.Model)
			if !ok {
				continue
			}
			fmt.Fprintf(b, "  %s: sensitivity %+.4f, train time %+.2fs\n",
				m.Model,
				m.Confusion.Sensitivity()-base.Confusion.Sensitivity(),
				m.TrainSeconds-base.TrainSeconds)
		}
	}
	fmt.Fprintln(b)
}

func findModel(exp model.ExperimentResult, name string) (model.ModelResult, bool) {
	for _, m := range exp.Models {
		if m.Model == name {
			return m, true
		}
	}
	return model.ModelResult{}, false
}
