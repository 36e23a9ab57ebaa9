package pipeline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"go-conversion-analysis/internal/model"
)

// redundancyThreshold flags numeric column pairs whose absolute
// Pearson correlation suggests one is redundant.
const redundancyThreshold = 0.5

// Describe computes the read-only descriptive statistics over the
// cleaned dataset: dimensions, per-column summaries, class balance and
// pairwise correlation among the numeric columns. It must run after
// Clean so the report reflects cleaned data.
func Describe(ds *model.Dataset) model.Description {
	n := ds.Len()
	ages := make([]float64, n)
	views := make([]float64, n)
	countries := make([]string, n)
	sources := make([]string, n)
	for i, s := range ds.Sessions {
		ages[i] = float64(s.Age)
		views[i] = float64(s.PageViews)
		countries[i] = s.Country
		sources[i] = s.Source
	}

	pos := ds.Positives()
	desc := model.Description{
		Rows:     n,
		Columns:  len(model.ExpectedHeader),
		Positive: pos,
		Negative: n - pos,
	}
	if n > 0 {
		desc.PositiveShare = float64(pos) / float64(n)
	}

	desc.ColumnSummary = []model.ColumnSummary{
		{Name: model.ColumnCountry, Type: "categorical", Levels: model.Levels(countries)},
		numericSummary(model.ColumnAge, ages),
		{Name: model.ColumnNewUser, Type: "categorical", Levels: []string{"new", "returning"}},
		{Name: model.ColumnSource, Type: "categorical", Levels: model.Levels(sources)},
		numericSummary(model.ColumnPageViews, views),
		{Name: model.ColumnConverted, Type: "categorical", Levels: []string{"no", "yes"}},
	}

	r := stat.Correlation(ages, views, nil)
	if math.IsNaN(r) {
		r = 0
	}
	desc.Correlations = []model.CorrelationPair{{
		A:       model.ColumnAge,
		B:       model.ColumnPageViews,
		R:       r,
		Flagged: math.Abs(r) > redundancyThreshold,
	}}

	desc.Caveats = []string{
		"age is populated even for sessions whose registration status marks a first-time visitor; " +
			"this is logically inconsistent with self-reported age at sign-up and is left unresolved",
		"the age < 100 filter is a hand-chosen threshold for sentinel values (111, 123 observed); " +
			"true outliers are not distinguished from data-entry errors",
	}
	return desc
}

func numericSummary(name string, values []float64) model.ColumnSummary {
	s := model.ColumnSummary{Name: name, Type: "numeric"}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = stat.Mean(values, nil)
	return s
}

// BalanceSummary formats the class balance for logs.
func BalanceSummary(d model.Description) string {
	return fmt.Sprintf("%d converted / %d total (%.2f%%)", d.Positive, d.Rows, 100*d.PositiveShare)
}
