package model

import (
	"fmt"
	"sort"
)

// Column names of the input file, in header order.
const (
	ColumnCountry   = "country"
	ColumnAge       = "age"
	ColumnNewUser   = "new_user"
	ColumnSource    = "source"
	ColumnPageViews = "total_pages_visited"
	ColumnConverted = "converted"
)

// ExpectedHeader is the required CSV header.
var ExpectedHeader = []string{
	ColumnCountry,
	ColumnAge,
	ColumnNewUser,
	ColumnSource,
	ColumnPageViews,
	ColumnConverted,
}

// FeatureNames lists the model features in matrix column order.
var FeatureNames = []string{
	ColumnCountry,
	ColumnAge,
	ColumnNewUser,
	ColumnSource,
	ColumnPageViews,
}

// Session is one website visitor session. NewUser and Converted are
// categorical, not numeric: the 0/1 input encoding is recast at load.
type Session struct {
	Country   string
	Age       int
	NewUser   bool
	Source    string
	PageViews int
	Converted bool
}

// Binning describes an applied discretization of one continuous column.
type Binning struct {
	Column      string
	Breakpoints []int
}

// Bin assigns v to an ordinal bin index. The first bin is closed on
// both sides so the minimum plausible value lands inside it; later bins
// are half-open (lo, hi]; the last bin is open-ended. Values below the
// first breakpoint clamp into the first bin.
func (b Binning) Bin(v int) int {
	bp := b.Breakpoints
	if v <= bp[1] {
		return 0
	}
	for i := 2; i < len(bp); i++ {
		if v <= bp[i] {
			return i - 1
		}
	}
	return len(bp) - 1
}

// NumBins returns the number of bins defined by the breakpoints.
func (b Binning) NumBins() int {
	return len(b.Breakpoints)
}

// Label renders the human-readable label for a bin index:
// "17-21" for multi-value bins, "3" for single-value bins, and
// "40+" for the open-ended last bin.
func (b Binning) Label(bin int) string {
	bp := b.Breakpoints
	if bin >= len(bp)-1 {
		return fmt.Sprintf("%d+", bp[len(bp)-1]+1)
	}
	lo, hi := bp[bin]+1, bp[bin+1]
	if lo >= hi {
		return fmt.Sprintf("%d", hi)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// Dataset is an ordered collection of sessions, immutable once the
// cleaning step completes.
type Dataset struct {
	Sessions   []Session
	SourcePath string

	// Applied discretizations; nil for the unbucketed baseline.
	AgeBins      *Binning
	PageViewBins *Binning
}

// Len returns the number of sessions.
func (d *Dataset) Len() int { return len(d.Sessions) }

// Bucketed reports whether any column has been discretized.
func (d *Dataset) Bucketed() bool { return d.AgeBins != nil || d.PageViewBins != nil }

// Positives counts sessions with Converted = true.
func (d *Dataset) Positives() int {
	n := 0
	for _, s := range d.Sessions {
		if s.Converted {
			n++
		}
	}
	return n
}

// Levels returns the sorted distinct values of a categorical column,
// giving a deterministic label encoding.
func Levels(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// FeatureMatrix encodes the five features into a numeric matrix and
// the target into 0/1 labels. Categorical columns are label-encoded
// against their sorted levels; booleans become 0/1; bucketed columns
// already hold their ordinal bin index.
func (d *Dataset) FeatureMatrix() (X [][]float64, y []int) {
	countries := make([]string, d.Len())
	sources := make([]string, d.Len())
	for i, s := range d.Sessions {
		countries[i] = s.Country
		sources[i] = s.Source
	}
	countryIdx := levelIndex(Levels(countries))
	sourceIdx := levelIndex(Levels(sources))

	X = make([][]float64, d.Len())
	y = make([]int, d.Len())
	for i, s := range d.Sessions {
		newUser := 0.0
		if s.NewUser {
			newUser = 1.0
		}
		X[i] = []float64{
			float64(countryIdx[s.Country]),
			float64(s.Age),
			newUser,
			float64(sourceIdx[s.Source]),
			float64(s.PageViews),
		}
		if s.Converted {
			y[i] = 1
		}
	}
	return X, y
}

func levelIndex(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}

// Partition is a disjoint, stratified split of a Dataset into train
// and validation index sets. Read-only once created.
type Partition struct {
	Train      []int
	Validation []int
}

// Select materializes the sessions behind an index set.
func (d *Dataset) Select(idx []int) []Session {
	out := make([]Session, len(idx))
	for i, j := range idx {
		out[i] = d.Sessions[j]
	}
	return out
}
