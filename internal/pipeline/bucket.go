package pipeline

import "go-conversion-analysis/internal/model"

// ApplyBuckets derives a dataset variant with the listed continuous
// columns discretized into ordinal bins. One parameterized transform
// covers every variant; the copy shares no mutable state with the
// source dataset.
func ApplyBuckets(ds *model.Dataset, specs []model.BucketSpec) *model.Dataset {
	out := &model.Dataset{
		SourcePath: ds.SourcePath,
		Sessions:   make([]model.Session, ds.Len()),
	}
	copy(out.Sessions, ds.Sessions)

	for _, spec := range specs {
		binning := &model.Binning{Column: spec.Column, Breakpoints: spec.Breakpoints}
		switch spec.Column {
		case model.ColumnAge:
			for i := range out.Sessions {
				out.Sessions[i].Age = binning.Bin(out.Sessions[i].Age)
			}
			out.AgeBins = binning
		case model.ColumnPageViews:
			for i := range out.Sessions {
				out.Sessions[i].PageViews = binning.Bin(out.Sessions[i].PageViews)
			}
			out.PageViewBins = binning
		}
	}
	return out
}
