package pipeline

import "go-conversion-analysis/internal/model"

// Clean drops rows with implausible ages (>= maxAge). The threshold is
// a hand-chosen cutoff for sentinel values observed upstream (111,
// 123); it makes no attempt to distinguish true outliers from
// data-entry errors, which stays a documented caveat. Returns the
// cleaned dataset and the number of rows dropped.
func Clean(ds *model.Dataset, maxAge int) (*model.Dataset, int) {
	out := &model.Dataset{
		SourcePath:   ds.SourcePath,
		AgeBins:      ds.AgeBins,
		PageViewBins: ds.PageViewBins,
	}
	dropped := 0
	for _, s := range ds.Sessions {
		if s.Age >= maxAge {
			dropped++
			continue
		}
		out.Sessions = append(out.Sessions, s)
	}
	return out, dropped
}
