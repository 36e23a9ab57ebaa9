package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-conversion-analysis/internal/model"
)

// syntheticDataset builds n sessions with the requested number of
// converted rows, cycling through realistic categorical levels.
func syntheticDataset(n, positives int) *model.Dataset {
	countries := []string{"US", "UK", "China", "Germany"}
	sources := []string{"Ads", "Seo", "Direct"}
	ds := &model.Dataset{}
	for i := 0; i < n; i++ {
		converted := i < positives
		views := 1 + i%4
		if converted {
			views = 6 + i%5
		}
		ds.Sessions = append(ds.Sessions, model.Session{
			Country:   countries[i%len(countries)],
			Age:       17 + i%45,
			NewUser:   i%3 != 0,
			Source:    sources[i%len(sources)],
			PageViews: views,
			Converted: converted,
		})
	}
	return ds
}

func TestStratifiedSplitIsStrictPartition(t *testing.T) {
	ds := syntheticDataset(200, 60)
	part := StratifiedSplit(ds, 0.8, 42)

	seen := make(map[int]int)
	for _, i := range part.Train {
		seen[i]++
	}
	for _, i := range part.Validation {
		seen[i]++
	}
	require.Len(t, seen, 200)
	for i, count := range seen {
		assert.Equal(t, 1, count, "index %d assigned more than once", i)
	}
}

func TestStratifiedSplitPreservesClassBalance(t *testing.T) {
	ds := syntheticDataset(500, 150)
	part := StratifiedSplit(ds, 0.8, 42)

	overall := float64(ds.Positives()) / float64(ds.Len())
	for _, side := range [][]int{part.Train, part.Validation} {
		pos := 0
		for _, s := range ds.Select(side) {
			if s.Converted {
				pos++
			}
		}
		share := float64(pos) / float64(len(side))
		assert.Less(t, math.Abs(share-overall), 0.01)
	}
}

func TestStratifiedSplitDeterministicForSeed(t *testing.T) {
	ds := syntheticDataset(100, 20)
	a := StratifiedSplit(ds, 0.8, 7)
	b := StratifiedSplit(ds, 0.8, 7)
	assert.Equal(t, a, b)

	c := StratifiedSplit(ds, 0.8, 8)
	assert.NotEqual(t, a.Train, c.Train)
}

func TestStratifiedSplitRareClassCounts(t *testing.T) {
	// 3% positives in 1000 rows: 24 positive train rows and 6 positive
	// validation rows under a floor-based 80/20 split.
	ds := syntheticDataset(1000, 30)
	part := StratifiedSplit(ds, 0.8, 42)

	trainPos, valPos := 0, 0
	for _, s := range ds.Select(part.Train) {
		if s.Converted {
			trainPos++
		}
	}
	for _, s := range ds.Select(part.Validation) {
		if s.Converted {
			valPos++
		}
	}
	assert.Equal(t, 24, trainPos)
	assert.Equal(t, 6, valPos)
}

func TestKFoldPartitionsIndices(t *testing.T) {
	folds := KFold(23, 5, 42)
	require.Len(t, folds, 5)

	seen := make(map[int]bool)
	for _, fold := range folds {
		assert.InDelta(t, 23.0/5, float64(len(fold)), 1)
		for _, i := range fold {
			assert.False(t, seen[i], "index %d in two folds", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, 23)
}

func TestKFoldDeterministicForSeed(t *testing.T) {
	assert.Equal(t, KFold(50, 5, 9), KFold(50, 5, 9))
}
