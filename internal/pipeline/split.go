package pipeline

import (
	"math/rand"

	"go-conversion-analysis/internal/model"
)

// StratifiedSplit partitions the dataset into train and validation
// index sets, sampling each target class proportionally so the
// observed class balance is preserved on both sides. Deterministic for
// a given seed and input ordering; every record lands in exactly one
// partition.
func StratifiedSplit(ds *model.Dataset, trainFraction float64, seed int64) model.Partition {
	var pos, neg []int
	for i, s := range ds.Sessions {
		if s.Converted {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}

	rnd := rand.New(rand.NewSource(seed))
	var part model.Partition
	for _, class := range [][]int{neg, pos} {
		shuffled := make([]int, len(class))
		copy(shuffled, class)
		rnd.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		nTrain := int(trainFraction * float64(len(shuffled)))
		part.Train = append(part.Train, shuffled[:nTrain]...)
		part.Validation = append(part.Validation, shuffled[nTrain:]...)
	}
	return part
}

// KFold yields k folds of validation indices over n samples, shuffled
// by the seed. Folds partition [0, n) and their sizes differ by at
// most one.
func KFold(n, k int, seed int64) [][]int {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	for i, idx := range perm {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds
}
