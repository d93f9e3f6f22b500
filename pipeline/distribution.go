package pipeline

import (
	"cmp"
	"slices"

	"github.com/poiesic/factmap/core"
)

// TargetCount is the number of rows sharing one target value.
type TargetCount struct {
	Target string
	Count  int
}

// TargetDistribution returns the n most frequent target values, most
// frequent first. Ties keep the order of first appearance.
func TargetDistribution(t *core.Table, n int) []TargetCount {
	values, ok := t.Column(core.ColTarget)
	if !ok {
		return nil
	}

	index := make(map[string]int)
	var counts []TargetCount
	for _, v := range values {
		if i, seen := index[v]; seen {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, TargetCount{Target: v, Count: 1})
	}

	slices.SortStableFunc(counts, func(a, b TargetCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
