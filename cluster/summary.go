package cluster

import (
	"fmt"

	"github.com/poiesic/factmap/core"
)

// Summary describes one cluster for the label artifact.
type Summary struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Count int     `json:"count"`
}

// Summaries reduces an assignment to one Summary per cluster, ordered by the
// first row in which each cluster appears. The centroid is the mean of the
// members' points.
func Summaries(points []core.Point, labels []int, topics map[int]string) ([]Summary, error) {
	if len(points) != len(labels) {
		return nil, fmt.Errorf("%w: %d points, %d labels", ErrLengthMismatch, len(points), len(labels))
	}

	index := make(map[int]int)
	var summaries []Summary
	for i, c := range labels {
		j, ok := index[c]
		if !ok {
			label, found := topics[c]
			if !found {
				label = fmt.Sprintf("Cluster %d", c)
			}
			j = len(summaries)
			index[c] = j
			summaries = append(summaries, Summary{Label: label})
		}
		summaries[j].X += points[i].X
		summaries[j].Y += points[i].Y
		summaries[j].Count++
	}

	for i := range summaries {
		n := float64(summaries[i].Count)
		summaries[i].X /= n
		summaries[i].Y /= n
	}
	return summaries, nil
}
