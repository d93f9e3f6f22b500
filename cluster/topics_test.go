package cluster

import (
	"testing"

	"github.com/poiesic/factmap/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name     string
		texts    []string
		expected []string
	}{
		{
			name:     "most frequent first",
			texts:    []string{"Health Ministry said Health", "Ministry of Health and Police"},
			expected: []string{"Health", "Ministry", "Police"},
		},
		{
			name:     "ties keep first-seen order",
			texts:    []string{"Zebra Apple Mango", "Mango Apple Zebra"},
			expected: []string{"Zebra", "Apple", "Mango"},
		},
		{
			name:     "stop words and short words excluded",
			texts:    []string{"The Singapore Is An Ox Said Police"},
			expected: []string{"Singapore", "Police"},
		},
		{
			name:     "only whole capitalized words",
			texts:    []string{"McDonald POFMA iPhone Covid19 Singapore's"},
			expected: []string{"Singapore"},
		},
		{
			name:     "non-ascii letters break nothing",
			texts:    []string{"Café Grand"},
			expected: []string{"Grand"},
		},
		{
			name:     "nothing qualifies",
			texts:    []string{"", "all lowercase here"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.texts, KeywordCount)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Health, Ministry", Label(0, []string{"Health Ministry Health"}))
	assert.Equal(t, "Cluster 4", Label(4, []string{"nothing here"}))
	assert.Equal(t, "Cluster 2", Label(2, nil))
}

func TestTopics(t *testing.T) {
	labels := []int{0, 1, 0}
	texts := []string{"Housing Board", "Election Department", "Housing Grant"}

	topics, err := Topics(labels, texts, 3)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{
		0: "Housing, Board, Grant",
		1: "Election, Department",
		2: "Cluster 2",
	}, topics)

	_, err = Topics(labels, texts[:1], 3)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSummaries(t *testing.T) {
	points := []core.Point{{X: 1, Y: 1}, {X: 10, Y: 10}, {X: 3, Y: 5}}
	labels := []int{2, 0, 2}
	topics := map[int]string{0: "Zero", 2: "Two"}

	summaries, err := Summaries(points, labels, topics)
	require.NoError(t, err)
	assert.Equal(t, []Summary{
		{Label: "Two", X: 2, Y: 3, Count: 2},
		{Label: "Zero", X: 10, Y: 10, Count: 1},
	}, summaries)

	_, err = Summaries(points, labels[:2], topics)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
