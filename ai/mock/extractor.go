package mock

import (
	"context"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/poiesic/factmap/ai"
)

// MockEntityExtractor is a test double for ai.EntityExtractor.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set.
	// If nil, runs of capitalized words become person entities.
	ExtractEntitiesFunc func(ctx context.Context, text string) ([]ai.ExtractedEntity, error)

	callCount atomic.Int64
}

var _ ai.EntityExtractor = (*MockEntityExtractor)(nil)

func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]ai.ExtractedEntity, error) {
	m.callCount.Add(1)

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, text)
	}

	// Default: consecutive capitalized words form one name, at most three names.
	entities := []ai.ExtractedEntity{}
	importance := 10
	var run []string
	flush := func() {
		if len(run) > 1 && len(entities) < 3 {
			entities = append(entities, ai.ExtractedEntity{
				Name:       strings.Join(run, " "),
				Type:       "person",
				Importance: importance,
			})
			importance--
		}
		run = run[:0]
	}

	for _, field := range strings.Fields(text) {
		word := strings.Trim(field, ".,!?;:\"'()[]{}")
		if word == "" || !unicode.IsUpper([]rune(word)[0]) {
			flush()
			continue
		}
		run = append(run, word)
		if strings.ContainsAny(field[len(field)-1:], ".,!?;:") {
			flush()
		}
	}
	flush()

	return entities, nil
}

// CallCount returns the number of ExtractEntities calls made.
func (m *MockEntityExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the counter and any injected behavior.
func (m *MockEntityExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractEntitiesFunc = nil
}
