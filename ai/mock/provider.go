package mock

import "github.com/poiesic/factmap/ai"

// MockProvider aggregates a mock embedder and extractor.
type MockProvider struct {
	embedder  *MockEmbedder
	extractor *MockEntityExtractor
}

var _ ai.AIProvider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		extractor: NewMockEntityExtractor(),
	}
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *MockProvider) EntityExtractor() ai.EntityExtractor {
	return p.extractor
}

func (p *MockProvider) Close() error {
	return nil
}

func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

func (p *MockProvider) GetMockExtractor() *MockEntityExtractor {
	return p.extractor
}
