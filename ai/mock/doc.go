// Package mock provides test double implementations of AI service interfaces.
//
// The mocks allow tests to run without an embedding server and give
// deterministic results: MockEmbedder derives a unit vector from the FNV
// hash of each text, and MockEntityExtractor returns runs of capitalized
// words as person entities.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("server down")
//	}
//
//	count := embedder.CallCount()
//
// Mocks are safe for concurrent use; call counts are kept atomically.
package mock
