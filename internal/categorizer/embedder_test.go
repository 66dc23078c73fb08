package categorizer

import (
	"context"
	"fmt"
)

// fakeEmbedder is a deterministic Embedder for tests. Texts are looked up in
// a fixed vector table; unlisted texts get the fallback vector. Every batch
// is recorded so tests can assert how often the model was invoked.
type fakeEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	batches  [][]string
	err      error
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.batches = append(f.batches, append([]string{}, texts...))

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if vec, ok := f.vectors[text]; ok {
			out[i] = vec
			continue
		}
		if f.fallback == nil {
			return nil, fmt.Errorf("fake embedder: no vector for %q", text)
		}
		out[i] = f.fallback
	}
	return out, nil
}

func (f *fakeEmbedder) calls() int {
	return len(f.batches)
}
