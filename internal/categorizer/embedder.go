package categorizer

import "context"

// Embedder converts batches of text into fixed-length dense vectors. It is an
// explicitly constructed, explicitly owned dependency so tests can substitute
// a deterministic implementation for the hosted model.
type Embedder interface {
	// EmbedBatch embeds all texts in one model invocation and returns one
	// vector per input, in input order. Batching is the point: model
	// invocation dominates the cost of categorization.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
