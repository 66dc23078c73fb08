package categorizer

import (
	"context"
	"fmt"
	"math"

	"finledger/internal/logging"
)

// Match is the best category for one input text plus its cosine similarity.
type Match struct {
	Category string
	Score    float64
}

// SemanticMatcher ranks categories for free text by cosine similarity between
// text embeddings and category description embeddings. The description
// matrix is computed once at construction and kept resident for the
// matcher's lifetime.
type SemanticMatcher struct {
	registry *Registry
	embedder Embedder
	vectors  [][]float32
	log      logging.Logger
}

// NewSemanticMatcher embeds every category description in one batched call
// and returns a matcher over the resulting matrix.
func NewSemanticMatcher(ctx context.Context, registry *Registry, embedder Embedder, log logging.Logger) (*SemanticMatcher, error) {
	vectors, err := embedder.EmbedBatch(ctx, registry.Descriptions())
	if err != nil {
		return nil, fmt.Errorf("embedding category descriptions: %w", err)
	}
	if len(vectors) != registry.Len() {
		return nil, fmt.Errorf("category embedding mismatch: %d categories, %d vectors",
			registry.Len(), len(vectors))
	}

	log.WithField(logging.FieldCount, len(vectors)).Info("Category embeddings initialized")

	return &SemanticMatcher{
		registry: registry,
		embedder: embedder,
		vectors:  vectors,
		log:      log,
	}, nil
}

// Rank embeds the input batch in one call and returns, for each text, the
// category with maximal cosine similarity and that similarity. Exact ties
// resolve to the lowest category index so results are reproducible.
func (s *SemanticMatcher) Rank(ctx context.Context, texts []string) ([]Match, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding query batch: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("query embedding mismatch: %d texts, %d vectors",
			len(texts), len(embeddings))
	}

	names := s.registry.Names()
	matches := make([]Match, len(texts))
	for i, emb := range embeddings {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for j, catVec := range s.vectors {
			score := cosineSimilarity(emb, catVec)
			if score > bestScore {
				bestScore = score
				bestIdx = j
			}
		}
		matches[i] = Match{Category: names[bestIdx], Score: bestScore}
	}

	return matches, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors in
// [-1, 1]. Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
