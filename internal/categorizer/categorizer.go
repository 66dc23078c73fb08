package categorizer

import (
	"context"
	"fmt"
	"strings"

	"finledger/internal/logging"
	"finledger/internal/models"
)

// DefaultConfidenceThreshold is the minimum cosine similarity a semantic
// match must exceed before it beats the Unknown sentinel.
const DefaultConfidenceThreshold = 0.25

// Option adjusts a Categorizer's thresholds.
type Option func(*Categorizer)

// WithConfidenceThreshold sets the semantic similarity cutoff.
func WithConfidenceThreshold(t float64) Option {
	return func(c *Categorizer) { c.confidenceThreshold = t }
}

// WithFuzzyThreshold sets the keyword partial-ratio cutoff.
func WithFuzzyThreshold(t float64) Option {
	return func(c *Categorizer) { c.fuzzyThreshold = t }
}

// Categorizer is the two-stage batch categorization orchestrator. Keyword
// matching runs per text; the semantic stage runs once, batched, over
// whatever the keywords could not resolve.
type Categorizer struct {
	registry *Registry
	keywords *KeywordMatcher
	semantic *SemanticMatcher

	confidenceThreshold float64
	fuzzyThreshold      float64

	log logging.Logger
}

// New builds a Categorizer over the registry, embedding the category
// descriptions through the given embedder. An empty registry is a
// configuration error: there is nothing to compare transactions against, so
// no partial categorizer is returned.
func New(ctx context.Context, registry *Registry, embedder Embedder, log logging.Logger, opts ...Option) (*Categorizer, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, fmt.Errorf("categorizer: no categories provided")
	}
	if log == nil {
		log = logging.Default()
	}

	semantic, err := NewSemanticMatcher(ctx, registry, embedder, log)
	if err != nil {
		return nil, fmt.Errorf("building semantic matcher: %w", err)
	}

	c := &Categorizer{
		registry:            registry,
		keywords:            NewKeywordMatcher(registry, log),
		semantic:            semantic,
		confidenceThreshold: DefaultConfidenceThreshold,
		fuzzyThreshold:      DefaultFuzzyThreshold,
		log:                 log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CategorizeBatch assigns one category name per input text, preserving input
// order and length. Texts the keyword stage resolves never reach the model;
// the rest go through one batched embedding call, and anything below the
// confidence threshold resolves to Unknown. Per-batch embedding failures
// degrade to Unknown rather than losing transactions.
func (c *Categorizer) CategorizeBatch(ctx context.Context, texts []string) []string {
	if len(texts) == 0 {
		return []string{}
	}

	results := make([]string, len(texts))
	var remainingIdx []int
	var remaining []string

	for i, text := range texts {
		cleaned := strings.TrimSpace(text)
		if category, ok := c.keywords.Match(cleaned, c.fuzzyThreshold); ok {
			results[i] = category
			continue
		}
		remainingIdx = append(remainingIdx, i)
		remaining = append(remaining, cleaned)
	}

	if len(remaining) == 0 {
		return results
	}

	matches, err := c.semantic.Rank(ctx, remaining)
	if err != nil {
		c.log.WithError(err).WithField(logging.FieldCount, len(remaining)).
			Warn("Semantic ranking failed, assigning Unknown to remaining texts")
		for _, idx := range remainingIdx {
			results[idx] = models.CategoryUnknown
		}
		return results
	}

	for i, idx := range remainingIdx {
		if matches[i].Score > c.confidenceThreshold {
			results[idx] = matches[i].Category
		} else {
			results[idx] = models.CategoryUnknown
		}
	}

	return results
}

// Categorize assigns a category to a single text. Use CategorizeBatch for
// multiple texts.
func (c *Categorizer) Categorize(ctx context.Context, text string) string {
	return c.CategorizeBatch(ctx, []string{text})[0]
}

// CategorizeTransactions assigns a category to every transaction using its
// search text (description, note and amount token) and returns the same
// slice with the Category field populated.
func (c *Categorizer) CategorizeTransactions(ctx context.Context, txs []models.Transaction) []models.Transaction {
	if len(txs) == 0 {
		return txs
	}

	texts := make([]string, len(txs))
	for i, tx := range txs {
		texts[i] = tx.SearchText()
	}

	categories := c.CategorizeBatch(ctx, texts)
	for i := range txs {
		txs[i].Category = categories[i]
	}

	return txs
}
