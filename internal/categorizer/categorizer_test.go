package categorizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finledger/internal/logging"
	"finledger/internal/models"
)

func newTestCategorizer(t *testing.T, embedder Embedder, opts ...Option) *Categorizer {
	t.Helper()
	cat, err := New(context.Background(), testRegistry(t), embedder, &logging.MockLogger{}, opts...)
	require.NoError(t, err)
	return cat
}

func pipelineEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors: map[string][]float32{
			foodDescription:      {1, 0, 0},
			transportDescription: {0, 1, 0},
			"lidl plus purchase": {0.9, 0.1, 0},
			"scooter rental":     {0.1, 0.9, 0},
			"opaque wire xfer":   {0, 0, 1},
		},
	}
}

func TestCategorizer_CategorizeBatch(t *testing.T) {
	embedder := pipelineEmbedder()
	cat := newTestCategorizer(t, embedder)

	got := cat.CategorizeBatch(context.Background(), []string{
		"RIMI VILNIUS",       // keyword
		"lidl plus purchase", // semantic
		"BOLT.EU/O/2353414",  // keyword
		"scooter rental",     // semantic
		"opaque wire xfer",   // below confidence
	})

	assert.Equal(t, []string{"Food", "Food", "Transport", "Transport", models.CategoryUnknown}, got)

	// Construction plus exactly one batched call for the three texts the
	// keywords could not resolve.
	require.Equal(t, 2, embedder.calls())
	assert.Equal(t, []string{"lidl plus purchase", "scooter rental", "opaque wire xfer"}, embedder.batches[1])
}

func TestCategorizer_KeywordResolvedTextsSkipModel(t *testing.T) {
	embedder := pipelineEmbedder()
	cat := newTestCategorizer(t, embedder)

	got := cat.CategorizeBatch(context.Background(), []string{
		"RIMI VILNIUS",
		"  MAXIMA XX  ",
		"Uber trip",
	})

	assert.Equal(t, []string{"Food", "Food", "Transport"}, got)
	// Only the construction-time description batch.
	assert.Equal(t, 1, embedder.calls())
}

func TestCategorizer_EmptyBatch(t *testing.T) {
	cat := newTestCategorizer(t, pipelineEmbedder())

	got := cat.CategorizeBatch(context.Background(), []string{})
	assert.Equal(t, []string{}, got)

	got = cat.CategorizeBatch(context.Background(), nil)
	assert.Equal(t, []string{}, got)
}

func TestCategorizer_ConfidenceThresholdIsStrict(t *testing.T) {
	embedder := pipelineEmbedder()
	// Every semantic score is at most ~0.994, so a threshold of 1 sends
	// everything unresolved by keywords to Unknown.
	cat := newTestCategorizer(t, embedder, WithConfidenceThreshold(1))

	got := cat.CategorizeBatch(context.Background(), []string{
		"lidl plus purchase",
		"RIMI VILNIUS",
	})

	assert.Equal(t, []string{models.CategoryUnknown, "Food"}, got)
}

func TestCategorizer_EmbeddingFailureDegradesToUnknown(t *testing.T) {
	embedder := pipelineEmbedder()
	log := &logging.MockLogger{}
	cat, err := New(context.Background(), testRegistry(t), embedder, log)
	require.NoError(t, err)

	embedder.err = errors.New("backend unavailable")

	got := cat.CategorizeBatch(context.Background(), []string{
		"RIMI VILNIUS",
		"lidl plus purchase",
		"scooter rental",
	})

	// Keyword results survive; only the semantic remainder degrades.
	assert.Equal(t, []string{"Food", models.CategoryUnknown, models.CategoryUnknown}, got)
	assert.True(t, log.HasEntry("WARN", "Semantic ranking failed, assigning Unknown to remaining texts"))
}

func TestCategorizer_Idempotent(t *testing.T) {
	cat := newTestCategorizer(t, pipelineEmbedder())

	texts := []string{"RIMI VILNIUS", "lidl plus purchase", "opaque wire xfer"}
	first := cat.CategorizeBatch(context.Background(), texts)
	second := cat.CategorizeBatch(context.Background(), texts)

	assert.Equal(t, first, second)
}

func TestCategorizer_Categorize(t *testing.T) {
	cat := newTestCategorizer(t, pipelineEmbedder())

	assert.Equal(t, "Food", cat.Categorize(context.Background(), "RIMI VILNIUS"))
	assert.Equal(t, "Transport", cat.Categorize(context.Background(), "scooter rental"))
}

func TestCategorizer_CategorizeTransactions(t *testing.T) {
	embedder := pipelineEmbedder()
	embedder.fallback = []float32{0, 0, 1}
	cat := newTestCategorizer(t, embedder)

	txs := []models.Transaction{
		{Description: "RIMI VILNIUS", Note: "groceries"},
		{Description: "mystery merchant"},
	}

	got := cat.CategorizeTransactions(context.Background(), txs)

	require.Len(t, got, 2)
	assert.Equal(t, "Food", got[0].Category)
	assert.Equal(t, models.CategoryUnknown, got[1].Category)
	// The input slice is annotated in place.
	assert.Equal(t, "Food", txs[0].Category)
}

func TestNew_EmptyRegistry(t *testing.T) {
	_, err := New(context.Background(), NewRegistry(nil, nil, &logging.MockLogger{}), pipelineEmbedder(), &logging.MockLogger{})
	assert.ErrorContains(t, err, "no categories")

	_, err = New(context.Background(), nil, pipelineEmbedder(), &logging.MockLogger{})
	assert.Error(t, err)
}
