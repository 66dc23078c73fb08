package categorizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"finledger/internal/logging"
)

func TestNewGeminiEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiEmbedder(context.Background(), "", "text-embedding-004", &logging.MockLogger{})
	assert.ErrorContains(t, err, "API key")
}
