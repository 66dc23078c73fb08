package categorizer

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"finledger/internal/logging"
)

// DefaultFuzzyThreshold is the minimum partial-ratio score (0-100) a keyword
// must reach against the query text to resolve a category.
const DefaultFuzzyThreshold = 90.0

// KeywordMatcher resolves categories through fuzzy keyword lookup. Scoring
// uses partial-ratio semantics: the best edit-similarity of the shorter
// string against any contiguous window of the longer one, on a 0-100 scale.
type KeywordMatcher struct {
	registry *Registry
	log      logging.Logger
}

// NewKeywordMatcher creates a matcher over the registry's keyword index.
func NewKeywordMatcher(registry *Registry, log logging.Logger) *KeywordMatcher {
	return &KeywordMatcher{
		registry: registry,
		log:      log,
	}
}

// Match returns the owning category of the best-scoring keyword if that score
// reaches the threshold. The keyword list is scanned in registration order
// and only a strictly higher score displaces the current best, so the first
// maximum found wins. An empty keyword universe never matches.
func (m *KeywordMatcher) Match(text string, threshold float64) (string, bool) {
	if len(m.registry.keywords) == 0 {
		return "", false
	}

	query := strings.ToLower(text)

	bestScore := -1
	bestKeyword := ""
	for _, kw := range m.registry.keywords {
		score := fuzzy.PartialRatio(query, kw)
		if score > bestScore {
			bestScore = score
			bestKeyword = kw
		}
	}

	if float64(bestScore) < threshold {
		return "", false
	}

	category := m.registry.keywordOwner[bestKeyword]
	m.log.WithFields(
		logging.Field{Key: logging.FieldKeyword, Value: bestKeyword},
		logging.Field{Key: logging.FieldScore, Value: bestScore},
		logging.Field{Key: logging.FieldCategory, Value: category},
	).Debug("Keyword match")

	return category, true
}
