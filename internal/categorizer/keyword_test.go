package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finledger/internal/logging"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	expense := map[string]Definition{
		"Food": {
			Description: "Groceries, supermarkets and food stores",
			Keywords:    []string{"RIMI", "MAXIMA", "IKI"},
		},
		"Transport": {
			Description: "Taxi rides, ride hailing and public transport",
			Keywords:    []string{"Bolt", "Uber", "Taxi"},
		},
	}
	return NewRegistry(nil, expense, &logging.MockLogger{})
}

func TestKeywordMatcher_Match(t *testing.T) {
	matcher := NewKeywordMatcher(testRegistry(t), &logging.MockLogger{})

	tests := []struct {
		name         string
		text         string
		threshold    float64
		wantCategory string
		wantOK       bool
	}{
		{
			name:         "keyword embedded in merchant string",
			text:         "RIMI VILNIUS",
			threshold:    DefaultFuzzyThreshold,
			wantCategory: "Food",
			wantOK:       true,
		},
		{
			name:         "keyword inside noisy descriptor",
			text:         "BOLT.EU/O/2353414",
			threshold:    DefaultFuzzyThreshold,
			wantCategory: "Transport",
			wantOK:       true,
		},
		{
			name:         "case insensitive",
			text:         "maxima xx ukmerges",
			threshold:    DefaultFuzzyThreshold,
			wantCategory: "Food",
			wantOK:       true,
		},
		{
			name:         "near miss clears threshold",
			text:         "Taxis",
			threshold:    DefaultFuzzyThreshold,
			wantCategory: "Transport",
			wantOK:       true,
		},
		{
			name:      "unrelated text misses",
			text:      "zzqq wvvw pp",
			threshold: DefaultFuzzyThreshold,
			wantOK:    false,
		},
		{
			name:         "threshold 100 still accepts exact substring",
			text:         "UBER TRIP",
			threshold:    100,
			wantCategory: "Transport",
			wantOK:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, ok := matcher.Match(tt.text, tt.threshold)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}

func TestKeywordMatcher_EmptyUniverse(t *testing.T) {
	expense := map[string]Definition{
		"Misc": {Description: "Everything else"},
	}
	registry := NewRegistry(nil, expense, &logging.MockLogger{})
	matcher := NewKeywordMatcher(registry, &logging.MockLogger{})

	// Categories without keywords give the matcher nothing to scan, even
	// for text that names the category.
	category, ok := matcher.Match("Misc", 0)
	assert.False(t, ok)
	assert.Empty(t, category)
}
