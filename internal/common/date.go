package common

import (
	"fmt"
	"strings"
	"time"
)

// statementDateLayouts covers the date formats seen across the supported
// bank exports.
var statementDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006.01.02",
	"02.01.2006",
	"02/01/2006",
}

// NormalizeDate parses a statement date in any supported layout and returns
// it as YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format: %q", raw)
}
