package revolutparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finledger/internal/logging"
)

func writeStatement(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revolut.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParser_ParseFile(t *testing.T) {
	content := `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2024-03-15 10:00:00,2024-03-15 10:00:05,Bolt,-6.90,0.00,EUR,COMPLETED,93.10
CARD_PAYMENT,Current,2024-03-16 18:20:00,,Wolt,-15.40,0.00,EUR,PENDING,93.10
TRANSFER,Current,2024-03-17 09:00:00,2024-03-17 09:00:02,From Alice,25.00,0.00,EUR,REVERTED,118.10
TOPUP,Current,2024-03-18 08:00:00,2024-03-18 08:00:01,Top-Up,100.00,0.00,EUR,COMPLETED,193.10
`
	p := New(&logging.MockLogger{})

	txs, err := p.ParseFile(writeStatement(t, content))
	require.NoError(t, err)
	require.Len(t, txs, 2, "only settled COMPLETED rows are kept")

	assert.Equal(t, "2024-03-15", txs[0].Date)
	assert.Equal(t, "-6.9", txs[0].Amount.String())
	assert.Equal(t, "Bolt", txs[0].Description)
	assert.Equal(t, "EUR", txs[0].Note)
	assert.NotEmpty(t, txs[0].HashID)

	assert.Equal(t, "2024-03-18", txs[1].Date)
	assert.Equal(t, "100", txs[1].Amount.String())
	assert.Equal(t, "Top-Up", txs[1].Description)
}

func TestParser_ParseFile_SkipsBadRows(t *testing.T) {
	content := `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2024-03-15 10:00:00,2024-03-15 10:00:05,Good,-1.00,0.00,EUR,COMPLETED,99.00
CARD_PAYMENT,Current,2024-03-16 10:00:00,2024-03-16 10:00:05,Bad Amount,oops,0.00,EUR,COMPLETED,99.00
`
	log := &logging.MockLogger{}
	p := New(log)

	txs, err := p.ParseFile(writeStatement(t, content))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Good", txs[0].Description)
	assert.True(t, log.HasEntry("WARN", "Failed to convert Revolut row"))
}

func TestParser_ParseFile_Missing(t *testing.T) {
	p := New(&logging.MockLogger{})

	_, err := p.ParseFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
