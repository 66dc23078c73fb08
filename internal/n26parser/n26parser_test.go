package n26parser

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
	path := filepath.Join(t.TempDir(), "n26.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParser_ParseFile(t *testing.T) {
	content := `"Booking Date","Value Date","Partner Name","Partner Iban",Type,"Payment Reference","Account Name","Amount (EUR)","Original Amount","Original Currency","Exchange Rate"
"2024-03-15","2024-03-15","RIMI VILNIUS","","Presentment","groceries","Main Account","-12.50","","",""
"2024-03-16","2024-03-16","ACME GmbH","DE00000000000000000000","Credit Transfer","salary march","Main Account","1,500.00","","",""
"2024-03-17","","PENDING SHOP","","Presentment","","Main Account","-5.00","","",""
`
	p := New(&logging.MockLogger{})

	txs, err := p.ParseFile(writeStatement(t, content))
	require.NoError(t, err)
	require.Len(t, txs, 2, "rows without a value date are not settled yet")

	assert.Equal(t, "2024-03-15", txs[0].Date)
	assert.Equal(t, "-12.5", txs[0].Amount.String())
	assert.Equal(t, "RIMI VILNIUS", txs[0].Description)
	assert.Equal(t, "groceries", txs[0].Note)
	assert.NotEmpty(t, txs[0].HashID)

	// Thousand separators are stripped before parsing.
	assert.Equal(t, "1500", txs[1].Amount.String())
	assert.Equal(t, "ACME GmbH", txs[1].Description)
}

func TestParser_ParseFile_SkipsBadRows(t *testing.T) {
	content := `"Booking Date","Value Date","Partner Name","Partner Iban",Type,"Payment Reference","Account Name","Amount (EUR)","Original Amount","Original Currency","Exchange Rate"
"2024-03-15","2024-03-15","GOOD SHOP","","Presentment","","Main Account","-1.00","","",""
"2024-03-16","2024-03-16","BAD AMOUNT","","Presentment","","Main Account","abc","","",""
`
	log := &logging.MockLogger{}
	p := New(log)

	txs, err := p.ParseFile(writeStatement(t, content))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "GOOD SHOP", txs[0].Description)
	assert.True(t, log.HasEntry("WARN", "Failed to convert N26 row"))
}

func TestParser_ParseFile_Missing(t *testing.T) {
	p := New(&logging.MockLogger{})

	_, err := p.ParseFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
