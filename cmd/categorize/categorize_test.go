package categorize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectTexts_ArgsOnly(t *testing.T) {
	inputFile = ""

	texts, err := collectTexts([]string{"RIMI VILNIUS", "Bolt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"RIMI VILNIUS", "Bolt"}, texts)
}

func TestCollectTexts_InputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descriptions.txt")
	require.NoError(t, os.WriteFile(path, []byte("RIMI VILNIUS\n\nBolt\n"), 0o600))

	inputFile = path
	t.Cleanup(func() { inputFile = "" })

	texts, err := collectTexts([]string{"Wolt"})
	require.NoError(t, err)
	// Arguments come first, then file lines with blanks dropped.
	assert.Equal(t, []string{"Wolt", "RIMI VILNIUS", "Bolt"}, texts)
}

func TestCollectTexts_MissingFile(t *testing.T) {
	inputFile = filepath.Join(t.TempDir(), "absent.txt")
	t.Cleanup(func() { inputFile = "" })

	_, err := collectTexts(nil)
	assert.Error(t, err)
}

func TestCategorizeCommand(t *testing.T) {
	assert.Equal(t, "categorize [description ...]", Cmd.Use)
	assert.NotNil(t, Cmd.Flags().Lookup("input"))
	assert.NotNil(t, Cmd.Flags().Lookup("categories"))
}
