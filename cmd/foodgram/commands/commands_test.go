package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "import-ingredients", "create-tag"} {
		assert.True(t, names[want], want)
	}
}

func TestCreateTagRejectsBadColor(t *testing.T) {
	rootCmd.SetArgs([]string{"create-tag", "--name", "Lunch", "--slug", "lunch", "--color", "red"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#RRGGBB")
}

func TestImportIngredientsMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"import-ingredients", "--file", t.TempDir() + "/missing.csv"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
