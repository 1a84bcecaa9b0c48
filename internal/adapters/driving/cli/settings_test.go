package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsShowCmd_PrintsSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[Retrieval]")
	assert.Contains(t, buf.String(), "[Chunking]")
	assert.Contains(t, buf.String(), "8000")
	assert.Contains(t, buf.String(), "1000")
}

func TestSettingsSetCmd_UpdatesOnlyGivenFlags(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := settingsService.(*mockSettingsService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "--max-chars", "4000", "--chunk-size", "500"})
	defer func() {
		rootCmd.SetArgs(nil)
		setMaxChars = 0
		setChunkSize = 0
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	require.NotNil(t, mock.saved)
	assert.Equal(t, 4000, mock.saved.Retrieval.Budget.MaxTotalChars)
	assert.Equal(t, 500, mock.saved.Chunking.ChunkSize)
	// Untouched values keep defaults
	assert.Equal(t, 4, mock.saved.Retrieval.Budget.MaxDocsPerQuery)
	assert.Equal(t, 200, mock.saved.Chunking.Overlap)
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
