package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "build.log")
	logger, err := NewBuildLogger(LogOptions{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	logger.With("build", "b-1").LogInfo("Emitted %s", "sitemap.xml")
	logger.LogDebug("details")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"build":"b-1"`)
	assert.Contains(t, string(data), `"message":"Emitted sitemap.xml"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestBuildLogger_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.log")
	logger, err := NewBuildLogger(LogOptions{Level: "error", Format: "json", File: path})
	require.NoError(t, err)

	logger.LogInfo("hidden")
	logger.LogError("shown")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.LogError("ignored")
	assert.NoError(t, logger.Close())
}
