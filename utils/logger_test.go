package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amirphl/card-transactions-generator/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "generator.log")
	logger, closer, err := NewLogger(config.LoggingConfig{Output: "file", FilePath: path, MaxSize: 1}, "[txgen] ")
	require.NoError(t, err)

	logger.Printf("job %d started", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[txgen] ")
	assert.Contains(t, string(data), "job 3 started")
}

func TestNewLoggerStdout(t *testing.T) {
	logger, closer, err := NewLogger(config.LoggingConfig{Output: "stdout"}, "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
