package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.log")

	log := New("debug", DefaultFileConfig(path))
	log.Debug("debug message")
	log.Info("info message")
	// Syncing stderr can fail, only the file sink matters here.
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)
	assert.Contains(t, content, "DEBUG")
	assert.Contains(t, content, "info message")
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conv.log")

	log := New("warn", DefaultFileConfig(path))
	log.Info("quiet")
	log.Warn("loud")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(b), "quiet"))
	assert.Contains(t, string(b), "loud")
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/conv.log")
	assert.Equal(t, "/tmp/conv.log", cfg.Path)
	assert.Equal(t, 50, cfg.MaxSizeMB)
	assert.True(t, cfg.Compress)
}
