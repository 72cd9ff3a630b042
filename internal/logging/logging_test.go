package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscard(t *testing.T) {
	logger, closer, err := New("", true)
	require.NoError(t, err)
	logger.Info("nothing happens")
	assert.NoError(t, closer.Close())
}

func TestNewFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "twigcheck.log")

	logger, closer, err := New(file, false)
	require.NoError(t, err)

	logger.Debug("dropped")
	logger.Info("audit complete", "orphans", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"audit complete\"")
	assert.Contains(t, string(data), "orphans=2")
	assert.Contains(t, string(data), "app=twigcheck")
	assert.NotContains(t, string(data), "dropped")
}
