package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	InitLogger(logging.WARNING, dir)
	t.Cleanup(CloseLogger)

	Debugf("user %s registered", "alice")
	Warning("login failed")

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG - user alice registered")
	assert.Contains(t, string(data), "WARNING - login failed")
}

func TestInitLoggerWithoutFile(t *testing.T) {
	InitLogger(logging.INFO, "")
	assert.Nil(t, logFile)
	assert.NotPanics(t, func() { Info("console only") })
}
