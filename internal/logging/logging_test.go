package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "q.log")
	logger, closer, err := New(Options{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.WithField("test_id", "7").Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "7", entry["test_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_Level(t *testing.T) {
	logger, closer, err := New(Options{File: Stderr, Level: "warn"})
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	_, _, err = New(Options{File: Stderr, Level: "loud"})
	require.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "quizdesk", "quizdesk.log"), p)
}
