package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextOnly(t *testing.T) {
	var text bytes.Buffer
	logger := New(&text, nil, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("done", "count", 3)
	assert.NotContains(t, text.String(), "hidden")
	assert.Contains(t, text.String(), "level=INFO msg=done count=3")
}

func TestNewFanout(t *testing.T) {
	var text, file bytes.Buffer
	logger := New(&text, &file, slog.LevelDebug)
	logger.Debug("element", "index", 1)

	assert.Contains(t, text.String(), "level=DEBUG msg=element index=1")
	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "element", record["msg"])
	assert.Equal(t, float64(1), record["index"])
}

func TestOpenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	path := filepath.Join(dir, "jmap.log")

	f, err := OpenFile(path, time.Hour)
	require.NoError(t, err)
	_, err = f.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	old := filepath.Join(dir, "jmap."+time.Now().Add(-48*time.Hour).UTC().Format(LogTimeLayout)+".log")
	require.NoError(t, os.WriteFile(old, nil, 0644))
	other := filepath.Join(dir, "other.log")
	require.NoError(t, os.WriteFile(other, nil, 0644))

	f, err = OpenFile(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Len(t, names, 3)
	assert.Contains(t, names, "jmap.log")
	assert.Contains(t, names, "other.log")
	assert.NotContains(t, names, filepath.Base(old))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
