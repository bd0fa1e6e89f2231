package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewJSONCarriesAppField(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := New(Options{Level: "warn", JSON: true, App: "hotel-api", Out: &buf})

	l.Info("dropped")
	l.Warn("kept", zap.String("booking_id", "b1"))
	cleanup()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "hotel-api", entry["app"])
	assert.Equal(t, "b1", entry["booking_id"])
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, cleanup := New(Options{Level: "info", Out: &buf, Rotate: FileRotate{Filename: path, MaxSizeMB: 1}})
	l.Info("to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
	assert.Contains(t, buf.String(), "to file")
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := New(Options{Level: "debug", JSON: true, Out: &buf})
	defer cleanup()

	w := ToWriter(l, zapcore.ErrorLevel)
	n, err := w.Write([]byte("[GIN-debug] boom\n"))
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `[GIN-debug] boom"`)
}
