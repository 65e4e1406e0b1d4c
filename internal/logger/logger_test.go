package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "json", "debug")
	require.NoError(t, err)

	l.WithRun("r1").WithWorker(3).LogFile(context.Background(), 7, "a.log", 12, false, nil)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "file scanned", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "r1", rec["run_id"])
	assert.EqualValues(t, 3, rec["worker"])
	assert.EqualValues(t, 7, rec["index"])
	assert.EqualValues(t, 12, rec["lines"])

	_, err = New(&buf, "xml", "info")
	assert.Error(t, err)
	_, err = New(&buf, "text", "loud")
	assert.Error(t, err)
}

func TestLogFile_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelInfo)
	ctx := context.Background()

	l.LogFile(ctx, 0, "quiet.log", 1, false, nil)
	assert.Empty(t, buf.String())

	l.LogFile(ctx, 1, "loud.log", 2, true, nil)
	assert.Contains(t, buf.String(), "path=loud.log")

	buf.Reset()
	l.LogFile(ctx, 2, "bad.log", 0, false, errors.New("boom"))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
	l, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}

func TestNoopLogger(t *testing.T) {
	NoopLogger().LogRunDone(context.Background(), 1, 1, 0, 1, 0, nil)
}
