package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestWithFieldsCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "info", "json")
	ctx := WithRunID(context.Background(), "r-1")
	assert.Equal(t, "r-1", RunID(ctx))

	WithFields(ctx, base, "op", "split").Info("done", "rows", 3)
	WithFields(ctx, base).Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "r-1", rec["run_id"])
	assert.Equal(t, "split", rec["op"])
	assert.Equal(t, float64(3), rec["rows"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "text").Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello k=v")
}
