package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logging.ParseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, logging.ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("nonsense"))
}

func TestWithAction_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logging.WithContext(context.Background(), logger)
	ctx = logging.WithAction(ctx, "default", "summarize")
	ctx = logging.WithRequestID(ctx, "req-1")

	logging.FromContext(ctx).Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"menu_id":"default"`)
	assert.Contains(t, out, `"action_id":"summarize"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
}

func TestTimeline_MarksInOrder(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	tl := logging.NewTimeline("shortcuts", nil, clock)
	now = now.Add(5 * time.Millisecond)
	tl.Mark("loaded")
	now = now.Add(20 * time.Millisecond)
	m := tl.Mark("ready")

	assert.Equal(t, 25*time.Millisecond, m.Elapsed)
	assert.Equal(t, 20*time.Millisecond, m.Delta)
	assert.True(t, tl.Has("loaded"))
	assert.False(t, tl.Has("attached"))
	assert.Equal(t, "loaded:5,ready:25", tl.Summary())
}

func TestTimeline_NilIsNoop(t *testing.T) {
	var tl *logging.Timeline
	tl.Mark("x")
	assert.Empty(t, tl.Milestones())
}

func TestRotatingFile_RotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	r, err := logging.NewRotatingFile(logging.RotateOptions{Dir: dir, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	chunk := bytes.Repeat([]byte("x"), 700*1024)
	for i := 0; i < 4; i++ {
		_, err := r.Write(chunk)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if e.Name() != "promptcast.log" {
			backups++
		}
	}
	assert.Equal(t, 1, backups)
	assert.FileExists(t, filepath.Join(dir, "promptcast.log"))
}
