package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func logFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestSetupWritesStdoutAndFile(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	c := &clock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}

	logger, cleanup, err := Setup(Options{Dir: dir, RetentionDays: 7, Level: "info", Stdout: &stdout, Now: c.Now})
	require.NoError(t, err)
	logger.Info("record created", zap.String("collection", "courses"))
	logger.Debug("hidden")
	cleanup()

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &line))
	assert.Equal(t, "record created", line["msg"])
	assert.Equal(t, "courses", line["collection"])
	assert.Equal(t, "info", line["level"])

	raw, err := os.ReadFile(filepath.Join(dir, "app-2024-03-01.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"record created"`)
	assert.NotContains(t, string(raw), "hidden")
}

func TestSetupStdoutOnly(t *testing.T) {
	var stdout bytes.Buffer
	logger, cleanup, err := Setup(Options{Level: "debug", Stdout: &stdout})
	require.NoError(t, err)
	logger.Debug("visible")
	cleanup()
	assert.Contains(t, stdout.String(), "visible")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, _, err := Setup(Options{Level: "loud"})
	require.Error(t, err)
}

func TestDailyFileRotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"app-2024-02-20.log", "app-2024-02-28.log", "notes.txt", "app-broken.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("old\n"), 0o644))
	}
	c := &clock{now: time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)}

	files, err := NewDailyFile(dir, 3, c.Now)
	require.NoError(t, err)
	defer files.Close()
	assert.Equal(t, []string{"app-2024-02-28.log", "app-2024-03-01.log", "app-broken.log", "notes.txt"}, logFiles(t, dir))

	_, err = files.Write([]byte("first\n"))
	require.NoError(t, err)

	c.now = c.now.Add(2 * time.Minute)
	_, err = files.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, files.Sync())

	assert.Equal(t, []string{"app-2024-03-01.log", "app-2024-03-02.log", "app-broken.log", "notes.txt"}, logFiles(t, dir))
	raw, err := os.ReadFile(filepath.Join(dir, "app-2024-03-02.log"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(raw))
}

func TestDailyFileWriteAfterClose(t *testing.T) {
	c := &clock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	files, err := NewDailyFile(t.TempDir(), 7, c.Now)
	require.NoError(t, err)
	require.NoError(t, files.Close())
	_, err = files.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
