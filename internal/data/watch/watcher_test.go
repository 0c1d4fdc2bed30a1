package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmowery/weightline/internal/core/model"
)

func waitForEvent(t *testing.T, w *Watcher, wantBase string) model.FileEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if filepath.Base(ev.Path) == wantBase {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", wantBase)
		}
	}
}

func TestWatcherReportsMeasurementWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "scale.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	ev := waitForEvent(t, w, "scale.jsonl")
	assert.Equal(t, path, ev.Path)
	assert.NotEmpty(t, ev.Operation)
}

func TestWatcherReportsProfileChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.json"), []byte("{}"), 0644))
	waitForEvent(t, w, "profile.json")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scale.jsonl"), []byte("{}\n"), 0644))

	// The .jsonl write must arrive; the .txt write must not.
	ev := waitForEvent(t, w, "scale.jsonl")
	assert.Equal(t, filepath.Join(dir, "scale.jsonl"), ev.Path)

	select {
	case extra := <-w.Events():
		assert.NotEqual(t, "notes.txt", filepath.Base(extra.Path))
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
