package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestTracker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.jsonl")
	write(t, path, `{"id":"a"}`)

	tracker := NewTracker()
	tracker.Seed([]string{path})
	assert.False(t, tracker.Changed(path), "seeded content is known")

	write(t, path, `{"id":"a"}`)
	assert.False(t, tracker.Changed(path), "rewrite with same content")

	write(t, path, `{"id":"b"}`)
	assert.True(t, tracker.Changed(path))
	assert.False(t, tracker.Changed(path))

	require.NoError(t, os.Remove(path))
	assert.True(t, tracker.Changed(path), "removal is a change")
	assert.False(t, tracker.Changed(path), "reported once")

	assert.False(t, tracker.Changed(filepath.Join(dir, "never-existed.json")))
}

func TestLoopDebouncesAndDedupes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.jsonl")
	write(t, path, "one")

	tracker := NewTracker()
	tracker.Seed([]string{path})

	events := make(chan Event)
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Loop(ctx, events, tracker, 20*time.Millisecond, func() error {
			calls.Add(1)
			return nil
		})
	}()

	events <- Event{Path: path, Operation: "WRITE"}
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "unchanged content does not refresh")

	write(t, path, "two")
	events <- Event{Path: path, Operation: "WRITE"}
	write(t, path, "three")
	events <- Event{Path: path, Operation: "WRITE"}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "burst collapses into one refresh")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopStopsWhenEventsClose(t *testing.T) {
	events := make(chan Event)
	close(events)
	err := Loop(context.Background(), events, NewTracker(), 0, func() error { return nil })
	assert.NoError(t, err)
}

func TestFileWatcherReportsItemFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)
	defer fw.Close()

	write(t, filepath.Join(dir, "notes.txt"), "ignored")
	target := filepath.Join(dir, "items.jsonl")
	write(t, target, `{"id":"a"}`)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-fw.Events():
			assert.NotEqual(t, filepath.Join(dir, "notes.txt"), ev.Path)
			if ev.Path == target {
				return
			}
		case <-deadline:
			t.Fatal("no event for item file")
		}
	}
}

func TestFileWatcherSingleFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "faces.data")
	write(t, target, "v1")
	write(t, filepath.Join(dir, "other.jsonl"), "x")

	fw, err := NewFileWatcher(target)
	require.NoError(t, err)
	defer fw.Close()

	write(t, filepath.Join(dir, "other.jsonl"), "y")
	write(t, target, "v2")

	select {
	case ev := <-fw.Events():
		assert.Equal(t, target, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for watched file")
	}
}

func TestNewFileWatcherMissingRoot(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
