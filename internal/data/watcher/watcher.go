// Package watcher reports changes to item files under an input path.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-chronoface/internal/data/scanner"
	"github.com/penwyp/go-chronoface/internal/util"
)

const DefaultDebounce = 500 * time.Millisecond

type Event struct {
	Path      string
	Operation string
}

// FileWatcher watches a directory tree, or a single file through its parent
// directory, and emits events for item files only.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	file    string // set when root is a single file
	events  chan Event
}

func NewFileWatcher(root string) (*FileWatcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		root:    root,
		events:  make(chan Event, 100),
	}

	if info.IsDir() {
		err = fw.addTree(root)
	} else {
		fw.file = filepath.Clean(root)
		err = watcher.Add(filepath.Dir(root))
	}
	if err != nil {
		watcher.Close()
		return nil, err
	}

	go fw.processEvents()

	return fw, nil
}

// addTree recursively adds directories, skipping hidden ones.
func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		util.LogDebugf("Watching %s", p)
		return fw.watcher.Add(p)
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogErrorf("File watch error: %v", err)
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	if fw.file != "" {
		if filepath.Clean(event.Name) != fw.file {
			return
		}
	} else if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.addTree(event.Name); err != nil {
				util.LogWarnf("Failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if fw.file == "" && !scanner.IsItemFile(event.Name) {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}
	fw.events <- Event{
		Path:      event.Name,
		Operation: event.Op.String(),
	}
}

// Events is closed after Close.
func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

// Tracker remembers file fingerprints so rewrites with identical content
// are not reported as changes.
type Tracker struct {
	mu           sync.Mutex
	fingerprints map[string]string
}

func NewTracker() *Tracker {
	return &Tracker{fingerprints: make(map[string]string)}
}

// Seed records the current fingerprint of each path.
func (t *Tracker) Seed(paths []string) {
	for _, p := range paths {
		t.Changed(p)
	}
}

// Changed reports whether path differs from its last recorded content. A
// file that disappears counts as changed once.
func (t *Tracker) Changed(path string) bool {
	fp, err := util.CalculateFileFingerprint(path)

	t.mu.Lock()
	defer t.mu.Unlock()

	prev, known := t.fingerprints[path]
	if err != nil {
		if known {
			delete(t.fingerprints, path)
			return true
		}
		util.LogDebugf("Skip unreadable file %s: %v", path, err)
		return false
	}
	t.fingerprints[path] = fp
	return !known || prev != fp
}

// Loop calls onChange after events settle for debounce, until ctx is done
// or the event channel closes. Errors from onChange are logged and do not
// stop the loop.
func Loop(ctx context.Context, events <-chan Event, tracker *Tracker, debounce time.Duration, onChange func() error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !tracker.Changed(ev.Path) {
				util.LogDebugf("Ignoring %s on %s: content unchanged", ev.Operation, ev.Path)
				continue
			}
			util.LogDebugf("Detected %s on %s", ev.Operation, ev.Path)
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			pending = false
			if err := onChange(); err != nil {
				util.LogErrorf("Refresh failed: %v", err)
			}
		}
	}
}
