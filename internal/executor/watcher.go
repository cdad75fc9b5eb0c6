package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toolsascode/revmig/internal/logger"
)

const defaultWatchDebounce = 500 * time.Millisecond

// fileWatcher watches a directory tree and calls onChange once per burst of
// relevant file events
type fileWatcher struct {
	fsWatcher *fsnotify.Watcher
	match     func(path string) bool
	onChange  func()
	debounce  time.Duration

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu        sync.Mutex
	lastEvent time.Time
	pending   bool
}

func newFileWatcher(dir string, match func(string) bool, onChange func()) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("revision watcher: create fsnotify: %w", err)
	}

	// fsnotify is not recursive; subdirectories are added one by one
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("revision watcher: watch %s: %w", dir, err)
	}

	w := &fileWatcher{
		fsWatcher: fsw,
		match:     match,
		onChange:  onChange,
		debounce:  defaultWatchDebounce,
		done:      make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Stop terminates the watcher and waits for the background goroutine
func (w *fileWatcher) Stop() error {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
	return w.fsWatcher.Close()
}

func (w *fileWatcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fsWatcher.Add(event.Name)
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.match(event.Name) && !isDownFile(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending = true
			w.lastEvent = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("Revision watcher error: %v", err)

		case <-ticker.C:
			w.mu.Lock()
			ready := w.pending && time.Since(w.lastEvent) >= w.debounce
			if ready {
				w.pending = false
			}
			w.mu.Unlock()
			if ready {
				w.onChange()
			}
		}
	}
}

func isDownFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), ".down.sql")
}
