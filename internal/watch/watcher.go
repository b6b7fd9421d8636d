// Package watch reports changes to the GDM configuration file.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events produced by an atomic
// temp-file-and-rename write into one notification.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches a single file through its parent directory, which
// survives the file being replaced by rename.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	debounce time.Duration
	logger   *slog.Logger
}

// NewFileWatcher creates a watcher for filePath.
func NewFileWatcher(filePath string, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return nil, err
	}
	return &FileWatcher{
		watcher:  watcher,
		filePath: filePath,
		debounce: DefaultDebounce,
		logger:   logger,
	}, nil
}

// SetDebounce overrides the debounce interval.
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.debounce = d
}

// Run calls onChange after each settled change to the file until ctx is
// cancelled. It closes the underlying watcher on return.
func (fw *FileWatcher) Run(ctx context.Context, onChange func()) error {
	defer fw.watcher.Close()

	filename := filepath.Base(fw.filePath)
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				fw.logger.Debug("config changed", "file", fw.filePath, "op", event.Op.String())
				timer.Reset(fw.debounce)
			}

		case <-timer.C:
			onChange()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("file watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
