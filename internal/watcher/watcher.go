package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/forPelevin/lecnotes/internal/logger"
)

// DefaultSettle is how long a new file is left alone before processing.
const DefaultSettle = 500 * time.Millisecond

var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".m4v": {}, ".flv": {},
}

// Handler processes one video file.
type Handler func(ctx context.Context, path string) error

// Watcher feeds new videos in a directory to a handler, one at a time.
type Watcher struct {
	dir     string
	handler Handler
	log     logger.Logger
	settle  time.Duration
	fsw     *fsnotify.Watcher
}

func New(dir string, handler Handler, log logger.Logger, settle time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}
	if settle < 0 {
		settle = DefaultSettle
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Watcher{dir: dir, handler: handler, log: log, settle: settle, fsw: fsw}, nil
}

// Start blocks until ctx is done. Handler errors are logged and do not stop
// the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info(ctx, "watching %s for new videos", w.dir)
	for {
		select {
		case <-ctx.Done():
			w.log.Info(ctx, "watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !IsVideo(event.Name) {
				w.log.Debug(ctx, "ignoring non-video file: %s", event.Name)
				continue
			}
			w.log.Info(ctx, "new video detected: %s", event.Name)
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return ctx.Err()
			}
			if err := w.handler(ctx, event.Name); err != nil {
				w.log.Error(ctx, "failed to process %s: %v", event.Name, err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error(ctx, "watcher error: %v", err)
		}
	}
}

func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

// IsVideo reports whether path has a supported video extension.
func IsVideo(path string) bool {
	_, ok := videoExts[strings.ToLower(filepath.Ext(path))]
	return ok
}
