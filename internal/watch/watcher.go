// Package watch re-bakes a document whenever its source file changes, so a
// book author editing a chapter keeps its execution cache current without
// re-running the bake command by hand.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Rebaker is the action taken when the watched document changes.
type Rebaker func(ctx context.Context, docPath string) error

// Watcher monitors one document file and triggers a rebake on change.
// Events are debounced: editors commonly fire several writes per save.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	docPath  string
	rebake   Rebaker
	debounce time.Duration
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a watcher for docPath. The containing directory is watched
// rather than the file itself, so atomic save-and-rename editors do not
// silently detach the watch.
func New(docPath string, rebake Rebaker, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  fsw,
		logger:   logger,
		docPath:  docPath,
		rebake:   rebake,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.docPath)); err != nil {
		return err
	}
	w.logger.Info("watching document", zap.String("document", w.docPath))

	go w.run(ctx)
	return nil
}

// Stop halts the event loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.docPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			pending = timer.C
		case <-pending:
			pending = nil
			w.logger.Info("document changed, rebaking", zap.String("document", w.docPath))
			if err := w.rebake(ctx, w.docPath); err != nil {
				w.logger.Error("rebake failed", zap.String("document", w.docPath), zap.Error(err))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
