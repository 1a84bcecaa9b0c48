// Package watch provides a drop-folder ingestion adapter. Files placed
// in a watched directory are uploaded into the document index once
// writes settle.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lectern-dev/lectern/internal/core/ports/driving"
	"github.com/lectern-dev/lectern/internal/logger"
)

// DefaultSettleDelay is how long a file must stay quiet after its last
// write before it is ingested. Editors and downloads write in bursts.
const DefaultSettleDelay = 500 * time.Millisecond

// Watcher ingests files dropped into a directory.
type Watcher struct {
	dir       string
	documents driving.DocumentService

	assignModels []string
	settleDelay  time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithAssignModels assigns every ingested document to the given models.
func WithAssignModels(models []string) Option {
	return func(w *Watcher) {
		w.assignModels = models
	}
}

// WithSettleDelay overrides the write-settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.settleDelay = d
	}
}

// New creates a watcher over dir that uploads into documents.
func New(dir string, documents driving.DocumentService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:         dir,
		documents:   documents,
		settleDelay: DefaultSettleDelay,
		pending:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directory until the context is cancelled. Files
// already present when Run starts are ingested immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return fmt.Errorf("creating watch directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	if err := w.ingestExisting(ctx); err != nil {
		return err
	}

	logger.Info("watching %s for documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.schedule(ctx, event.Name)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.cancel(event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// ingestExisting uploads files that were in the directory before the
// watch started.
func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading watch directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

// schedule arms (or re-arms) the settle timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !w.eligible(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.ingest(ctx, path)
	})
}

// cancel drops the settle timer for a removed path.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

// cancelPending stops every armed timer.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// eligible filters out directories and hidden or temporary files.
func (w *Watcher) eligible(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ingest uploads a single file. Failures are logged, not fatal: one bad
// file must not stop the watch.
func (w *Watcher) ingest(ctx context.Context, path string) {
	if !w.eligible(path) {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}

	doc, err := w.documents.Upload(ctx, driving.UploadRequest{
		Name:         filepath.Base(path),
		Content:      content,
		AssignModels: w.assignModels,
	})
	if err != nil {
		logger.Warn("ingesting %s: %v", path, err)
		return
	}

	logger.Info("ingested %s as %s", path, doc.ID)
}
