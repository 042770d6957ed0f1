// Package watch re-runs the export whenever the scene document changes
// on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/meshport/exporter"
	"github.com/spaghettifunk/meshport/exporter/containers"
	"github.com/spaghettifunk/meshport/exporter/core"
	"github.com/spaghettifunk/meshport/exporter/document"
)

const (
	// debounceInterval is how long the watcher waits after the last
	// write before re-exporting. Editors tend to emit bursts of events
	// per save.
	debounceInterval = 250 * time.Millisecond

	pendingQueueSize = 64
)

type Watcher struct {
	documentPath string
	exp          *exporter.Exporter

	fsnotify *fsnotify.Watcher
	pending  *containers.RingQueue
	done     chan struct{}
}

func New(documentPath string, exp *exporter.Exporter) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(documentPath)
	if err != nil {
		fsWatch.Close()
		return nil, err
	}

	return &Watcher{
		documentPath: abs,
		exp:          exp,
		fsnotify:     fsWatch,
		pending:      containers.NewRingQueue(pendingQueueSize),
		done:         make(chan struct{}),
	}, nil
}

// Run exports once, then blocks re-exporting on every document change
// until the context is cancelled. Export failures in watch mode are
// logged and the watch continues; only watcher failures are fatal.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsnotify.Close()

	// Watch the directory, not the file: editors that save via rename
	// replace the inode and a file watch would go stale.
	if err := w.fsnotify.Add(filepath.Dir(w.documentPath)); err != nil {
		return err
	}

	w.exportOnce(ctx)

	debounce := time.NewTicker(debounceInterval)
	defer debounce.Stop()

	for {
		select {
		case e := <-w.fsnotify.Events:
			if filepath.Clean(e.Name) != w.documentPath {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce bursts; a full queue just means the change is
			// already recorded.
			_ = w.pending.Enqueue(e.Name)

		case e := <-w.fsnotify.Errors:
			core.LogError("watch error: %s", e.Error())

		case <-debounce.C:
			if w.pending.IsEmpty() {
				continue
			}
			n := len(w.pending.Drain())
			core.LogDebug("document changed (%d events), re-exporting", n)
			w.exportOnce(ctx)

		case <-ctx.Done():
			return ctx.Err()

		case <-w.done:
			return nil
		}
	}
}

// Stop ends a running watch.
func (w *Watcher) Stop() {
	close(w.done)
}

func (w *Watcher) exportOnce(ctx context.Context) {
	doc, err := document.Load(w.documentPath)
	if err != nil {
		core.LogError("failed to load document: %s", err.Error())
		return
	}
	report, err := w.exp.Export(ctx, doc)
	if err != nil {
		core.LogError("export failed: %s", err.Error())
		return
	}
	core.LogInfo("wrote %s (%d triangles)", report.Path, report.Triangles)
}
