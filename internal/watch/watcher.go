// Package watch reports catalog changes under a projects root as they
// happen on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/driftdeck/driftdeck/internal/models"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// Kind is the type of catalog change.
type Kind int

const (
	// ProjectAdded is emitted when a directory appears directly under the root.
	ProjectAdded Kind = iota
	// ReportWritten is emitted when a report file is created or written.
	ReportWritten
	// ReportRemoved is emitted when a report file is removed or renamed away.
	ReportRemoved
)

func (k Kind) String() string {
	switch k {
	case ProjectAdded:
		return "project_added"
	case ReportWritten:
		return "report_written"
	case ReportRemoved:
		return "report_removed"
	default:
		return "unknown"
	}
}

// Event is a single catalog change. Report is empty for ProjectAdded.
type Event struct {
	Kind    Kind
	Project string
	Report  string
}

// Watcher watches the root, every project directory and every reports
// directory beneath it.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	events  chan Event
	stop    chan struct{}
	once    sync.Once
	logger  *zap.Logger
}

// New creates a watcher for root. A nil logger disables logging.
func New(root string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		root:    filepath.Clean(root),
		watcher: watcher,
		events:  make(chan Event, 64),
		stop:    make(chan struct{}),
		logger:  logger,
	}, nil
}

// Start adds the initial watches and begins emitting events in the
// background. A missing root yields an error wrapping fs.ErrNotExist.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := os.Stat(w.root); err != nil {
		return fmt.Errorf("watching root: %w", err)
	}
	if err := w.watcher.Add(w.root); err != nil {
		return fmt.Errorf("watching root %s: %w", w.root, err)
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("reading root %s: %w", w.root, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			w.watchProject(entry.Name(), false)
		}
	}

	go w.run(ctx)
	return nil
}

// Events returns the channel of catalog changes. Events are dropped when
// the buffer is full.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	if event.Op.Has(fsnotify.Create) && isDir(event.Name) {
		switch {
		case len(parts) == 1:
			w.emit(Event{Kind: ProjectAdded, Project: parts[0]})
			w.watchProject(parts[0], true)
		case len(parts) == 2 && parts[1] == models.ReportsDirName:
			w.watchReports(parts[0], true)
		}
		return
	}

	if e, ok := classify(parts, event.Op); ok {
		w.emit(e)
	}
}

// classify maps a path below the root, split into its components, to a
// report event.
func classify(parts []string, op fsnotify.Op) (Event, bool) {
	if len(parts) != 3 || parts[1] != models.ReportsDirName || !strings.HasSuffix(parts[2], models.ReportExt) {
		return Event{}, false
	}

	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return Event{Kind: ReportWritten, Project: parts[0], Report: parts[2]}, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return Event{Kind: ReportRemoved, Project: parts[0], Report: parts[2]}, true
	}
	return Event{}, false
}

func (w *Watcher) watchProject(project string, scan bool) {
	dir := filepath.Join(w.root, project)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Debug("cannot watch project", zap.String("project", project), zap.Error(err))
		return
	}
	if isDir(filepath.Join(dir, models.ReportsDirName)) {
		w.watchReports(project, scan)
	}
}

// watchReports adds the reports directory. With scan set, reports that
// were written before the watch was in place are emitted too.
func (w *Watcher) watchReports(project string, scan bool) {
	dir := filepath.Join(w.root, project, models.ReportsDirName)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Debug("cannot watch reports", zap.String("project", project), zap.Error(err))
		return
	}
	if !scan {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), models.ReportExt) {
			w.emit(Event{Kind: ReportWritten, Project: project, Report: entry.Name()})
		}
	}
}

func (w *Watcher) emit(event Event) {
	select {
	case w.events <- event:
	default:
		w.logger.Warn("dropping catalog event", zap.Stringer("kind", event.Kind), zap.String("project", event.Project))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
