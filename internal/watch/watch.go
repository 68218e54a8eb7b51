// Package watch re-renders markdown files in a directory as they change.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdqrcode/internal/document"
	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/logfields"
	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Event reports the outcome for one markdown file.
type Event struct {
	Path   string
	Output string
	// Skipped is set when the content fingerprint did not change.
	Skipped bool
	Err     error
}

// Watcher renders every markdown file in a directory once, then again each
// time it changes.
type Watcher struct {
	dir       string
	outDir    string
	converter *document.Converter
	debounce  time.Duration
	rescan    time.Duration
	logger    *slog.Logger
	recorder  metrics.Recorder
	notify    func(Event)

	// Owned by the Run goroutine.
	fingerprints map[string]string
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithRescan adds a full directory pass every interval. Zero disables it.
func WithRescan(interval time.Duration) Option {
	return func(w *Watcher) { w.rescan = interval }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(w *Watcher) { w.recorder = r }
}

// WithNotify registers a callback invoked from the Run goroutine after each file.
func WithNotify(fn func(Event)) Option {
	return func(w *Watcher) { w.notify = fn }
}

// New returns a Watcher rendering dir into outDir with conv.
func New(dir, outDir string, conv *document.Converter, opts ...Option) *Watcher {
	w := &Watcher{
		dir:          dir,
		outDir:       outDir,
		converter:    conv,
		debounce:     DefaultDebounce,
		logger:       slog.Default(),
		recorder:     metrics.NoopRecorder{},
		notify:       func(Event) {},
		fingerprints: make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run renders all markdown files, then watches for changes until ctx is
// canceled. Conversion failures are logged and reported, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	if err := fsw.Add(w.dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
			WithContext("path", w.dir).
			Build()
	}

	if err := w.renderAll(); err != nil {
		return err
	}

	var rescans <-chan struct{}
	if w.rescan > 0 {
		rs, err := newRescanScheduler(w.rescan)
		if err != nil {
			return err
		}
		rs.start()
		defer rs.stop()
		rescans = rs.requests
	}
	w.logger.Info("Watching for markdown changes", logfields.Path(w.dir), logfields.Output(w.outDir))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher", logfields.Path(w.dir))
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isMarkdown(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove):
				delete(w.fingerprints, event.Name)
				delete(pending, event.Name)
				w.logger.Debug("Markdown file removed", logfields.File(event.Name))
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			for path := range pending {
				w.render(path)
			}
			clear(pending)

		case <-rescans:
			if err := w.renderAll(); err != nil {
				w.logger.Error("Rescan failed", logfields.Path(w.dir), logfields.Error(err))
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) renderAll() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to list directory").
			WithContext("path", w.dir).
			Build()
	}
	for _, e := range entries {
		if !e.IsDir() && isMarkdown(e.Name()) {
			w.render(filepath.Join(w.dir, e.Name()))
		}
	}
	return nil
}

func (w *Watcher) render(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		// Renamed away or removed between the event and the flush.
		if os.IsNotExist(err) {
			delete(w.fingerprints, path)
			return
		}
		w.report(Event{Path: path, Err: err})
		return
	}

	fp, err := w.converter.Fingerprint(src)
	if err == nil && fp == w.fingerprints[path] {
		w.recorder.IncDocument(metrics.ResultSkipped)
		w.logger.Debug("Skipping unchanged document", logfields.File(path))
		w.notify(Event{Path: path, Skipped: true})
		return
	}

	out, _, err := w.converter.ConvertFile(path, w.outDir)
	if err != nil {
		w.report(Event{Path: path, Err: err})
		return
	}
	w.fingerprints[path] = fp
	w.notify(Event{Path: path, Output: out})
}

func (w *Watcher) report(ev Event) {
	w.logger.Error("Failed to render document", logfields.File(ev.Path), logfields.Error(ev.Err))
	w.notify(ev)
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}
