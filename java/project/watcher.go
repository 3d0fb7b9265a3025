package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var watchLog = commonlog.GetLogger("livejava.watch")

// Watcher keeps a project up to date with its source directories.
// Changes are collected until none arrived for the debounce interval
// and then applied together.
type Watcher struct {
	project  *Project
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func([]string)

	callbackMu sync.Mutex
	pendingMu  sync.Mutex
	pending    map[string]struct{}
	timer      *time.Timer
}

// NewWatcher returns a watcher for p. onChange, if not nil, is called
// with the changed paths after they have been applied.
func NewWatcher(p *Project, onChange func([]string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		project:  p,
		fsw:      fsw,
		debounce: p.cfg.Watch.Debounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}, nil
}

// Start watches every source path and returns; events are handled in
// the background until Close.
func (w *Watcher) Start() error {
	for _, root := range w.project.cfg.SourcePaths {
		if err := w.watchRecursive(root); err != nil {
			return err
		}
	}
	go w.run()
	return nil
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.project.match.ExcludeDir(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			WatcherEventsTotal.Inc()
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			watchLog.Errorf("watcher error: %s", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.project.match.ExcludeDir(event.Name) {
				return
			}
			if err := w.watchRecursive(event.Name); err != nil {
				watchLog.Warningf("failed to watch new directory %s: %s", event.Name, err)
				return
			}
			w.enqueueExisting(event.Name)
			return
		}
	}

	if w.project.match.ExcludeFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.schedule(event.Name)
	}
}

func (w *Watcher) enqueueExisting(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || w.project.match.ExcludeFile(path) {
			return nil
		}
		w.schedule(path)
		return nil
	})
}

func (w *Watcher) schedule(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.apply(paths)
	if w.onChange != nil {
		w.onChange(paths)
	}
}

// apply brings the project in line with the files at paths: files that
// are gone are removed, the others are read again.
func (w *Watcher) apply(paths []string) {
	for _, path := range paths {
		err := w.project.ScanFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			w.project.RemoveFile(path)
			watchLog.Debugf("removed %s", path)
		case err != nil:
			watchLog.Warningf("update %s: %s", path, err)
		default:
			watchLog.Debugf("updated %s", path)
		}
	}
}
