package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// Event reports one change to an immediate child of the watched folder
type Event struct {
	Op   string
	Path string
	Name string
	Time time.Time
}

// Watcher watches a single folder, non-recursively
type Watcher struct {
	path   string
	fs     *fsnotify.Watcher
	events chan Event
	errors chan error
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// New starts watching folder. The folder must exist and be a directory.
func New(folder string) (*Watcher, error) {
	if folder == "" {
		return nil, apperr.New(apperr.InvalidInput, "path parameter required")
	}
	info, err := os.Stat(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.NotFound, "Folder does not exist")
		}
		return nil, apperr.FromOS(err, "Failed to watch folder")
	}
	if !info.IsDir() {
		return nil, apperr.New(apperr.InvalidInput, "Not a folder")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, "Failed to create watcher", err)
	}
	if err := fw.Add(folder); err != nil {
		fw.Close()
		return nil, apperr.FromOS(err, "Failed to watch folder")
	}

	w := &Watcher{
		path:   filepath.Clean(folder),
		fs:     fw,
		events: make(chan Event, 64),
		errors: make(chan error, 4),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Path returns the watched folder
func (w *Watcher) Path() string {
	return w.path
}

// Events delivers changes until Close
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors delivers watcher failures until Close
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errors)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			op := OpName(ev.Op)
			if op == "" {
				continue
			}
			select {
			case w.events <- Event{Op: op, Path: ev.Name, Name: filepath.Base(ev.Name), Time: time.Now()}:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// OpName maps an fsnotify op to the wire name. Chmod-only events yield "".
func OpName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return ""
	}
}
