package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before a change is reported.
// Editors and exporters tend to write in several bursts.
const settle = 100 * time.Millisecond

// FileWatcher reports writes to a set of files. The parent directory is
// watched rather than the file so replace-by-rename saves are seen too.
type FileWatcher struct {
	fsnotify *fsnotify.Watcher
	files    map[string]bool

	mutex    sync.Mutex
	done     chan struct{}
	isClosed bool

	Changes chan string
	Errors  chan error
}

func New() (*FileWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FileWatcher{
		fsnotify: fsWatch,
		files:    make(map[string]bool),
		done:     make(chan struct{}),
		Changes:  make(chan string),
		Errors:   make(chan error),
	}
	go w.start()
	return w, nil
}

// Add starts watching the named file.
func (w *FileWatcher) Add(name string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return errors.New("watcher already closed")
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if err := w.fsnotify.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.files[abs] = true
	return nil
}

func (w *FileWatcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	return nil
}

func (w *FileWatcher) watched(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return abs, w.files[abs]
}

func (w *FileWatcher) start() {
	pending := make(map[string]bool)
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case e := <-w.fsnotify.Events:
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if abs, ok := w.watched(e.Name); ok {
				pending[abs] = true
				timer.Reset(settle)
			}

		case <-timer.C:
			for name := range pending {
				select {
				case w.Changes <- name:
				case <-w.done:
				}
			}
			pending = make(map[string]bool)

		case e := <-w.fsnotify.Errors:
			select {
			case w.Errors <- e:
			case <-w.done:
			}

		case <-w.done:
			w.fsnotify.Close()
			close(w.Changes)
			close(w.Errors)
			return
		}
	}
}
