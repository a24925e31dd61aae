package script

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a single file.
//
// The parent directory is watched rather than the file, so editors that save
// by writing a new file and renaming it over the old one are still seen.
type Watcher struct {
	fsw  *fsnotify.Watcher
	file string

	onChange func()
	onError  func(error)

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewWatcher starts watching path. onChange runs on the watcher goroutine
// for every write, create or rename of the file; onError may be nil.
func NewWatcher(path string, onChange func(), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		file:     abs,
		onChange: onChange,
		onError:  onError,
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.onChange()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// File returns the absolute path being watched.
func (w *Watcher) File() string {
	return w.file
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
