package state

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher notices writes to a Store's state file, such as another
// process writing to it outside this process's Lock/Unlock protocol.
// Every write or create event on the file is signalled on Changes,
// including those caused by this process's own Save; the watcher does
// not tell the two apart. It is additive and never blocks Load/Save;
// callers that don't start one simply never learn about out-of-band
// changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	Changes chan struct{}
	Errors  chan error
}

// WatchStore starts watching store's state file for writes. Callers
// must call Close when done to release the underlying inotify/kqueue
// handle.
func WatchStore(store *Store) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(store.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		Changes: make(chan struct{}, 1),
		Errors:  make(chan error, 1),
	}

	go w.run(store.path)

	return w, nil
}

func (w *Watcher) run(path string) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case w.Changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
