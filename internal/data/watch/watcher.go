package watch

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/kmowery/weightline/internal/core/model"
	"github.com/kmowery/weightline/internal/data/profile"
	"github.com/kmowery/weightline/internal/util"
)

// Watcher surfaces changes to measurement files and the profile under the
// data directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan model.FileEvent
}

func NewWatcher(dataDir string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: watcher,
		events:  make(chan model.FileEvent, 100),
	}

	if err := w.addPath(dataDir); err != nil {
		watcher.Close()
		return nil, err
	}

	go w.processEvents()

	return w, nil
}

func (w *Watcher) addPath(path string) error {
	// Watch the directory tree; fsnotify only reports on watched dirs.
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if p == path {
				return err
			}
			return nil
		}

		if info.IsDir() {
			return w.watcher.Add(p)
		}

		return nil
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Ext(event.Name) == ".jsonl" || filepath.Base(event.Name) == profile.FileName {
				w.events <- model.FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (w *Watcher) Events() <-chan model.FileEvent {
	return w.events
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
