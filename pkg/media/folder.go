package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("media")

// ListFolder returns the absolute paths of the playable files in dir, in
// directory order. Subdirectories are not descended into.
func ListFolder(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// File.ReadDir keeps the order the directory returns, unlike os.ReadDir.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", abs, err)
	}

	var files []string
	for _, e := range entries {
		if !IsMedia(e.Name()) {
			continue
		}
		full := filepath.Join(abs, e.Name())
		if !e.Type().IsRegular() {
			// follow symlinks to files
			info, err := os.Stat(full)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, full)
	}
	return files, nil
}

// Watcher re-lists a folder whenever playable files appear or disappear.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange func([]string)
	closed   chan struct{}
	done     chan struct{}
}

// WatchFolder starts watching dir. onChange receives the new listing and
// runs on the watcher goroutine; hosts hand it over to their UI thread.
func WatchFolder(dir string, onChange func([]string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		watcher:  fw,
		onChange: onChange,
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.closed:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsMedia(event.Name) || strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			files, err := ListFolder(w.dir)
			if err != nil {
				log.Warnw("relist failed", "dir", w.dir, "err", err)
				continue
			}
			log.Debugw("folder changed", "dir", w.dir, "event", event.Op.String(), "files", len(files))
			w.onChange(files)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnw("watcher error", "dir", w.dir, "err", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	select {
	case <-w.closed:
		return nil
	default:
	}
	close(w.closed)
	err := w.watcher.Close()
	<-w.done
	return err
}
