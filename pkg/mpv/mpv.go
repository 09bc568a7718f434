// Package mpv plays media through libmpv. It is compiled in with the mpv
// build tag; otherwise New reports ErrUnavailable.
package mpv

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/olivierh59500/media-player/pkg/media"
)

var (
	// ErrUnavailable is returned when the binary was built without the mpv tag.
	ErrUnavailable = errors.New("built without libmpv support (use -tags mpv)")
	// ErrLoadFailed is returned when mpv gives up on a file before playing it.
	ErrLoadFailed = errors.New("mpv could not load the file")
)

// loadTimeout bounds how long Open waits for mpv to report on a file.
// Slow streams that take longer are left loading.
const loadTimeout = 5 * time.Second

// checkLocal rejects local paths that are not readable files. URLs are
// left to mpv.
func checkLocal(path string) error {
	if media.IsURL(path) {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

type loadEvent int

const (
	eventNone loadEvent = iota // wait timed out
	eventOther
	eventStartFile
	eventFileLoaded
	eventEndFile
)

// awaitLoad consumes events after a loadfile command until the new file is
// loaded or ended. An end-file seen before the new file started belongs to
// the replaced file and is skipped.
func awaitLoad(next func(timeout time.Duration) loadEvent, timeout time.Duration) (loaded bool, err error) {
	deadline := time.Now().Add(timeout)
	started := false
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return false, nil
		}
		switch next(left) {
		case eventStartFile:
			started = true
		case eventFileLoaded:
			if started {
				return true, nil
			}
		case eventEndFile:
			if started {
				return false, ErrLoadFailed
			}
		}
	}
}
