//go:build mpv

package mpv

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/wildeyedskies/go-mpv/mpv"

	"github.com/olivierh59500/media-player/pkg/transport"
)

var log = logging.Logger("mpv")

// Available reports whether the binary was built with libmpv.
const Available = true

var _ transport.Handle = (*Handle)(nil)

// Handle wraps one libmpv instance. mpv decodes on its own threads and
// opens its own video window.
type Handle struct {
	mu sync.Mutex
	m  *mpv.Mpv
}

// New starts a libmpv instance.
func New() (transport.Handle, error) {
	m := mpv.Create()
	opts := [][2]string{
		// keep the last frame so the position stays readable at the end
		{"keep-open", "yes"},
		{"idle", "yes"},
		{"terminal", "no"},
		{"input-default-bindings", "no"},
	}
	for _, o := range opts {
		if err := m.SetOptionString(o[0], o[1]); err != nil {
			m.TerminateDestroy()
			return nil, fmt.Errorf("set mpv option %s: %w", o[0], err)
		}
	}
	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("initialize mpv: %w", err)
	}
	return &Handle{m: m}, nil
}

// Open loads path and waits until mpv has either started it or given up,
// so a missing file or an unplayable stream fails here.
func (h *Handle) Open(path string, video bool) error {
	if err := checkLocal(path); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	vid := "no"
	if video {
		vid = "auto"
	}
	if err := h.m.SetProperty("vid", mpv.FORMAT_STRING, vid); err != nil {
		log.Debugw("set vid", "err", err)
	}

	// drop events left over from earlier files
	for h.nextEvent(0) != eventNone {
	}
	if err := h.m.Command([]string{"loadfile", path, "replace"}); err != nil {
		return err
	}
	loaded, err := awaitLoad(h.nextEvent, loadTimeout)
	if err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}
	if !loaded {
		log.Warnw("file still loading", "path", path, "waited", loadTimeout)
	}
	return h.m.SetProperty("pause", mpv.FORMAT_FLAG, false)
}

func (h *Handle) nextEvent(timeout time.Duration) loadEvent {
	e := h.m.WaitEvent(float32(timeout.Seconds()))
	if e == nil {
		return eventNone
	}
	switch e.Event_Id {
	case mpv.EVENT_NONE:
		return eventNone
	case mpv.EVENT_START_FILE:
		return eventStartFile
	case mpv.EVENT_FILE_LOADED:
		return eventFileLoaded
	case mpv.EVENT_END_FILE:
		return eventEndFile
	}
	return eventOther
}

func (h *Handle) SetPaused(paused bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m.SetProperty("pause", mpv.FORMAT_FLAG, paused)
}

func (h *Handle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m.Command([]string{"stop"})
}

func (h *Handle) Seek(seconds float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	pos := strconv.FormatFloat(seconds, 'f', 3, 64)
	return h.m.Command([]string{"seek", pos, "absolute", "exact"})
}

func (h *Handle) double(name string) (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, err := h.m.GetProperty(name, mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func (h *Handle) TimePos() (float64, bool)  { return h.double("time-pos") }
func (h *Handle) Duration() (float64, bool) { return h.double("duration") }

func (h *Handle) Terminate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.m != nil {
		h.m.TerminateDestroy()
		h.m = nil
	}
}
