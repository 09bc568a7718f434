package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	beepwav "github.com/faiface/beep/wav"
	logging "github.com/ipfs/go-log/v2"

	"github.com/olivierh59500/media-player/pkg/media"
	"github.com/olivierh59500/media-player/pkg/transport"
)

var log = logging.Logger("audio")

var (
	// ErrUnsupported is returned for media the native decoders cannot play.
	ErrUnsupported = errors.New("unsupported by the native backend")
	ErrNotOpen     = errors.New("nothing open")
)

var _ transport.Handle = (*Handle)(nil)

// Handle plays local audio files through an Output. A goroutine pulls
// frames from the decoder and writes them; while paused or past the end
// it writes silence so the output keeps its pace.
type Handle struct {
	newOutput  func() Output
	rate       beep.SampleRate
	bufferSize int

	mu     sync.Mutex
	stream beep.StreamSeekCloser
	format beep.Format
	src    beep.Streamer
	paused bool
	ended  bool

	out  Output
	stop chan struct{}
	done chan struct{}
}

// NewHandle returns a Handle that opens a fresh output from newOutput for
// each file and renders at sampleRate.
func NewHandle(newOutput func() Output, sampleRate, bufferSize int) *Handle {
	return &Handle{
		newOutput:  newOutput,
		rate:       beep.SampleRate(sampleRate),
		bufferSize: bufferSize,
	}
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch media.Ext(path) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = beepwav.Decode(f)
	case ".flac":
		s, format, err = flac.Decode(f)
	case ".ogg":
		s, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupported, media.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, format, nil
}

func (h *Handle) Open(path string, video bool) error {
	if video {
		return fmt.Errorf("%w: video needs the mpv backend", ErrUnsupported)
	}
	if media.IsURL(path) {
		return fmt.Errorf("%w: streams need the mpv backend", ErrUnsupported)
	}
	h.Stop()

	stream, format, err := decode(path)
	if err != nil {
		return err
	}

	out := h.newOutput()
	if err := out.Open(int(h.rate), 2, h.bufferSize); err != nil {
		stream.Close()
		return fmt.Errorf("failed to open audio output: %w", err)
	}

	h.mu.Lock()
	h.stream = stream
	h.format = format
	h.src = h.source()
	h.paused = false
	h.ended = false
	h.out = out
	h.stop = make(chan struct{})
	h.done = make(chan struct{})
	go h.loop(out, h.stop, h.done)
	h.mu.Unlock()

	log.Debugw("opened", "path", path, "rate", format.SampleRate, "channels", format.NumChannels)
	return nil
}

// source wraps the decoder in a resampler when its rate differs from the
// output. Callers hold h.mu.
func (h *Handle) source() beep.Streamer {
	if h.format.SampleRate == h.rate {
		return h.stream
	}
	return beep.Resample(4, h.format.SampleRate, h.rate, h.stream)
}

func (h *Handle) loop(out Output, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	frames := make([][2]float64, h.bufferSize)
	pcm := make([]int16, h.bufferSize*2)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n := h.fill(frames)
		for i := range frames {
			var l, r float64
			if i < n {
				l, r = frames[i][0], frames[i][1]
			}
			pcm[i*2] = toInt16(l)
			pcm[i*2+1] = toInt16(r)
		}

		if err := out.Write(pcm); err != nil {
			log.Debugw("output write", "err", err)
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (h *Handle) fill(frames [][2]float64) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.paused || h.ended || h.src == nil {
		return 0
	}
	n, ok := h.src.Stream(frames)
	if !ok {
		h.ended = true
		if err := h.stream.Err(); err != nil {
			log.Warnw("decoder stopped", "err", err)
		}
	}
	return n
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}

func (h *Handle) SetPaused(paused bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stream == nil {
		return ErrNotOpen
	}
	h.paused = paused
	return nil
}

// Stop closes the current file and its output. It is a no-op when nothing
// is open.
func (h *Handle) Stop() error {
	h.mu.Lock()
	stream, out, stop, done := h.stream, h.out, h.stop, h.done
	h.stream, h.src, h.out, h.stop, h.done = nil, nil, nil, nil, nil
	h.mu.Unlock()

	if stream == nil {
		return nil
	}
	close(stop)
	// closing the output unblocks a Write in progress
	err := out.Close()
	<-done
	if cerr := stream.Close(); err == nil {
		err = cerr
	}
	return err
}

func (h *Handle) Seek(seconds float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stream == nil {
		return ErrNotOpen
	}

	p := h.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	p = max(0, min(p, h.stream.Len()))
	if err := h.stream.Seek(p); err != nil {
		return err
	}
	// the resampler buffers frames from the old position
	h.src = h.source()
	h.ended = p >= h.stream.Len()
	return nil
}

func (h *Handle) TimePos() (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stream == nil {
		return 0, false
	}
	return h.format.SampleRate.D(h.stream.Position()).Seconds(), true
}

func (h *Handle) Duration() (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stream == nil || h.stream.Len() <= 0 {
		return 0, false
	}
	return h.format.SampleRate.D(h.stream.Len()).Seconds(), true
}

func (h *Handle) Terminate() {
	if err := h.Stop(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		log.Debugw("terminate", "err", err)
	}
}
