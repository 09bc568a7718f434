package transport

import (
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/olivierh59500/media-player/pkg/media"
	"github.com/olivierh59500/media-player/pkg/playback"
)

var log = logging.Logger("transport")

var (
	// ErrOpen wraps any failure of the handle to open a media item.
	ErrOpen = errors.New("cannot open media")
	// ErrTimingUnavailable is returned by steps while the stream has no
	// position or duration yet.
	ErrTimingUnavailable = errors.New("playback position not available yet")
	// ErrNothingLoaded is returned when there is no current item to load.
	ErrNothingLoaded = errors.New("no media selected")
)

// Options tune the controller's timing behaviour.
type Options struct {
	// EndThreshold is the remaining time, in seconds, under which a tick
	// moves on to the next item.
	EndThreshold float64
	// SeekRetryDelay is the wait before retrying a seek issued before the
	// duration was known.
	SeekRetryDelay time.Duration
	// SeekRetryLimit caps those retries; 0 retries until the media changes.
	SeekRetryLimit int
}

// DefaultOptions returns the timings the player ships with.
func DefaultOptions() Options {
	return Options{
		EndThreshold:   0.1,
		SeekRetryDelay: 50 * time.Millisecond,
		SeekRetryLimit: 200,
	}
}

// Status is the snapshot a tick hands back to the UI.
type Status struct {
	Fraction float64
	Elapsed  int
	Total    int
	Paused   bool
	Stopped  bool
	// Advanced is set when the tick moved on to another item.
	Advanced bool
	Index    int
	Path     string
}

// Controller translates transport intents into handle calls. It is not
// safe for concurrent use; hosts call it from their UI goroutine only.
type Controller struct {
	handle Handle
	state  *playback.State
	policy *playback.Policy
	sched  Scheduler
	opts   Options

	// generation changes on every load and stop so queued seek retries
	// for older media are dropped.
	generation uint64
	closed     bool
}

// New creates a controller owning h. The state is shared with the caller.
func New(h Handle, st *playback.State, policy *playback.Policy, sched Scheduler, opts Options) *Controller {
	return &Controller{
		handle: h,
		state:  st,
		policy: policy,
		sched:  sched,
		opts:   opts,
	}
}

// State returns the playback state the controller mutates.
func (c *Controller) State() *playback.State {
	return c.state
}

// Open replaces the queue with a single item and plays it.
func (c *Controller) Open(path string) error {
	return c.PlayQueue([]string{path}, 0)
}

// PlayQueue replaces the queue and plays entry index.
func (c *Controller) PlayQueue(paths []string, index int) error {
	if err := c.state.SetQueue(paths, index); err != nil {
		return err
	}
	return c.load()
}

// PlayIndex plays entry i of the current queue.
func (c *Controller) PlayIndex(i int) error {
	if err := c.state.Select(i); err != nil {
		return err
	}
	return c.load()
}

func (c *Controller) load() error {
	path := c.state.CurrentPath
	if path == "" {
		return ErrNothingLoaded
	}
	c.generation++
	c.state.Paused = false
	c.state.Stopped = false

	video := media.HasVideo(path)
	if err := c.handle.Open(path, video); err != nil {
		c.state.Paused = true
		c.state.Stopped = true
		log.Errorw("open failed", "path", path, "err", err)
		return fmt.Errorf("%w %s: %v", ErrOpen, path, err)
	}
	log.Infow("playing", "path", path, "index", c.state.CurrentIndex, "video", video)
	return nil
}

// Play resumes playback.
func (c *Controller) Play() error {
	if err := c.handle.SetPaused(false); err != nil {
		return err
	}
	c.state.Paused = false
	return nil
}

// Pause suspends playback.
func (c *Controller) Pause() error {
	if err := c.handle.SetPaused(true); err != nil {
		return err
	}
	c.state.Paused = true
	return nil
}

// TogglePause flips between Play and Pause.
func (c *Controller) TogglePause() error {
	if c.state.Paused {
		return c.Play()
	}
	return c.Pause()
}

// Stop halts the handle and returns the state to its initial values,
// flagged stopped and paused.
func (c *Controller) Stop() error {
	c.generation++
	err := c.handle.Stop()
	c.state.Reset()
	c.state.Stopped = true
	c.state.Paused = true
	if err != nil {
		log.Warnw("stop failed", "err", err)
	}
	return err
}

// Seek moves to fraction (0..1) of the duration. Before the duration is
// known the request is retried through the scheduler instead of failing.
func (c *Controller) Seek(fraction float64) error {
	return c.seek(c.generation, clamp(fraction, 0, 1), 0)
}

func (c *Controller) seek(gen uint64, fraction float64, attempt int) error {
	if c.closed || gen != c.generation {
		return nil
	}
	if d, ok := c.handle.Duration(); ok && d > 0 {
		return c.handle.Seek(fraction * d)
	}
	if c.opts.SeekRetryLimit > 0 && attempt >= c.opts.SeekRetryLimit {
		log.Warnw("seek dropped, duration never became available", "fraction", fraction, "attempts", attempt)
		return nil
	}
	c.sched.AfterFunc(c.opts.SeekRetryDelay, func() {
		if err := c.seek(gen, fraction, attempt+1); err != nil {
			log.Warnw("delayed seek failed", "fraction", fraction, "err", err)
		}
	})
	return nil
}

func (c *Controller) timing() (pos, dur float64, ok bool) {
	pos, okPos := c.handle.TimePos()
	dur, okDur := c.handle.Duration()
	if !okPos || !okDur || dur <= 0 {
		return 0, 0, false
	}
	return pos, dur, true
}

// StepForward skips ahead by seconds and returns the new position.
// Stepping past the end lands on the end, pauses and flags the state
// stopped.
func (c *Controller) StepForward(seconds float64) (float64, error) {
	pos, dur, ok := c.timing()
	if !ok {
		return 0, ErrTimingUnavailable
	}
	target := pos + seconds
	if target < dur {
		return target, c.handle.Seek(target)
	}
	if err := c.handle.Seek(dur); err != nil {
		return dur, err
	}
	if err := c.handle.SetPaused(true); err != nil {
		return dur, err
	}
	c.state.Paused = true
	c.state.Stopped = true
	return dur, nil
}

// StepBackward rewinds by seconds, not past the start.
func (c *Controller) StepBackward(seconds float64) (float64, error) {
	pos, _, ok := c.timing()
	if !ok {
		return 0, ErrTimingUnavailable
	}
	target := pos - seconds
	if target < 0 {
		target = 0
	}
	return target, c.handle.Seek(target)
}

// PositionFraction returns the played fraction, or 0 without timing data.
func (c *Controller) PositionFraction() float64 {
	pos, dur, ok := c.timing()
	if !ok {
		return 0
	}
	return clamp(pos/dur, 0, 1)
}

// ElapsedAndTotal returns whole seconds played and total, or (0, 0)
// without timing data.
func (c *Controller) ElapsedAndTotal() (int, int) {
	pos, dur, ok := c.timing()
	if !ok {
		return 0, 0
	}
	return int(pos), int(dur)
}

// AdvanceToNext loads the entry chosen by the advance policy. It reports
// false when the policy has nothing to play.
func (c *Controller) AdvanceToNext() (bool, error) {
	next := c.policy.NextIndex(c.state)
	if next == playback.NoIndex {
		return false, nil
	}
	if err := c.state.Select(next); err != nil {
		return false, err
	}
	return true, c.load()
}

// Previous loads the entry before the current one.
func (c *Controller) Previous() (bool, error) {
	prev := c.policy.PreviousIndex(c.state)
	if prev == playback.NoIndex {
		return false, nil
	}
	if err := c.state.Select(prev); err != nil {
		return false, err
	}
	return true, c.load()
}

// Tick is the periodic poll driven by the host. It samples the handle and
// moves on to the next item when the current one is about to end while
// shuffle or looping is active.
func (c *Controller) Tick() (Status, error) {
	var err error
	st := Status{}

	pos, dur, ok := c.timing()
	if ok && c.autoAdvance() && dur-pos < c.opts.EndThreshold {
		st.Advanced, err = c.AdvanceToNext()
		if err == nil {
			pos, dur, ok = c.timing()
		}
	}
	if ok {
		st.Fraction = clamp(pos/dur, 0, 1)
		st.Elapsed, st.Total = int(pos), int(dur)
	}
	st.Paused = c.state.Paused
	st.Stopped = c.state.Stopped
	st.Index = c.state.CurrentIndex
	st.Path = c.state.CurrentPath
	return st, err
}

func (c *Controller) autoAdvance() bool {
	s := c.state
	return s.Shuffle || (s.Loop != playback.LoopNone && !s.Stopped)
}

// Close terminates the handle. Later calls are no-ops.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	c.handle.Terminate()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
