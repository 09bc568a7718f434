package transport

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/olivierh59500/media-player/pkg/playback"
)

type fakeHandle struct {
	opened     []string
	videoFlags []bool
	openErr    error

	paused     bool
	stops      int
	seeks      []float64
	terminated int

	pos, dur       float64
	hasPos, hasDur bool
}

func (f *fakeHandle) Open(path string, video bool) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = append(f.opened, path)
	f.videoFlags = append(f.videoFlags, video)
	f.paused = false
	f.pos, f.hasPos = 0, false
	f.hasDur = false
	return nil
}

func (f *fakeHandle) SetPaused(p bool) error { f.paused = p; return nil }
func (f *fakeHandle) Stop() error            { f.stops++; return nil }

func (f *fakeHandle) Seek(s float64) error {
	f.seeks = append(f.seeks, s)
	f.pos, f.hasPos = s, true
	return nil
}

func (f *fakeHandle) TimePos() (float64, bool)  { return f.pos, f.hasPos }
func (f *fakeHandle) Duration() (float64, bool) { return f.dur, f.hasDur }
func (f *fakeHandle) Terminate()                { f.terminated++ }

func (f *fakeHandle) setTiming(pos, dur float64) {
	f.pos, f.dur = pos, dur
	f.hasPos, f.hasDur = true, true
}

// fakeScheduler queues callbacks until run is called.
type fakeScheduler struct {
	pending []func()
	delays  []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.pending = append(s.pending, fn)
}

func (s *fakeScheduler) run() int {
	fns := s.pending
	s.pending = nil
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func newTestController() (*Controller, *fakeHandle, *fakeScheduler) {
	h := &fakeHandle{}
	sched := &fakeScheduler{}
	st := playback.NewState()
	c := New(h, st, playback.NewPolicy(rand.NewPCG(3, 4)), sched, DefaultOptions())
	return c, h, sched
}

func TestLoadSelectsVideoOutput(t *testing.T) {
	c, h, _ := newTestController()
	queue := []string{"/m/song.mp3", "/m/film.mkv", "/m/other.webm"}
	if err := c.PlayQueue(queue, 0); err != nil {
		t.Fatal(err)
	}
	c.PlayIndex(1)
	c.PlayIndex(2)

	want := []bool{false, true, true}
	for i, v := range want {
		if h.videoFlags[i] != v {
			t.Errorf("open %d (%s): video=%v, want %v", i, h.opened[i], h.videoFlags[i], v)
		}
	}
	st := c.State()
	if st.Paused || st.Stopped || st.CurrentPath != "/m/other.webm" {
		t.Fatalf("state after load: %+v", st)
	}
}

func TestLoadFailureLeavesStopped(t *testing.T) {
	c, h, _ := newTestController()
	h.openErr = errors.New("codec not supported")

	err := c.Open("/m/broken.avi")
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("got %v, want ErrOpen", err)
	}
	st := c.State()
	if !st.Paused || !st.Stopped {
		t.Fatalf("state after failed open: %+v", st)
	}
	if st.CurrentPath != "/m/broken.avi" {
		t.Fatalf("current path %q", st.CurrentPath)
	}
}

func TestPlayIndexOutOfRange(t *testing.T) {
	c, h, _ := newTestController()
	c.PlayQueue([]string{"a.mp3"}, 0)
	if err := c.PlayIndex(4); err == nil {
		t.Fatal("expected error")
	}
	if len(h.opened) != 1 {
		t.Fatalf("opened %v", h.opened)
	}
}

func TestTogglePause(t *testing.T) {
	c, h, _ := newTestController()
	c.Open("a.mp3")

	c.TogglePause()
	if !h.paused || !c.State().Paused {
		t.Fatal("expected paused")
	}
	c.TogglePause()
	if h.paused || c.State().Paused {
		t.Fatal("expected playing")
	}
}

func TestStopResetsState(t *testing.T) {
	c, h, _ := newTestController()
	c.PlayQueue([]string{"a.mp3", "b.mp3"}, 1)
	st := c.State()
	st.Loop = playback.LoopAll
	st.Shuffle = true

	c.Stop()
	if h.stops != 1 {
		t.Fatalf("handle stops %d", h.stops)
	}
	if !st.Stopped || !st.Paused || st.CurrentIndex != playback.NoIndex ||
		st.CurrentPath != "" || len(st.Queue) != 0 || st.Loop != playback.LoopNone || st.Shuffle {
		t.Fatalf("state after stop: %+v", st)
	}
}

func TestSeekWithDuration(t *testing.T) {
	c, h, sched := newTestController()
	c.Open("a.mp3")
	h.setTiming(0, 200)

	if err := c.Seek(0.25); err != nil {
		t.Fatal(err)
	}
	if len(h.seeks) != 1 || h.seeks[0] != 50 {
		t.Fatalf("seeks %v", h.seeks)
	}
	if len(sched.pending) != 0 {
		t.Fatal("no retry expected")
	}

	c.Seek(3)
	if h.seeks[1] != 200 {
		t.Fatalf("fraction not clamped: %v", h.seeks)
	}
}

func TestSeekRetriesUntilDurationKnown(t *testing.T) {
	c, h, sched := newTestController()
	c.Open("a.mp3")

	if err := c.Seek(0.5); err != nil {
		t.Fatalf("seek before duration: %v", err)
	}
	if len(h.seeks) != 0 || len(sched.pending) != 1 {
		t.Fatalf("seeks=%v pending=%d", h.seeks, len(sched.pending))
	}
	if sched.delays[0] != 50*time.Millisecond {
		t.Fatalf("retry delay %v", sched.delays[0])
	}

	// still opening
	sched.run()
	if len(h.seeks) != 0 || len(sched.pending) != 1 {
		t.Fatalf("second attempt: seeks=%v pending=%d", h.seeks, len(sched.pending))
	}

	h.setTiming(0, 120)
	sched.run()
	if len(h.seeks) != 1 || h.seeks[0] != 60 {
		t.Fatalf("seeks %v, want [60]", h.seeks)
	}
	if len(sched.pending) != 0 {
		t.Fatal("retry continued after landing")
	}
}

func TestSeekRetryDroppedAfterStopOrLoad(t *testing.T) {
	c, h, sched := newTestController()
	c.Open("a.mp3")
	c.Seek(0.5)
	c.Stop()
	h.setTiming(0, 100)
	sched.run()
	if len(h.seeks) != 0 {
		t.Fatalf("stale seek applied after stop: %v", h.seeks)
	}

	c.Open("a.mp3")
	c.Seek(0.5)
	c.Open("b.mp3")
	h.setTiming(0, 100)
	sched.run()
	if len(h.seeks) != 0 {
		t.Fatalf("stale seek applied to new media: %v", h.seeks)
	}
}

func TestSeekRetryLimit(t *testing.T) {
	c, h, sched := newTestController()
	c.opts.SeekRetryLimit = 3
	c.Open("a.mp3")
	c.Seek(0.5)

	runs := 0
	for sched.run() > 0 {
		runs++
		if runs > 10 {
			t.Fatal("retries not bounded")
		}
	}
	if runs != 3 || len(h.seeks) != 0 {
		t.Fatalf("runs=%d seeks=%v", runs, h.seeks)
	}
}

func TestStepForwardClampsAtEnd(t *testing.T) {
	c, h, _ := newTestController()
	c.Open("a.mp3")
	h.setTiming(97, 100)

	got, err := c.StepForward(10)
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 || h.seeks[len(h.seeks)-1] != 100 {
		t.Fatalf("target %v seeks %v", got, h.seeks)
	}
	if !c.State().Stopped || !h.paused {
		t.Fatalf("expected stopped and paused, state %+v handle paused=%v", c.State(), h.paused)
	}
}

func TestStepForwardInRange(t *testing.T) {
	c, h, _ := newTestController()
	c.Open("a.mp3")
	h.setTiming(10, 100)

	got, err := c.StepForward(5)
	if err != nil || got != 15 {
		t.Fatalf("got %v, %v", got, err)
	}
	if c.State().Stopped {
		t.Fatal("should not be stopped")
	}
}

func TestStepBackwardClampsAtStart(t *testing.T) {
	c, h, _ := newTestController()
	c.Open("a.mp3")
	h.setTiming(3, 100)

	got, err := c.StepBackward(10)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 || h.seeks[0] != 0 {
		t.Fatalf("target %v seeks %v", got, h.seeks)
	}

	h.setTiming(50, 100)
	if got, _ := c.StepBackward(10); got != 40 {
		t.Fatalf("target %v", got)
	}
}

func TestStepWithoutTiming(t *testing.T) {
	c, _, _ := newTestController()
	c.Open("a.mp3")
	if _, err := c.StepForward(5); !errors.Is(err, ErrTimingUnavailable) {
		t.Fatalf("forward: %v", err)
	}
	if _, err := c.StepBackward(5); !errors.Is(err, ErrTimingUnavailable) {
		t.Fatalf("backward: %v", err)
	}
}

func TestPositionQueriesUnknown(t *testing.T) {
	c, h, _ := newTestController()
	if f := c.PositionFraction(); f != 0 {
		t.Fatalf("fraction %v", f)
	}
	if e, tot := c.ElapsedAndTotal(); e != 0 || tot != 0 {
		t.Fatalf("elapsed %d total %d", e, tot)
	}

	h.pos, h.hasPos = 12, true
	h.dur, h.hasDur = 0, true
	if f := c.PositionFraction(); f != 0 {
		t.Fatalf("zero duration fraction %v", f)
	}

	h.setTiming(30.7, 120.2)
	if f := c.PositionFraction(); f < 0.255 || f > 0.256 {
		t.Fatalf("fraction %v", f)
	}
	if e, tot := c.ElapsedAndTotal(); e != 30 || tot != 120 {
		t.Fatalf("elapsed %d total %d", e, tot)
	}
}

func TestAdvanceToNext(t *testing.T) {
	c, h, _ := newTestController()
	c.PlayQueue([]string{"a.mp3", "b.mp3"}, 1)

	ok, err := c.AdvanceToNext()
	if err != nil || ok {
		t.Fatalf("loop off: ok=%v err=%v", ok, err)
	}

	c.State().Loop = playback.LoopAll
	ok, err = c.AdvanceToNext()
	if err != nil || !ok {
		t.Fatalf("loop all: ok=%v err=%v", ok, err)
	}
	st := c.State()
	if st.CurrentIndex != 0 || st.CurrentPath != "a.mp3" || h.opened[len(h.opened)-1] != "a.mp3" {
		t.Fatalf("state %+v opened %v", st, h.opened)
	}
}

func TestPrevious(t *testing.T) {
	c, h, _ := newTestController()
	if ok, _ := c.Previous(); ok {
		t.Fatal("previous on empty queue")
	}
	c.PlayQueue([]string{"a.mp3", "b.mp3", "c.mp3"}, 0)
	ok, err := c.Previous()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if c.State().CurrentIndex != 2 || h.opened[len(h.opened)-1] != "c.mp3" {
		t.Fatalf("state %+v", c.State())
	}
}

func TestTickReportsPosition(t *testing.T) {
	c, h, _ := newTestController()
	c.PlayQueue([]string{"a.mp3", "b.mp3"}, 0)
	h.setTiming(45, 180)

	st, err := c.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if st.Fraction != 0.25 || st.Elapsed != 45 || st.Total != 180 || st.Advanced {
		t.Fatalf("status %+v", st)
	}
	if st.Index != 0 || st.Path != "a.mp3" {
		t.Fatalf("status %+v", st)
	}

	// idempotent without a state change
	st2, _ := c.Tick()
	if st2 != st {
		t.Fatalf("second tick %+v != %+v", st2, st)
	}
}

func TestTickAdvancesNearEnd(t *testing.T) {
	tests := []struct {
		name     string
		loop     playback.LoopMode
		shuffle  bool
		stopped  bool
		advanced bool
	}{
		{"loop off", playback.LoopNone, false, false, false},
		{"loop all", playback.LoopAll, false, false, true},
		{"loop one", playback.LoopOne, false, false, true},
		{"loop all stopped", playback.LoopAll, false, true, false},
		{"shuffle", playback.LoopNone, true, false, true},
		{"shuffle stopped", playback.LoopNone, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, h, _ := newTestController()
			c.PlayQueue([]string{"a.mp3", "b.mp3", "c.mp3"}, 0)
			st := c.State()
			st.Loop = tt.loop
			st.Shuffle = tt.shuffle
			st.Stopped = tt.stopped
			h.setTiming(99.95, 100)

			status, err := c.Tick()
			if err != nil {
				t.Fatal(err)
			}
			if status.Advanced != tt.advanced {
				t.Fatalf("advanced=%v, want %v", status.Advanced, tt.advanced)
			}
			wantOpens := 1
			if tt.advanced {
				wantOpens = 2
			}
			if len(h.opened) != wantOpens {
				t.Fatalf("opens %v", h.opened)
			}
		})
	}
}

func TestTickDoesNotAdvanceMidTrack(t *testing.T) {
	c, h, _ := newTestController()
	c.PlayQueue([]string{"a.mp3", "b.mp3"}, 0)
	c.State().Loop = playback.LoopAll
	h.setTiming(50, 100)

	if st, _ := c.Tick(); st.Advanced {
		t.Fatal("advanced mid-track")
	}
}

func TestTickLoopOneReloadsSameItem(t *testing.T) {
	c, h, _ := newTestController()
	c.PlayQueue([]string{"a.mp3", "b.mp3"}, 1)
	c.State().Loop = playback.LoopOne
	h.setTiming(100, 100)

	st, _ := c.Tick()
	if !st.Advanced || st.Index != 1 || h.opened[len(h.opened)-1] != "b.mp3" {
		t.Fatalf("status %+v opened %v", st, h.opened)
	}
	// the reload resets timing on the handle
	if st.Fraction != 0 || st.Total != 0 {
		t.Fatalf("status after reload %+v", st)
	}
}

func TestCloseTerminatesOnce(t *testing.T) {
	c, h, sched := newTestController()
	c.Open("a.mp3")
	c.Seek(0.5)
	c.Close()
	c.Close()
	if h.terminated != 1 {
		t.Fatalf("terminated %d times", h.terminated)
	}
	h.setTiming(0, 10)
	sched.run()
	if len(h.seeks) != 0 {
		t.Fatal("seek after close")
	}
}
