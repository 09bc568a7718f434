// Package transport drives a media handle from high-level transport
// intents and keeps the playback state in step with it.
package transport

import "time"

// Handle is the external media decoder/renderer. Implementations own their
// decoding goroutines; the controller only calls them from one goroutine.
type Handle interface {
	// Open starts playing path, with video output only when video is true.
	Open(path string, video bool) error
	SetPaused(paused bool) error
	Stop() error
	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error
	// TimePos and Duration report false while the stream has no timing yet.
	TimePos() (float64, bool)
	Duration() (float64, bool)
	// Terminate releases the handle. It is called once.
	Terminate()
}

// Scheduler runs fn after d on the host's UI goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func())

func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) { f(d, fn) }
