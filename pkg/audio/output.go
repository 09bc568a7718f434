package audio

import (
	"errors"
	"sync"
	"time"
)

// Output interface for audio output implementations
type Output interface {
	Open(sampleRate, channels, bufferSize int) error
	Close() error
	// Write takes interleaved 16-bit samples and blocks roughly as long as
	// they take to play.
	Write(samples []int16) error
	IsPlaying() bool
}

// pacer sleeps for the play time of each written block so file and null
// sinks advance in real time like a sound card would.
type pacer struct {
	sampleRate int
	channels   int
}

func (p pacer) wait(samples int) {
	if p.sampleRate <= 0 || p.channels <= 0 {
		return
	}
	frames := samples / p.channels
	time.Sleep(time.Duration(frames) * time.Second / time.Duration(p.sampleRate))
}

// NullOutput discards all audio at real-time speed.
type NullOutput struct {
	mu     sync.Mutex
	pace   pacer
	closed bool
}

func NewNullOutput() *NullOutput {
	return &NullOutput{closed: true}
}

func (n *NullOutput) Open(sampleRate, channels, bufferSize int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pace = pacer{sampleRate: sampleRate, channels: channels}
	n.closed = false
	return nil
}

func (n *NullOutput) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

func (n *NullOutput) Write(samples []int16) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return errors.New("output closed")
	}
	pace := n.pace
	n.mu.Unlock()

	pace.wait(len(samples))
	return nil
}

func (n *NullOutput) IsPlaying() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.closed
}
