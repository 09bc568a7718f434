package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process; every OtoOutput shares it.
var (
	otoMu      sync.Mutex
	otoContext *oto.Context
	otoRate    int
	otoChans   int
)

func sharedContext(sampleRate, channels, bufferSize int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoContext != nil {
		if sampleRate != otoRate || channels != otoChans {
			return nil, fmt.Errorf("audio device already open at %d Hz/%d ch, requested %d Hz/%d ch",
				otoRate, otoChans, sampleRate, channels)
		}
		return otoContext, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready
	otoContext, otoRate, otoChans = ctx, sampleRate, channels
	return ctx, nil
}

// OtoOutput plays samples on the default sound device. Writes go through
// a pipe that the oto player drains, so Write blocks at playback speed.
type OtoOutput struct {
	mu     sync.Mutex
	player *oto.Player
	writer *io.PipeWriter
	reader *io.PipeReader
	bytes  []byte
}

func NewOtoOutput() *OtoOutput {
	return &OtoOutput{}
}

func (o *OtoOutput) Open(sampleRate, channels, bufferSize int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return fmt.Errorf("stream already open")
	}
	ctx, err := sharedContext(sampleRate, channels, bufferSize)
	if err != nil {
		return err
	}

	o.reader, o.writer = io.Pipe()
	o.player = ctx.NewPlayer(o.reader)
	o.player.Play()
	return nil
}

func (o *OtoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}
	// closing the writer unblocks a pending Write and ends the stream
	o.writer.Close()
	err := o.player.Close()
	o.reader.Close()
	o.player, o.writer, o.reader = nil, nil, nil
	return err
}

func (o *OtoOutput) Write(samples []int16) error {
	o.mu.Lock()
	if o.writer == nil {
		o.mu.Unlock()
		return fmt.Errorf("stream not open")
	}
	w := o.writer
	if cap(o.bytes) < len(samples)*2 {
		o.bytes = make([]byte, len(samples)*2)
	}
	buf := o.bytes[:len(samples)*2]
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	o.mu.Unlock()

	_, err := w.Write(buf)
	return err
}

func (o *OtoOutput) IsPlaying() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player != nil && o.player.IsPlaying()
}
