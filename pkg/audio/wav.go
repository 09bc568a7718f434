package audio

import (
	"fmt"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVOutput renders the stream to a 16-bit PCM WAV file in real time.
type WAVOutput struct {
	filename string
	file     *os.File
	enc      *wav.Encoder
	buf      *goaudio.IntBuffer
	pace     pacer
	mu       sync.Mutex
}

func NewWAVOutput(filename string) *WAVOutput {
	return &WAVOutput{filename: filename}
}

func (w *WAVOutput) Open(sampleRate, channels, bufferSize int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return fmt.Errorf("wav output already open")
	}
	file, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}

	w.file = file
	w.enc = wav.NewEncoder(file, sampleRate, 16, channels, 1)
	w.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 0, bufferSize*channels),
		SourceBitDepth: 16,
	}
	w.pace = pacer{sampleRate: sampleRate, channels: channels}
	return nil
}

func (w *WAVOutput) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	// the encoder patches the RIFF sizes on close
	err := w.enc.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file, w.enc, w.buf = nil, nil, nil
	return err
}

func (w *WAVOutput) Write(samples []int16) error {
	w.mu.Lock()
	if w.enc == nil {
		w.mu.Unlock()
		return fmt.Errorf("wav output not open")
	}
	w.buf.Data = w.buf.Data[:0]
	for _, s := range samples {
		w.buf.Data = append(w.buf.Data, int(s))
	}
	err := w.enc.Write(w.buf)
	pace := w.pace
	w.mu.Unlock()

	if err != nil {
		return err
	}
	pace.wait(len(samples))
	return nil
}

func (w *WAVOutput) IsPlaying() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file != nil
}
