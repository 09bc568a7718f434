// Package backend picks the media handle a host plays through.
package backend

import (
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/olivierh59500/media-player/pkg/audio"
	"github.com/olivierh59500/media-player/pkg/config"
	"github.com/olivierh59500/media-player/pkg/mpv"
	"github.com/olivierh59500/media-player/pkg/transport"
)

var log = logging.Logger("backend")

// Open returns the handle configured by cfg and the name of the backend
// in use. With backend "auto" it falls back to the native player when
// libmpv is missing.
func Open(cfg config.Config) (transport.Handle, string, error) {
	switch cfg.Backend {
	case "mpv":
		h, err := mpv.New()
		if err != nil {
			return nil, "", err
		}
		return h, "mpv", nil
	case "auto":
		h, err := mpv.New()
		if err == nil {
			return h, "mpv", nil
		}
		if !errors.Is(err, mpv.ErrUnavailable) {
			log.Warnw("mpv failed, using native backend", "err", err)
		}
	case "native":
	default:
		return nil, "", fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	newOutput, err := OutputFactory(cfg)
	if err != nil {
		return nil, "", err
	}
	return audio.NewHandle(newOutput, cfg.SampleRate, cfg.BufferSize), "native", nil
}

// OutputFactory returns a constructor for the configured audio sink.
func OutputFactory(cfg config.Config) (func() audio.Output, error) {
	switch cfg.Output {
	case "oto":
		return func() audio.Output { return audio.NewOtoOutput() }, nil
	case "wav":
		if cfg.WAVFile == "" {
			return nil, errors.New("wav output needs a file name")
		}
		return func() audio.Output { return audio.NewWAVOutput(cfg.WAVFile) }, nil
	case "null":
		return func() audio.Output { return audio.NewNullOutput() }, nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", cfg.Output)
	}
}
