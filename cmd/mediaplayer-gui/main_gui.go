//go:build gui

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	flag "github.com/spf13/pflag"

	"github.com/olivierh59500/media-player/pkg/backend"
	"github.com/olivierh59500/media-player/pkg/config"
)

var log = logging.Logger("mediaplayer-gui")

var (
	configPath = flag.String("config", "", "Settings file (default <user config dir>/media-player/config.json)")
	backendOpt = flag.String("backend", "", "Playback backend (auto, mpv, native)")
	output     = flag.String("output", "", "Native audio output (oto, wav, null)")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [folder | playlist.m3u]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			log.Fatalf("Failed to locate settings: %v", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *backendOpt != "" {
		cfg.Backend = *backendOpt
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	if err := cfg.ApplyLogLevel(); err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}

	handle, name, err := backend.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to start playback backend: %v", err)
	}
	log.Infow("backend ready", "backend", name)

	player := NewMediaPlayerGUI(cfg, handle)

	// Restore the last session, then let an argument override it
	if exists(cfg.LastFolder) {
		player.loadFolder(cfg.LastFolder)
	}
	if exists(cfg.LastPlaylist) {
		player.loadPlaylist(cfg.LastPlaylist)
	}
	if flag.NArg() > 0 {
		arg := flag.Arg(0)
		if strings.EqualFold(filepath.Ext(arg), ".m3u") {
			player.loadPlaylist(arg)
		} else {
			player.loadFolder(arg)
		}
	}

	player.Run()

	cfg.LastFolder = player.sess.Folder
	if player.sess.Playlist != nil {
		cfg.LastPlaylist = player.sess.Playlist.Path
	}
	if err := config.Save(path, cfg); err != nil {
		log.Warnw("settings not saved", "path", path, "err", err)
	}
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
