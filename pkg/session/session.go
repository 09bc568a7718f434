// Package session implements the folder and playlist panels of the player
// independently of any widget toolkit.
package session

import (
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/olivierh59500/media-player/pkg/media"
	"github.com/olivierh59500/media-player/pkg/playlist"
	"github.com/olivierh59500/media-player/pkg/transport"
)

var log = logging.Logger("session")

// User-input errors. They never change playback state.
var (
	ErrNoSelection   = errors.New("please select a file")
	ErrEmptyFolder   = errors.New("the folder contains no video or music files")
	ErrEmptyPlaylist = errors.New("the playlist contains no playable files")
	ErrNoPlaylist    = errors.New("load a playlist first or create a new one")
	ErrNoFiles       = errors.New("no files selected")
)

// Session holds what the user has browsed: the open folder listing and
// the open playlist. Starting playback copies one of them into the queue.
type Session struct {
	ctrl *transport.Controller

	// Dispatch hands watcher callbacks to the host's UI goroutine. When
	// nil, folders are not watched.
	Dispatch func(func())
	// OnFolderChanged runs on the UI goroutine after the watched folder
	// was re-listed.
	OnFolderChanged func()

	Folder   string
	Files    []string
	Playlist *playlist.Playlist

	watcher *media.Watcher
	titles  map[string]string
}

func New(ctrl *transport.Controller) *Session {
	return &Session{
		ctrl:   ctrl,
		titles: make(map[string]string),
	}
}

// OpenFolder lists dir and makes it the folder panel's content.
func (s *Session) OpenFolder(dir string) error {
	if dir == "" {
		return ErrNoSelection
	}
	files, err := media.ListFolder(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrEmptyFolder
	}

	s.stopWatching()
	s.Folder = dir
	s.Files = files
	log.Infow("folder opened", "dir", dir, "files", len(files))

	if s.Dispatch != nil {
		w, err := media.WatchFolder(dir, func(files []string) {
			s.Dispatch(func() { s.folderChanged(dir, files) })
		})
		if err != nil {
			log.Warnw("folder will not be watched", "dir", dir, "err", err)
		} else {
			s.watcher = w
		}
	}
	return nil
}

func (s *Session) folderChanged(dir string, files []string) {
	if dir != s.Folder {
		return
	}
	s.Files = files
	if s.OnFolderChanged != nil {
		s.OnFolderChanged()
	}
}

// PlayFolderItem queues the folder listing and plays entry i.
func (s *Session) PlayFolderItem(i int) error {
	if i < 0 || i >= len(s.Files) {
		return ErrNoSelection
	}
	return s.ctrl.PlayQueue(s.Files, i)
}

// OpenPlaylist loads an M3U file into the playlist panel.
func (s *Session) OpenPlaylist(path string) error {
	if path == "" {
		return ErrNoSelection
	}
	pl, err := playlist.Load(path)
	if err != nil {
		return fmt.Errorf("failed to read playlist: %w", err)
	}
	if pl.Size() == 0 {
		return ErrEmptyPlaylist
	}
	s.Playlist = pl
	log.Infow("playlist opened", "path", pl.Path, "entries", pl.Size())
	return nil
}

// PlayPlaylistItem queues the playlist entries and plays entry i.
func (s *Session) PlayPlaylistItem(i int) error {
	if s.Playlist == nil || i < 0 || i >= s.Playlist.Size() {
		return ErrNoSelection
	}
	return s.ctrl.PlayQueue(s.Playlist.Entries, i)
}

// CreatePlaylist writes files to a new M3U at path and opens it.
func (s *Session) CreatePlaylist(path string, files []string) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if path == "" {
		return ErrNoSelection
	}
	pl := playlist.New("")
	pl.Add(files...)
	if err := pl.SaveAs(path); err != nil {
		return err
	}
	s.Playlist = pl
	log.Infow("playlist created", "path", pl.Path, "entries", pl.Size())
	return nil
}

// AddToPlaylist appends files to the open playlist and its file.
func (s *Session) AddToPlaylist(files []string) error {
	if s.Playlist == nil || s.Playlist.Size() == 0 {
		return ErrNoPlaylist
	}
	if len(files) == 0 {
		return ErrNoFiles
	}
	if err := s.Playlist.Append(files...); err != nil {
		return fmt.Errorf("could not update playlist file: %w", err)
	}
	return nil
}

// Title is the display name of a queue entry, read from tags once.
func (s *Session) Title(path string) string {
	if t, ok := s.titles[path]; ok {
		return t
	}
	t := media.Describe(path).Label()
	s.titles[path] = t
	return t
}

// Close stops watching the folder.
func (s *Session) Close() {
	s.stopWatching()
}

func (s *Session) stopWatching() {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Close(); err != nil {
		log.Debugw("close watcher", "err", err)
	}
	s.watcher = nil
}
