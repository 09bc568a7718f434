package session

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olivierh59500/media-player/pkg/playback"
	"github.com/olivierh59500/media-player/pkg/transport"
)

type recordingHandle struct {
	opened []string
}

func (h *recordingHandle) Open(path string, video bool) error {
	h.opened = append(h.opened, path)
	return nil
}
func (h *recordingHandle) SetPaused(bool) error      { return nil }
func (h *recordingHandle) Stop() error               { return nil }
func (h *recordingHandle) Seek(float64) error        { return nil }
func (h *recordingHandle) TimePos() (float64, bool)  { return 0, false }
func (h *recordingHandle) Duration() (float64, bool) { return 0, false }
func (h *recordingHandle) Terminate()                {}

func newTestSession() (*Session, *recordingHandle, *playback.State) {
	h := &recordingHandle{}
	st := playback.NewState()
	sched := transport.SchedulerFunc(func(time.Duration, func()) {})
	ctrl := transport.New(h, st, playback.NewPolicy(rand.NewPCG(1, 1)), sched, transport.DefaultOptions())
	return New(ctrl), h, st
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenFolderAndPlay(t *testing.T) {
	s, h, st := newTestSession()
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "one.mp3"))
	touch(t, filepath.Join(dir, "two.mkv"))
	touch(t, filepath.Join(dir, "readme.txt"))

	if err := s.OpenFolder(dir); err != nil {
		t.Fatal(err)
	}
	if len(s.Files) != 2 {
		t.Fatalf("files %v", s.Files)
	}
	if err := s.PlayFolderItem(1); err != nil {
		t.Fatal(err)
	}
	if st.CurrentIndex != 1 || st.CurrentPath != s.Files[1] || len(st.Queue) != 2 {
		t.Fatalf("state %+v", st)
	}
	if len(h.opened) != 1 || h.opened[0] != s.Files[1] {
		t.Fatalf("opened %v", h.opened)
	}
}

func TestOpenFolderErrors(t *testing.T) {
	s, _, st := newTestSession()
	if err := s.OpenFolder(""); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("empty dir name: %v", err)
	}
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))
	if err := s.OpenFolder(dir); !errors.Is(err, ErrEmptyFolder) {
		t.Fatalf("empty folder: %v", err)
	}
	if s.Folder != "" || st.CurrentIndex != playback.NoIndex {
		t.Fatal("failed open changed state")
	}
	if err := s.PlayFolderItem(0); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("play without folder: %v", err)
	}
}

func TestPlaylistFlow(t *testing.T) {
	s, h, st := newTestSession()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.flac")
	touch(t, a)
	touch(t, b)

	if err := s.AddToPlaylist([]string{a}); !errors.Is(err, ErrNoPlaylist) {
		t.Fatalf("add without playlist: %v", err)
	}
	if err := s.CreatePlaylist(filepath.Join(dir, "mix.m3u"), nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("create without files: %v", err)
	}

	listPath := filepath.Join(dir, "mix.m3u")
	if err := s.CreatePlaylist(listPath, []string{a}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddToPlaylist([]string{b}); err != nil {
		t.Fatal(err)
	}

	s.Playlist = nil
	if err := s.OpenPlaylist(listPath); err != nil {
		t.Fatal(err)
	}
	if s.Playlist.Size() != 2 {
		t.Fatalf("entries %v", s.Playlist.Entries)
	}
	if err := s.PlayPlaylistItem(1); err != nil {
		t.Fatal(err)
	}
	if st.CurrentPath != b || h.opened[0] != b {
		t.Fatalf("state %+v opened %v", st, h.opened)
	}
	if err := s.PlayPlaylistItem(2); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("bad index: %v", err)
	}
}

func TestOpenPlaylistEmpty(t *testing.T) {
	s, _, _ := newTestSession()
	dir := t.TempDir()
	listPath := filepath.Join(dir, "empty.m3u")
	os.WriteFile(listPath, []byte("#EXTM3U\nmissing.mp3\n"), 0o644)

	if err := s.OpenPlaylist(listPath); !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("got %v", err)
	}
	if s.Playlist != nil {
		t.Fatal("empty playlist kept")
	}
	if err := s.OpenPlaylist(filepath.Join(dir, "none.m3u")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestFolderWatchDispatch(t *testing.T) {
	s, _, _ := newTestSession()
	dispatched := make(chan func(), 8)
	s.Dispatch = func(fn func()) { dispatched <- fn }
	refreshed := 0
	s.OnFolderChanged = func() { refreshed++ }

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "first.mp3"))
	if err := s.OpenFolder(dir); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	touch(t, filepath.Join(dir, "second.ogg"))

	deadline := time.After(5 * time.Second)
	for len(s.Files) < 2 {
		select {
		case fn := <-dispatched:
			fn()
		case <-deadline:
			t.Fatalf("folder change not dispatched, files %v", s.Files)
		}
	}
	if refreshed == 0 {
		t.Fatal("OnFolderChanged not called")
	}
}

func TestTitleCached(t *testing.T) {
	s, _, _ := newTestSession()
	p := filepath.Join(t.TempDir(), "track.mp3")
	touch(t, p)
	if got := s.Title(p); got != "track.mp3" {
		t.Fatalf("title %q", got)
	}
	os.Remove(p)
	if got := s.Title(p); got != "track.mp3" {
		t.Fatalf("cached title %q", got)
	}
}
