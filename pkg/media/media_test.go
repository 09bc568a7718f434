package media

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		path         string
		media, audio bool
	}{
		{"song.mp3", true, true},
		{"SONG.FLAC", true, true},
		{"voice.opus", true, true},
		{"clip.mkv", true, false},
		{"clip.MP4", true, false},
		{"notes.txt", false, false},
		{"noext", false, false},
		{"http://example.com/live/a.ogg?token=1", true, true},
		{"https://example.com/stream", false, false},
	}
	for _, tt := range tests {
		if got := IsMedia(tt.path); got != tt.media {
			t.Errorf("IsMedia(%q) = %v", tt.path, got)
		}
		if got := IsAudio(tt.path); got != tt.audio {
			t.Errorf("IsAudio(%q) = %v", tt.path, got)
		}
		if got := HasVideo(tt.path); got == tt.audio {
			t.Errorf("HasVideo(%q) = %v", tt.path, got)
		}
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("http://example.com/a.mp3") {
		t.Error("http URL not detected")
	}
	if IsURL("/music/a.mp3") {
		t.Error("local path detected as URL")
	}
}

func TestListFolder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.mkv", "c.txt", "d.Opus"} {
		touch(t, filepath.Join(dir, name))
	}
	// directories are skipped even with a media extension
	if err := os.Mkdir(filepath.Join(dir, "album.flac"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "sub", "e.mp3"))

	files, err := ListFolder(dir)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(files)
	want := []string{
		filepath.Join(dir, "a.mkv"),
		filepath.Join(dir, "b.mp3"),
		filepath.Join(dir, "d.Opus"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d: got %q, want %q", i, files[i], want[i])
		}
		if !filepath.IsAbs(files[i]) {
			t.Errorf("%q is not absolute", files[i])
		}
	}
}

func TestListFolderMissing(t *testing.T) {
	if _, err := ListFolder(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing folder")
	}
}

func TestDescribeFallsBackToBaseName(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "untagged.mp3")
	touch(t, p)

	info := Describe(p)
	if info.Title != "untagged.mp3" || info.Artist != "" {
		t.Fatalf("got %+v", info)
	}
	if info.Label() != "untagged.mp3" {
		t.Fatalf("label %q", info.Label())
	}

	url := "http://example.com/radio.mp3"
	if got := Describe(url).Title; got != url {
		t.Fatalf("URL title %q", got)
	}
}

func TestInfoLabel(t *testing.T) {
	if got := (Info{Title: "Song", Artist: "Band"}).Label(); got != "Band - Song" {
		t.Fatalf("got %q", got)
	}
}

func TestWatchFolder(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 8)
	w, err := WatchFolder(dir, func(files []string) { changes <- files })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	touch(t, filepath.Join(dir, "ignored.txt"))
	touch(t, filepath.Join(dir, "new.mp3"))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case files := <-changes:
			for _, f := range files {
				if filepath.Base(f) == "new.mp3" {
					return
				}
			}
		case <-deadline:
			t.Fatal("no change notification for new.mp3")
		}
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := WatchFolder(t.TempDir(), func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
