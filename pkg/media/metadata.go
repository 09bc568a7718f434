package media

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Info is what the player shows for a queue entry.
type Info struct {
	Title  string
	Artist string
	Album  string
}

// Label returns "Artist - Title" when the artist is known.
func (i Info) Label() string {
	if i.Artist == "" {
		return i.Title
	}
	return i.Artist + " - " + i.Title
}

// Describe reads the tags of a local file. Files without usable tags, and
// URLs, fall back to their base name.
func Describe(p string) Info {
	if IsURL(p) {
		return Info{Title: p}
	}
	fallback := Info{Title: filepath.Base(p)}

	f, err := os.Open(p)
	if err != nil {
		return fallback
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return fallback
	}
	info := Info{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
	}
	if info.Title == "" {
		info.Title = fallback.Title
	}
	return info
}
