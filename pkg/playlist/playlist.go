// Package playlist reads, writes and edits M3U playlists.
package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Playlist is an ordered list of media paths or URLs, optionally backed by
// an M3U file.
type Playlist struct {
	Name    string
	Path    string // backing file, empty for unsaved playlists
	Entries []string
}

// New creates an empty, unsaved playlist.
func New(name string) *Playlist {
	return &Playlist{
		Name:    name,
		Entries: make([]string, 0),
	}
}

// Load reads an M3U file. Relative entries are resolved against the
// playlist's directory; entries pointing at missing files are dropped.
func Load(path string) (*Playlist, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := Parse(f, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", abs, err)
	}
	return &Playlist{
		Name:    strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		Path:    abs,
		Entries: entries,
	}, nil
}

// Add adds entries to the in-memory list only.
func (p *Playlist) Add(entries ...string) {
	p.Entries = append(p.Entries, entries...)
}

// Append adds entries and, when the playlist is backed by a file, appends
// them to that file without touching the lines already there. A failed
// write is returned; the in-memory list keeps the new entries.
func (p *Playlist) Append(entries ...string) error {
	p.Add(entries...)
	if p.Path == "" || len(entries) == 0 {
		return nil
	}
	f, err := os.OpenFile(p.Path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("append to playlist: %w", err)
	}
	if err := writeEntries(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("append to playlist: %w", err)
	}
	return f.Close()
}

// SaveAs writes the whole playlist to path and makes it the backing file.
func (p *Playlist) SaveAs(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := Save(abs, p.Entries); err != nil {
		return err
	}
	p.Path = abs
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	}
	return nil
}

// Remove removes an item at the specified index
func (p *Playlist) Remove(index int) error {
	if index < 0 || index >= len(p.Entries) {
		return fmt.Errorf("index out of range")
	}
	p.Entries = append(p.Entries[:index], p.Entries[index+1:]...)
	return nil
}

// MoveUp swaps an entry with the one before it.
func (p *Playlist) MoveUp(index int) error {
	if index <= 0 || index >= len(p.Entries) {
		return fmt.Errorf("cannot move item up")
	}
	p.Entries[index], p.Entries[index-1] = p.Entries[index-1], p.Entries[index]
	return nil
}

// MoveDown swaps an entry with the one after it.
func (p *Playlist) MoveDown(index int) error {
	if index < 0 || index >= len(p.Entries)-1 {
		return fmt.Errorf("cannot move item down")
	}
	p.Entries[index], p.Entries[index+1] = p.Entries[index+1], p.Entries[index]
	return nil
}

// Clear removes all entries
func (p *Playlist) Clear() {
	p.Entries = make([]string, 0)
}

// Size returns the number of entries
func (p *Playlist) Size() int {
	return len(p.Entries)
}

// Get returns the entry at index.
func (p *Playlist) Get(index int) (string, error) {
	if index < 0 || index >= len(p.Entries) {
		return "", fmt.Errorf("index out of range")
	}
	return p.Entries[index], nil
}
