// Package media classifies playable files and lists them from folders.
package media

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// AudioExtensions are played with video output disabled.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".aac":  true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
}

// VideoExtensions are the container formats offered alongside audio.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
}

// Ext returns the lowercase extension of a file path or URL.
func Ext(p string) string {
	if IsURL(p) {
		if u, err := url.Parse(p); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(p))
}

// IsURL reports whether a playlist entry names a remote stream.
func IsURL(p string) bool {
	return strings.Contains(p, "://")
}

// IsMedia reports whether p has an extension from the allow-list.
func IsMedia(p string) bool {
	ext := Ext(p)
	return AudioExtensions[ext] || VideoExtensions[ext]
}

// IsAudio reports whether p is an audio-only format.
func IsAudio(p string) bool {
	return AudioExtensions[Ext(p)]
}

// HasVideo reports whether p should be opened with video output.
// Anything not on the audio list is treated as video.
func HasVideo(p string) bool {
	return !IsAudio(p)
}
