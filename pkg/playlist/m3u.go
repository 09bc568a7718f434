package playlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olivierh59500/media-player/pkg/media"
)

const header = "#EXTM3U"

// Parse reads M3U lines from r. Blank and '#' lines are skipped, lines
// containing "://" are kept verbatim, and everything else is resolved
// against baseDir and kept only if it names an existing file.
func Parse(r io.Reader, baseDir string) ([]string, error) {
	var entries []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if media.IsURL(line) {
			entries = append(entries, line)
			continue
		}

		p := filepath.FromSlash(line)
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.Mode().IsRegular() {
			entries = append(entries, abs)
		}
	}
	if err := sc.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

// Normalize converts path separators to forward slashes.
func Normalize(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// Write writes an M3U header followed by one normalized entry per line.
func Write(w io.Writer, entries []string) error {
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	return writeEntries(w, entries)
}

func writeEntries(w io.Writer, entries []string) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(Normalize(e) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes entries to a new M3U file at path, replacing any existing one.
func Save(path string, entries []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}
	if err := Write(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("save playlist: %w", err)
	}
	return f.Close()
}
