// Package download saves payloads fetched from the services to local files.
package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Well-known file names offered for downloads.
const (
	MapHTMLName    = "HWMO_filtered_map.html"
	MapArchiveName = "HWMO_Map_Data.zip"
	FilesName      = "downloaded_files.zip"
)

// Sink receives a finished download.
type Sink interface {
	Save(name string, data []byte) (string, error)
}

// DirSink writes downloads into Dir.
type DirSink struct {
	Dir string
}

// Save writes data to Dir/name through a temp file and rename, so a reader
// never sees a partial file. It returns the final path.
func (s DirSink) Save(name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("download: invalid file name %q", name)
	}
	if len(data) == 0 {
		return "", ErrNothingToSave
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("download: ensure %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("download: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("download: close %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("download: rename %s: %w", name, err)
	}
	return path, nil
}

// ErrNothingToSave is returned when there is no payload to write.
var ErrNothingToSave = errors.New("download: nothing to save")
