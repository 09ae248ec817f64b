package filemanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoFileChosen means the user dismissed the picker.
var ErrNoFileChosen = errors.New("filemanager: no file chosen")

// FilePicker asks the environment for a local file with one of the accepted
// extensions. It returns the base name and an open reader.
type FilePicker interface {
	Pick(ctx context.Context, accept ...string) (string, io.ReadCloser, error)
}

// PathPicker picks a fixed path, typically typed into a prompt.
type PathPicker struct {
	Path string
}

// Pick opens p.Path. An empty path is a cancel.
func (p PathPicker) Pick(_ context.Context, accept ...string) (string, io.ReadCloser, error) {
	path := strings.TrimSpace(p.Path)
	if path == "" {
		return "", nil, ErrNoFileChosen
	}
	if !accepted(path, accept) {
		return "", nil, fmt.Errorf("filemanager: %s is not one of %s", filepath.Base(path), strings.Join(accept, ", "))
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return "", nil, fmt.Errorf("filemanager: %s is a directory", path)
	}
	return filepath.Base(path), f, nil
}

func accepted(path string, accept []string) bool {
	if len(accept) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range accept {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
