// Package store persists the dashboard's client-side state as a flat
// key/value directory.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Storage is the durable key/value port. Values are whole-value overwrites.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Config locates the store on disk.
type Config interface {
	BasePath() string
}

const tmpDir = ".tmp"

// DiskStorage is a Storage backed by diskv.
type DiskStorage struct {
	d        *diskv.Diskv
	basePath string
}

var _ Storage = (*DiskStorage)(nil)

// Load creates a DiskStorage rooted at cfg.BasePath().
func Load(cfg Config) (*DiskStorage, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &DiskStorage{d: diskv.New(diskv.Options{
		BasePath: basePath,
		TempDir:  filepath.Join(basePath, tmpDir),
		// Other processes (the CLI next to a running dashboard) write the
		// same directory, so reads always go to disk.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

// BasePath reports the directory backing the store.
func (s *DiskStorage) BasePath() string {
	return s.basePath
}

// Get returns the value for key and whether it was present.
func (s *DiskStorage) Get(key string) (string, bool, error) {
	if err := validKey(key); err != nil {
		return "", false, err
	}
	if !s.d.Has(key) {
		return "", false, nil
	}
	rc, err := s.d.ReadStream(key, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("store: read %s: %w", key, err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return "", false, fmt.Errorf("store: read %s: %w", key, err)
	}
	return buf.String(), true, nil
}

// Set overwrites the value for key.
func (s *DiskStorage) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *DiskStorage) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}
